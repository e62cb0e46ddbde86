package valuation

import (
	"errors"
	"fmt"

	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/financials"
	"npvforecaster/internal/npv"
)

// ValidationError signals a broken internal invariant. It means a bug in the
// pipeline, not bad input, and is reported separately from user errors.
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("internal validation failed: %s", e.Message)
}

// Category groups failures by what the user can do about them
type Category string

const (
	// CategoryFetch: the provider could not deliver a statement for the ticker
	CategoryFetch Category = "fetch"
	// CategoryMissingData: the statement exists but cannot be valued
	CategoryMissingData Category = "missing_data"
	// CategoryDomain: the discount rate or an amount is mathematically unusable
	CategoryDomain Category = "domain"
	// CategoryDefect: an internal invariant broke
	CategoryDefect Category = "defect"
	// CategoryUnknown: anything not covered above
	CategoryUnknown Category = "unknown"
)

// Title is the user-facing heading for the category
func (c Category) Title() string {
	switch c {
	case CategoryFetch:
		return "Could not fetch financials"
	case CategoryMissingData:
		return "Insufficient financial data"
	case CategoryDomain:
		return "Invalid input"
	case CategoryDefect:
		return "Internal error"
	default:
		return "Something went wrong"
	}
}

// Classify maps a pipeline error to its category
func Classify(err error) Category {
	var (
		fetchErr      *fetcher.FetchError
		missingErr    *financials.MissingDataError
		orderingErr   *financials.OrderingError
		domainErr     *npv.DomainError
		validationErr *ValidationError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return CategoryDefect
	case errors.As(err, &fetchErr):
		return CategoryFetch
	case errors.As(err, &missingErr), errors.As(err, &orderingErr), errors.Is(err, npv.ErrEmptySeries):
		return CategoryMissingData
	case errors.As(err, &domainErr):
		return CategoryDomain
	default:
		return CategoryUnknown
	}
}
