package fetcher

import (
	"context"

	"npvforecaster/internal/financials"
)

// Provider is the interface every statement source implements. A provider
// returns the raw income statement for a ticker; all cleaning happens later.
type Provider interface {
	// Fetch retrieves the income statement for ticker, one row per reported
	// period in the source's native order. Failures are returned as
	// *FetchError so callers can report them uniformly.
	Fetch(ctx context.Context, ticker string) (*financials.Table, error)

	// Name identifies the source in logs and results, e.g. "alphavantage"
	Name() string
}
