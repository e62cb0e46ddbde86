package npv

import (
	"errors"
	"fmt"
)

// ErrEmptySeries is returned when there are no cash flows to discount. An
// empty sum is zero, but zero would read as "worthless" rather than "no data".
var ErrEmptySeries = errors.New("no cash flows to discount")

// DomainError reports an input for which the present value is undefined
type DomainError struct {
	// Param names the offending input, e.g. "rate" or "cash_flows[2]"
	Param  string
	Value  float64
	Reason string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}
