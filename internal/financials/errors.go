package financials

import (
	"fmt"
	"strings"
	"time"
)

// MissingDataError is returned when a statement lacks line items needed for
// the valuation. The ticker exists but cannot be valued; retrying won't help.
type MissingDataError struct {
	Columns []string
}

// Error implements the error interface
func (e *MissingDataError) Error() string {
	return fmt.Sprintf("statement is missing required line items: %s", strings.Join(e.Columns, ", "))
}

// OrderingError is returned when reported periods are not in one consistent
// chronological direction. Discounting is positional, so such a series can't
// be valued without silently misweighting periods.
type OrderingError struct {
	Index    int
	Order    Order
	Previous time.Time
	Current  time.Time
}

// Error implements the error interface
func (e *OrderingError) Error() string {
	return fmt.Sprintf("period %s at position %d breaks %s ordering after %s",
		e.Current.Format(time.DateOnly), e.Index, e.Order, e.Previous.Format(time.DateOnly))
}
