// Package npv discounts an ordered cash flow series to a present value.
//
// Discounting is positional: cashFlows[0] is period 1, cashFlows[1] period 2
// and so on. Callers decide what order the series is in.
package npv

import (
	"fmt"
	"math"
)

// ValidateRate checks that a per-period discount rate is usable. Rates in
// (-1, 0) are valid; -1 and below make the discount factor zero or negative.
func ValidateRate(rate float64) error {
	switch {
	case math.IsNaN(rate) || math.IsInf(rate, 0):
		return &DomainError{Param: "rate", Value: rate, Reason: "must be a finite number"}
	case rate <= -1:
		return &DomainError{Param: "rate", Value: rate, Reason: "must be greater than -100%"}
	}
	return nil
}

// DiscountFactor returns 1/(1+rate)^period
func DiscountFactor(rate float64, period int) float64 {
	return 1 / math.Pow(1+rate, float64(period))
}

// PresentValues returns each cash flow discounted by its 1-based position
func PresentValues(cashFlows []float64, rate float64) ([]float64, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}
	if len(cashFlows) == 0 {
		return nil, ErrEmptySeries
	}

	values := make([]float64, len(cashFlows))
	for i, cf := range cashFlows {
		if math.IsNaN(cf) || math.IsInf(cf, 0) {
			return nil, &DomainError{
				Param:  fmt.Sprintf("cash_flows[%d]", i),
				Value:  cf,
				Reason: "must be a finite number",
			}
		}
		pv := cf * DiscountFactor(rate, i+1)
		if math.IsNaN(pv) || math.IsInf(pv, 0) {
			return nil, &DomainError{
				Param:  fmt.Sprintf("cash_flows[%d]", i),
				Value:  cf,
				Reason: fmt.Sprintf("present value is not finite at rate %v", rate),
			}
		}
		values[i] = pv
	}

	return values, nil
}

// Compute returns NPV = sum of cashFlows[i] / (1+rate)^(i+1).
//
// It fails with *DomainError for a rate at or below -1, a non-finite rate or
// cash flow, or a sum that overflows, and with ErrEmptySeries when there is
// nothing to discount.
func Compute(cashFlows []float64, rate float64) (float64, error) {
	values, err := PresentValues(cashFlows, rate)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, pv := range values {
		total += pv
	}

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &DomainError{Param: "npv", Value: total, Reason: "sum of present values overflowed"}
	}

	return total, nil
}
