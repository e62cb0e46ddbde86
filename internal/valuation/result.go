package valuation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"npvforecaster/internal/financials"
	"npvforecaster/internal/npv"
)

// Result is everything a presentation layer needs for one ticker: the table
// of periods, the series for charting and the NPV.
type Result struct {
	Ticker       string
	Source       string
	Series       financials.Series
	NPV          float64
	DiscountRate float64
}

// Row is one line of the valuation table
type Row struct {
	Year         string
	PeriodEnd    time.Time
	Revenue      float64
	Cost         float64
	NetCashFlow  float64
	PresentValue float64
}

// Assemble packages a cleaned series and its NPV. It computes nothing; it
// only refuses series whose parallel slices disagree in length, which would
// mean the cleaning step is broken, and rates Rows could not discount at.
func Assemble(ticker, source string, series financials.Series, value, rate float64) (*Result, error) {
	n := len(series.CashFlows)
	lengths := []struct {
		name string
		len  int
	}{
		{"period ends", len(series.PeriodEnds)},
		{"years", len(series.Years)},
		{"revenue", len(series.Revenue)},
		{"cost", len(series.Cost)},
	}
	for _, l := range lengths {
		if l.len != n {
			return nil, &ValidationError{
				Message: fmt.Sprintf("series has %d %s but %d cash flows", l.len, l.name, n),
			}
		}
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &ValidationError{Message: fmt.Sprintf("npv is not finite: %v", value)}
	}
	if err := npv.ValidateRate(rate); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("result discount rate: %v", err)}
	}

	return &Result{
		Ticker:       strings.ToUpper(strings.TrimSpace(ticker)),
		Source:       source,
		Series:       series,
		NPV:          value,
		DiscountRate: rate,
	}, nil
}

// Rows returns the table rows in series order. PresentValue is each cash
// flow discounted by its position, so the column sums to NPV.
func (r *Result) Rows() []Row {
	// Assemble accepted the rate; only an empty series errors here
	pvs, _ := npv.PresentValues(r.Series.CashFlows, r.DiscountRate)

	rows := make([]Row, 0, r.Series.Len())
	for i, p := range r.Series.Periods() {
		row := Row{
			Year:        p.Year,
			PeriodEnd:   p.PeriodEnd,
			Revenue:     p.Revenue,
			Cost:        p.CostOfRevenue,
			NetCashFlow: p.NetCashFlow(),
		}
		if i < len(pvs) {
			row.PresentValue = pvs[i]
		}
		rows = append(rows, row)
	}
	return rows
}
