package report

import (
	"encoding/json"
	"errors"
	"io"

	"npvforecaster/internal/coordinator"
	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/valuation"
)

type jsonPeriod struct {
	Year         string  `json:"year"`
	PeriodEnd    string  `json:"period_end"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost_of_revenue"`
	NetCashFlow  float64 `json:"net_cash_flow"`
	PresentValue float64 `json:"present_value"`
}

type jsonSkipped struct {
	PeriodEnd string `json:"period_end"`
	Reason    string `json:"reason"`
}

type jsonError struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	// Retryable marks transient fetch failures worth running again later
	Retryable bool `json:"retryable"`
}

type jsonOutcome struct {
	Ticker       string        `json:"ticker"`
	Source       string        `json:"source,omitempty"`
	DiscountRate *float64      `json:"discount_rate,omitempty"`
	NPV          *float64      `json:"npv,omitempty"`
	Order        string        `json:"order,omitempty"`
	Years        []string      `json:"years,omitempty"`
	CashFlows    []float64     `json:"cash_flows,omitempty"`
	Periods      []jsonPeriod  `json:"periods,omitempty"`
	Skipped      []jsonSkipped `json:"skipped,omitempty"`
	Error        *jsonError    `json:"error,omitempty"`
}

// JSON writes the outcomes as an indented JSON array. Years and cash_flows
// are parallel arrays ready for charting.
func JSON(w io.Writer, outcomes []coordinator.Outcome) error {
	out := make([]jsonOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, toJSON(o))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(o coordinator.Outcome) jsonOutcome {
	if o.Failed() {
		category := valuation.Classify(o.Err)

		var fetchErr *fetcher.FetchError
		retryable := errors.As(o.Err, &fetchErr) && fetchErr.Retryable

		return jsonOutcome{
			Ticker: o.Ticker,
			Error: &jsonError{
				Category:  string(category),
				Title:     category.Title(),
				Message:   o.Err.Error(),
				Retryable: retryable,
			},
		}
	}

	r := o.Result
	rate, value := r.DiscountRate, r.NPV
	j := jsonOutcome{
		Ticker:       r.Ticker,
		Source:       r.Source,
		DiscountRate: &rate,
		NPV:          &value,
		Order:        r.Series.Order.String(),
		Years:        r.Series.Years,
		CashFlows:    r.Series.CashFlows,
	}
	for _, row := range r.Rows() {
		j.Periods = append(j.Periods, jsonPeriod{
			Year:         row.Year,
			PeriodEnd:    row.PeriodEnd.Format("2006-01-02"),
			Revenue:      row.Revenue,
			Cost:         row.Cost,
			NetCashFlow:  row.NetCashFlow,
			PresentValue: row.PresentValue,
		})
	}
	for _, s := range r.Series.Skipped {
		j.Skipped = append(j.Skipped, jsonSkipped{PeriodEnd: s.PeriodEnd, Reason: s.Reason})
	}
	return j
}
