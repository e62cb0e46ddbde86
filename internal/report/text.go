// Package report renders valuation outcomes for people (Text) and for other
// programs (JSON).
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"npvforecaster/internal/coordinator"
	"npvforecaster/internal/valuation"
)

var printer = message.NewPrinter(language.English)

var (
	headingColor = color.New(color.Bold)
	npvColor     = color.New(color.FgGreen, color.Bold)
	noteColor    = color.New(color.Faint)
)

// categoryColor picks how loudly a failure is shown: input problems in
// yellow, defects and unknowns in red.
func categoryColor(c valuation.Category) *color.Color {
	switch c {
	case valuation.CategoryFetch, valuation.CategoryMissingData:
		return color.New(color.FgYellow)
	case valuation.CategoryDomain:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// Amount formats v with thousands separators and two decimals
func Amount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Text writes one block per outcome: the period table and NPV for successes,
// the category title and error for failures.
func Text(w io.Writer, outcomes []coordinator.Outcome) error {
	for i, o := range outcomes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		var err error
		if o.Failed() {
			err = writeFailure(w, o)
		} else {
			err = writeResult(w, o.Result)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFailure(w io.Writer, o coordinator.Outcome) error {
	category := valuation.Classify(o.Err)
	if _, err := headingColor.Fprintln(w, o.Ticker); err != nil {
		return err
	}
	_, err := categoryColor(category).Fprintf(w, "%s: %v\n", category.Title(), o.Err)
	return err
}

func writeResult(w io.Writer, r *valuation.Result) error {
	if _, err := headingColor.Fprintf(w, "%s (%s, discount rate %s%%)\n", r.Ticker, r.Source, Amount(r.DiscountRate*100)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Year\tPeriod End\tRevenue\tCOGS\tNet Cash Flow\tPresent Value\t")
	for _, row := range r.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Year,
			row.PeriodEnd.Format("2006-01-02"),
			Amount(row.Revenue),
			Amount(row.Cost),
			Amount(row.NetCashFlow),
			Amount(row.PresentValue),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, skipped := range r.Series.Skipped {
		if _, err := noteColor.Fprintf(w, "skipped %s: %s\n", skipped.PeriodEnd, skipped.Reason); err != nil {
			return err
		}
	}

	_, err := npvColor.Fprintf(w, "NPV: %s\n", Amount(r.NPV))
	return err
}
