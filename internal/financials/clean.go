package financials

import (
	"strconv"
	"time"
)

const (
	// ColumnTotalRevenue is the revenue line item of an income statement
	ColumnTotalRevenue = "Total Revenue"
	// ColumnCostOfRevenue is the cost of goods sold line item
	ColumnCostOfRevenue = "Cost Of Revenue"
)

// Order describes the chronological direction of a series
type Order int

const (
	// OrderSingle is reported for series with fewer than two periods
	OrderSingle Order = iota
	// OrderNewestFirst is the native order of most statement providers
	OrderNewestFirst
	// OrderOldestFirst is ascending by period end
	OrderOldestFirst
)

func (o Order) String() string {
	switch o {
	case OrderNewestFirst:
		return "newest-first"
	case OrderOldestFirst:
		return "oldest-first"
	default:
		return "single-period"
	}
}

// Period is one valid reported period
type Period struct {
	PeriodEnd     time.Time
	Year          string
	Revenue       float64
	CostOfRevenue float64
}

// NetCashFlow is revenue minus cost of revenue
func (p Period) NetCashFlow() float64 {
	return p.Revenue - p.CostOfRevenue
}

// SkippedPeriod records a row Clean dropped and why
type SkippedPeriod struct {
	PeriodEnd string
	Reason    string
}

// Series is the cleaned statement as parallel slices, one entry per valid
// period, kept in the order the provider reported them. CashFlows[0] is
// discounted as period 1 whatever calendar year it belongs to.
type Series struct {
	PeriodEnds []time.Time
	Years      []string
	Revenue    []float64
	Cost       []float64
	CashFlows  []float64

	Order   Order
	Skipped []SkippedPeriod
}

// Len returns the number of valid periods
func (s Series) Len() int {
	return len(s.CashFlows)
}

// Empty reports whether no period survived cleaning
func (s Series) Empty() bool {
	return s.Len() == 0
}

// Period returns the i-th period
func (s Series) Period(i int) Period {
	return Period{
		PeriodEnd:     s.PeriodEnds[i],
		Year:          s.Years[i],
		Revenue:       s.Revenue[i],
		CostOfRevenue: s.Cost[i],
	}
}

// Periods returns every period in series order
func (s Series) Periods() []Period {
	periods := make([]Period, 0, s.Len())
	for i := range s.CashFlows {
		periods = append(periods, s.Period(i))
	}
	return periods
}

// append adds one period to every slice at once; it is the only way Clean
// grows a series, which keeps the slices the same length.
func (s *Series) append(end time.Time, revenue, cost float64) {
	s.PeriodEnds = append(s.PeriodEnds, end)
	s.Years = append(s.Years, strconv.Itoa(end.Year()))
	s.Revenue = append(s.Revenue, revenue)
	s.Cost = append(s.Cost, cost)
	s.CashFlows = append(s.CashFlows, revenue-cost)
}

func (s *Series) skip(periodEnd, reason string) {
	s.Skipped = append(s.Skipped, SkippedPeriod{PeriodEnd: periodEnd, Reason: reason})
}

// Clean validates a raw statement and reduces it to the periods that report
// both revenue and cost of revenue.
//
// Revenue and cost of revenue are always required; extra required columns
// are only checked for presence. A missing column yields *MissingDataError.
// Rows with a missing or unparseable amount, or an unreadable period end, are
// dropped and listed in Series.Skipped. Retained periods must run in one
// strict chronological direction, otherwise *OrderingError is returned. The
// provider's order is kept as is.
func Clean(t *Table, required ...string) (Series, error) {
	columns := requiredColumns(required)
	if t == nil {
		return Series{}, &MissingDataError{Columns: columns}
	}
	if missing := t.missingColumns(columns); len(missing) > 0 {
		return Series{}, &MissingDataError{Columns: missing}
	}

	var s Series
	for _, row := range t.Rows {
		end, err := ParsePeriodEnd(row.PeriodEnd)
		if err != nil {
			s.skip(row.PeriodEnd, "unrecognized period end")
			continue
		}

		revenue, ok := ParseAmount(row.Values[ColumnTotalRevenue])
		if !ok {
			s.skip(row.PeriodEnd, "revenue missing or not numeric")
			continue
		}

		cost, ok := ParseAmount(row.Values[ColumnCostOfRevenue])
		if !ok {
			s.skip(row.PeriodEnd, "cost of revenue missing or not numeric")
			continue
		}

		s.append(end, revenue, cost)
	}

	order, err := checkOrder(s.PeriodEnds)
	if err != nil {
		return Series{}, err
	}
	s.Order = order

	return s, nil
}

func requiredColumns(extra []string) []string {
	columns := []string{ColumnTotalRevenue, ColumnCostOfRevenue}
	for _, name := range extra {
		dup := false
		for _, c := range columns {
			if c == name {
				dup = true
				break
			}
		}
		if !dup {
			columns = append(columns, name)
		}
	}
	return columns
}

// checkOrder takes the direction from the first two periods and requires every
// later step to follow it strictly. Equal period ends are rejected.
func checkOrder(ends []time.Time) (Order, error) {
	if len(ends) < 2 {
		return OrderSingle, nil
	}

	order := OrderOldestFirst
	if ends[1].Before(ends[0]) {
		order = OrderNewestFirst
	}

	for i := 1; i < len(ends); i++ {
		prev, cur := ends[i-1], ends[i]
		inOrder := cur.After(prev)
		if order == OrderNewestFirst {
			inOrder = cur.Before(prev)
		}
		if !inOrder {
			return OrderSingle, &OrderingError{Index: i, Order: order, Previous: prev, Current: cur}
		}
	}

	return order, nil
}
