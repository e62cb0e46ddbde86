package financials

import "sort"

// Table is the raw statement a provider hands over: one row per reported
// period, with cells keyed by line-item name. Cells may hold strings, numbers
// or nil; nothing has been validated yet.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row is a single reported period.
type Row struct {
	// PeriodEnd is the date-like identifier of the period, as reported.
	PeriodEnd string
	Values    map[string]any
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// AddRow appends a period. Columns not yet known to the table are registered
// in sorted order so the column list stays deterministic.
func (t *Table) AddRow(periodEnd string, values map[string]any) {
	var added []string
	for name := range values {
		if !t.HasColumn(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	t.Columns = append(t.Columns, added...)

	t.Rows = append(t.Rows, Row{PeriodEnd: periodEnd, Values: values})
}

// HasColumn reports whether the table carries the named line item
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of periods in the table
func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) missingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
