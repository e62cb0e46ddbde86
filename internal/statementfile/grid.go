package statementfile

import (
	"strings"

	"npvforecaster/internal/financials"
)

// ParseGrid turns a spreadsheet-like grid into a statement table. Two layouts
// are understood:
//
//   - periods as rows: the header names the line items and the first column
//     holds period ends
//   - periods as columns: the header holds period ends and the first column
//     names the line items (the layout most finance sites export)
//
// The layout is picked by checking whether every non-empty header cell after
// the first reads as a period end. Trailing-twelve-months columns ("TTM") are
// not a fiscal period and are left out. Blank cells are kept and later read
// as missing amounts.
func ParseGrid(grid [][]string) (*financials.Table, bool) {
	if len(grid) == 0 || len(grid[0]) < 2 {
		return nil, false
	}

	header := trimCells(grid[0])
	if periodsInHeader(header[1:]) {
		return parseColumnPeriods(header, grid[1:]), true
	}
	return parseRowPeriods(header, grid[1:]), true
}

func parseRowPeriods(header []string, rows [][]string) *financials.Table {
	table := financials.NewTable()
	for _, name := range header[1:] {
		if name != "" && !table.HasColumn(name) {
			table.Columns = append(table.Columns, name)
		}
	}

	for _, raw := range rows {
		row := trimCells(raw)
		if isBlank(row) {
			continue
		}
		values := make(map[string]any, len(header)-1)
		for j, name := range header[1:] {
			if name == "" {
				continue
			}
			values[name] = cell(row, j+1)
		}
		table.AddRow(cell(row, 0), values)
	}
	return table
}

func parseColumnPeriods(header []string, rows [][]string) *financials.Table {
	table := financials.NewTable()
	for _, raw := range rows {
		if name := strings.TrimSpace(cell(raw, 0)); name != "" && !table.HasColumn(name) {
			table.Columns = append(table.Columns, name)
		}
	}

	for j, periodEnd := range header[1:] {
		if periodEnd == "" || isTrailing(periodEnd) {
			continue
		}
		values := make(map[string]any, len(rows))
		for _, raw := range rows {
			row := trimCells(raw)
			if name := cell(row, 0); name != "" {
				values[name] = cell(row, j+1)
			}
		}
		table.AddRow(periodEnd, values)
	}
	return table
}

func periodsInHeader(cells []string) bool {
	seen := false
	for _, c := range cells {
		if c == "" || isTrailing(c) {
			continue
		}
		if _, err := financials.ParsePeriodEnd(c); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func isTrailing(label string) bool {
	return strings.EqualFold(label, "ttm")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
