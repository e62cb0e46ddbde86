package testutil

import (
	"context"

	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/financials"
)

// MockProvider is a mock implementation of the fetcher.Provider interface for testing
type MockProvider struct {
	FetchFunc func(ctx context.Context, ticker string) (*financials.Table, error)
	NameFunc  func() string
}

// Fetch implements the Provider interface
func (m *MockProvider) Fetch(ctx context.Context, ticker string) (*financials.Table, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker)
	}
	return financials.NewTable(), nil
}

// Name implements the Provider interface
func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// NewMockProvider creates a provider that returns the same table and error for every ticker
func NewMockProvider(table *financials.Table, err error) fetcher.Provider {
	return &MockProvider{
		FetchFunc: func(ctx context.Context, ticker string) (*financials.Table, error) {
			return table, err
		},
	}
}

// Period is one statement row for IncomeStatement
type Period struct {
	End     string
	Revenue any
	Cost    any
}

// IncomeStatement builds a table with revenue and cost of revenue columns
func IncomeStatement(periods ...Period) *financials.Table {
	table := financials.NewTable(financials.ColumnTotalRevenue, financials.ColumnCostOfRevenue)
	for _, p := range periods {
		table.AddRow(p.End, map[string]any{
			financials.ColumnTotalRevenue:  p.Revenue,
			financials.ColumnCostOfRevenue: p.Cost,
		})
	}
	return table
}
