// Package statementfile serves income statements from local CSV or XLSX
// files, one file per ticker, for offline valuations and reproducible runs.
package statementfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/financials"
)

// Extensions tried for each ticker, in order
var extensions = []string{".csv", ".xlsx"}

// Provider reads <dir>/<TICKER>.csv or <dir>/<TICKER>.xlsx
type Provider struct {
	dir string
}

// NewProvider creates a provider rooted at dir
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Name implements fetcher.Provider
func (p *Provider) Name() string {
	return "statementfile"
}

// Fetch loads the statement for ticker. Row order in the file is kept as the
// period order.
func (p *Provider) Fetch(ctx context.Context, ticker string) (*financials.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" || strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		fetchErr := fetcher.NewClientError(0, fmt.Sprintf("invalid ticker %q", ticker))
		fetchErr.Ticker = symbol
		return nil, fetchErr
	}

	path, err := p.locate(symbol)
	if err != nil {
		return nil, err
	}

	var grid [][]string
	switch filepath.Ext(path) {
	case ".xlsx":
		grid, err = readXLSX(path)
	default:
		grid, err = readCSV(path)
	}
	if err != nil {
		fetchErr := fetcher.NewValidationError(fmt.Sprintf("cannot read %s: %v", filepath.Base(path), err))
		fetchErr.Ticker = symbol
		fetchErr.Cause = err
		return nil, fetchErr
	}

	table, ok := ParseGrid(grid)
	if !ok {
		fetchErr := fetcher.NewValidationError(fmt.Sprintf("%s has no statement data", filepath.Base(path)))
		fetchErr.Ticker = symbol
		return nil, fetchErr
	}
	return table, nil
}

// locate finds the statement file, accepting upper or lower case names
func (p *Provider) locate(symbol string) (string, error) {
	for _, name := range []string{symbol, strings.ToLower(symbol)} {
		for _, ext := range extensions {
			path := filepath.Join(p.dir, name+ext)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				fetchErr := fetcher.NewNetworkError(err)
				fetchErr.Message = "statement file not accessible"
				fetchErr.Ticker = symbol
				return "", fetchErr
			}
		}
	}
	return "", fetcher.NewNotFoundError(symbol)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	return r.ReadAll()
}
