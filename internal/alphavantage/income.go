package alphavantage

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/financials"
	"npvforecaster/internal/ratelimit"
)

// periodKey identifies the period of each report
const periodKey = "fiscalDateEnding"

// lineItems maps AlphaVantage field names to statement column names. Fields
// not listed keep their API name.
var lineItems = map[string]string{
	"totalRevenue":               financials.ColumnTotalRevenue,
	"costOfRevenue":              financials.ColumnCostOfRevenue,
	"costofGoodsAndServicesSold": "Cost Of Goods And Services Sold",
	"grossProfit":                "Gross Profit",
	"operatingIncome":            "Operating Income",
	"netIncome":                  "Net Income",
}

// IncomeStatementResponse represents the AlphaVantage INCOME_STATEMENT response.
// Report values are strings, with "None" for items a company did not report.
type IncomeStatementResponse struct {
	Symbol        string           `json:"symbol"`
	AnnualReports []map[string]any `json:"annualReports"`

	// Set instead of data when the call is rejected
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// IncomeStatementProvider fetches annual income statements from AlphaVantage
type IncomeStatementProvider struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
	httpCfg fetcher.HTTPClientConfig
}

// Option configures an IncomeStatementProvider
type Option func(*IncomeStatementProvider)

// WithLimiter throttles requests through l
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(p *IncomeStatementProvider) {
		p.limiter = l
	}
}

// WithHTTPClientConfig replaces the default retry settings
func WithHTTPClientConfig(cfg fetcher.HTTPClientConfig) Option {
	return func(p *IncomeStatementProvider) {
		p.httpCfg = cfg
	}
}

// NewIncomeStatementProvider creates a new income statement provider
func NewIncomeStatementProvider(apiKey, baseURL string, opts ...Option) *IncomeStatementProvider {
	p := &IncomeStatementProvider{
		apiKey:  apiKey,
		httpCfg: fetcher.DefaultHTTPClientConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = fetcher.NewHTTPClient(baseURL, p.httpCfg)
	return p
}

// Name implements fetcher.Provider
func (p *IncomeStatementProvider) Name() string {
	return string(ratelimit.APIAlphaVantage)
}

// Fetch retrieves the annual income statement for ticker. Reports come back
// newest first and are kept in that order.
func (p *IncomeStatementProvider) Fetch(ctx context.Context, ticker string) (*financials.Table, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
			return nil, fetcher.NewTimeoutError(err)
		}
	}

	var result IncomeStatementResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   p.apiKey,
			"function": "INCOME_STATEMENT",
			"symbol":   symbol,
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		fetchErr := fetcher.ClassifyError(fmt.Errorf("income statement for %s: %w", symbol, err))
		fetchErr.Ticker = symbol
		return nil, fetchErr
	}

	if !resp.IsSuccess() {
		fetchErr := fetcher.ClassifyHTTPError(resp.StatusCode())
		fetchErr.Ticker = symbol
		return nil, fetchErr
	}

	switch {
	case result.Note != "":
		return nil, fetcher.NewRateLimitError(0, result.Note)
	case result.Information != "":
		return nil, fetcher.NewRateLimitError(0, result.Information)
	case result.ErrorMessage != "" && strings.Contains(strings.ToLower(result.ErrorMessage), "apikey"):
		// A bad key is reported the same way as a bad symbol
		clientErr := fetcher.NewClientError(0, result.ErrorMessage)
		clientErr.Ticker = symbol
		return nil, clientErr
	case result.ErrorMessage != "":
		notFound := fetcher.NewNotFoundError(symbol)
		notFound.Message = fmt.Sprintf("%s: %s", notFound.Message, result.ErrorMessage)
		return nil, notFound
	case result.Symbol == "" && len(result.AnnualReports) == 0:
		// Unknown symbols come back as an empty object
		return nil, fetcher.NewNotFoundError(symbol)
	}

	return toTable(result.AnnualReports), nil
}

func toTable(reports []map[string]any) *financials.Table {
	table := financials.NewTable()
	for _, report := range reports {
		periodEnd, _ := report[periodKey].(string)

		values := make(map[string]any, len(report))
		for key, v := range report {
			if key == periodKey {
				continue
			}
			if column, ok := lineItems[key]; ok {
				key = column
			}
			values[key] = v
		}

		table.AddRow(periodEnd, values)
	}
	return table
}
