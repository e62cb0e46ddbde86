package valuation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/financials"
	"npvforecaster/internal/npv"
)

// DefaultFetchTimeout bounds a single statement fetch
const DefaultFetchTimeout = 30 * time.Second

// Service runs the valuation pipeline for one ticker at a time: fetch, clean,
// discount, assemble. It holds no per-request state, so one Service can serve
// concurrent requests as long as its provider can.
type Service struct {
	provider fetcher.Provider
	timeout  time.Duration
	required []string
	logger   *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithFetchTimeout overrides DefaultFetchTimeout
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRequiredColumns adds line items a statement must carry
func WithRequiredColumns(columns ...string) Option {
	return func(s *Service) {
		s.required = append(s.required, columns...)
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a valuation service on top of provider
func NewService(provider fetcher.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		timeout:  DefaultFetchTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Value fetches the statement for ticker and discounts its net cash flows at
// rate (a fraction, 0.08 for 8%).
//
// The rate is checked before anything is fetched. Every failure is terminal
// and no partial result is returned; use Classify to tell failures apart.
func (s *Service) Value(ctx context.Context, ticker string, rate float64) (*Result, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	log := s.logger.With(
		"request_id", uuid.NewString(),
		"ticker", symbol,
		"provider", s.provider.Name(),
	)

	if err := npv.ValidateRate(rate); err != nil {
		return nil, s.fail(log, "discount rate rejected", err)
	}

	if symbol == "" {
		return nil, s.fail(log, "no ticker given", fetcher.NewClientError(0, "ticker symbol is required"))
	}

	table, err := s.fetch(ctx, symbol)
	if err != nil {
		return nil, s.fail(log, "fetch failed", err)
	}

	series, err := financials.Clean(table, s.required...)
	if err != nil {
		return nil, s.fail(log, "statement rejected", fmt.Errorf("clean %s statement: %w", symbol, err))
	}
	for _, skipped := range series.Skipped {
		log.Debug("skipped period", "period_end", skipped.PeriodEnd, "reason", skipped.Reason)
	}

	value, err := npv.Compute(series.CashFlows, rate)
	if err != nil {
		return nil, s.fail(log, "discounting failed", fmt.Errorf("discount %s cash flows: %w", symbol, err))
	}

	result, err := Assemble(symbol, s.provider.Name(), series, value, rate)
	if err != nil {
		return nil, s.fail(log, "result rejected", err)
	}

	log.Info("valuation complete",
		"periods", series.Len(),
		"skipped", len(series.Skipped),
		"order", series.Order.String(),
		"rate", rate,
		"npv", value)

	return result, nil
}

// fetch calls the provider under the fetch timeout and normalizes its error
func (s *Service) fetch(ctx context.Context, symbol string) (*financials.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	table, err := s.provider.Fetch(ctx, symbol)
	if err != nil {
		return nil, fetcher.ClassifyError(err)
	}
	if table == nil {
		fetchErr := fetcher.NewValidationError("provider returned no statement")
		fetchErr.Ticker = symbol
		return nil, fetchErr
	}
	return table, nil
}

// fail logs err at a level matching its category and returns it
func (s *Service) fail(log *slog.Logger, msg string, err error) error {
	category := Classify(err)

	level := slog.LevelWarn
	if category == CategoryDefect || category == CategoryUnknown {
		level = slog.LevelError
	}
	log.Log(context.Background(), level, msg, "category", string(category), "error", err)

	return err
}
