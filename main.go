package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"npvforecaster/internal/alphavantage"
	"npvforecaster/internal/config"
	"npvforecaster/internal/coordinator"
	"npvforecaster/internal/fetcher"
	"npvforecaster/internal/ratelimit"
	"npvforecaster/internal/report"
	"npvforecaster/internal/statementfile"
	"npvforecaster/internal/valuation"
)

// Exit codes
const (
	exitOK      = 0
	exitFailed  = 1
	exitConfig  = 2
	exitAborted = 130
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run values the configured tickers and writes the report to stdout. It
// returns exitFailed if any ticker could not be valued.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitConfig
	}

	logger := setupLogger(cfg, stderr)

	provider, err := newProvider(cfg)
	if err != nil {
		logger.Error("failed to create provider", "error", err)
		return exitConfig
	}

	service := valuation.NewService(provider,
		valuation.WithFetchTimeout(cfg.FetchTimeout),
		valuation.WithLogger(logger),
	)
	coord := coordinator.New(service, cfg.DiscountRate())

	logger.Info("valuing tickers",
		"tickers", cfg.Tickers,
		"provider", provider.Name(),
		"discount_rate_percent", cfg.DiscountRatePercent)

	outcomes, err := coord.Run(ctx, cfg.Tickers)
	if err != nil {
		logger.Error("coordinator failed", "error", err)
		return exitFailed
	}

	if ctx.Err() != nil {
		logger.Warn("interrupted, discarding results")
		return exitAborted
	}

	render := report.Text
	if cfg.Output == config.OutputJSON {
		render = report.JSON
	}
	if err := render(stdout, outcomes); err != nil {
		logger.Error("failed to write report", "error", err)
		return exitFailed
	}

	for _, o := range outcomes {
		if o.Failed() {
			return exitFailed
		}
	}
	return exitOK
}

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	// The HTTP client's retry hook logs through the default logger
	slog.SetDefault(logger)
	return logger
}

func newProvider(cfg *config.Config) (fetcher.Provider, error) {
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		limiter := ratelimit.New()
		limiter.SetPerMinute(ratelimit.APIAlphaVantage, cfg.AlphavantageRequestsPerMinute)

		httpCfg := fetcher.DefaultHTTPClientConfig()
		httpCfg.RetryCount = cfg.HTTPRetryCount

		return alphavantage.NewIncomeStatementProvider(
			cfg.AlphavantageAPIKey,
			cfg.AlphavantageBaseURL,
			alphavantage.WithLimiter(limiter),
			alphavantage.WithHTTPClientConfig(httpCfg),
		), nil
	case config.ProviderFile:
		info, err := os.Stat(cfg.StatementsDir)
		if err != nil {
			return nil, fmt.Errorf("statements directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("statements directory: %s is not a directory", cfg.StatementsDir)
		}
		return statementfile.NewProvider(cfg.StatementsDir), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

