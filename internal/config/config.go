package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"npvforecaster/internal/ratelimit"
)

// Statement providers
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderFile         = "file"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Accepted discount rate range, in percent
const (
	MinDiscountRatePercent = 0.0
	MaxDiscountRatePercent = 20.0
)

// Config holds all configuration for the forecaster.
type Config struct {
	Provider string `mapstructure:"provider"`

	// AlphaVantage provider
	AlphavantageAPIKey            string  `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL           string  `mapstructure:"alphavantage_base_url"`
	AlphavantageRequestsPerMinute float64 `mapstructure:"alphavantage_requests_per_minute"`

	// File provider
	StatementsDir string `mapstructure:"statements_dir"`

	// What to value
	Tickers             []string `mapstructure:"tickers"`
	DiscountRatePercent float64  `mapstructure:"discount_rate_percent"`

	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	HTTPRetryCount int           `mapstructure:"http_retry_count"`

	Output    string `mapstructure:"output"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DiscountRate returns the discount rate as a fraction
func (c *Config) DiscountRate() float64 {
	return c.DiscountRatePercent / 100
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	// validated by Load
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// keys bound to environment variables of the same name in upper case
var envKeys = []string{
	"provider",
	"alphavantage_api_key",
	"alphavantage_base_url",
	"alphavantage_requests_per_minute",
	"statements_dir",
	"tickers",
	"discount_rate_percent",
	"fetch_timeout",
	"http_retry_count",
	"output",
	"log_level",
	"log_format",
}

// Load reads configuration from command line arguments, environment
// variables, an optional .env file and an optional config file, in that
// order of precedence. Positional arguments are tickers.
//
// Expected environment variables:
//   - PROVIDER (alphavantage or file, defaults to alphavantage)
//   - ALPHAVANTAGE_API_KEY (required for alphavantage)
//   - STATEMENTS_DIR (required for file)
//   - TICKERS (comma separated, unless given on the command line)
//   - DISCOUNT_RATE_PERCENT (optional, defaults to 8)
//
// A help request returns pflag.ErrHelp after usage has been printed.
func Load(args []string) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("provider", ProviderAlphaVantage)
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("alphavantage_requests_per_minute", ratelimit.AlphaVantageFreeTier)
	v.SetDefault("discount_rate_percent", 8)
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("http_retry_count", 3)
	v.SetDefault("output", OutputText)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	fs := pflag.NewFlagSet("npvforecaster", pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a config file")
	fs.StringSlice("ticker", nil, "ticker to value (repeatable, or pass tickers as arguments)")
	fs.Float64("rate", 8, "discount rate in percent")
	fs.String("provider", ProviderAlphaVantage, "statement provider: alphavantage or file")
	fs.String("statements-dir", "", "directory of <TICKER>.csv or <TICKER>.xlsx statements")
	fs.Duration("timeout", 30*time.Second, "timeout for fetching one statement")
	fs.String("output", OutputText, "output format: text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flagKeys := map[string]string{
		"tickers":               "ticker",
		"discount_rate_percent": "rate",
		"provider":              "provider",
		"statements_dir":        "statements-dir",
		"fetch_timeout":         "timeout",
		"output":                "output",
	}
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	for _, key := range envKeys {
		v.BindEnv(key, strings.ToUpper(key))
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.npvforecaster")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Tickers = normalizeTickers(append(config.Tickers, fs.Args()...))
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	config.Output = strings.ToLower(strings.TrimSpace(config.Output))
	config.LogFormat = strings.ToLower(strings.TrimSpace(config.LogFormat))

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var missing []string
	switch c.Provider {
	case ProviderAlphaVantage:
		if c.AlphavantageAPIKey == "" {
			missing = append(missing, "ALPHAVANTAGE_API_KEY")
		}
	case ProviderFile:
		if c.StatementsDir == "" {
			missing = append(missing, "STATEMENTS_DIR")
		}
	default:
		return fmt.Errorf("unknown provider %q: want %s or %s", c.Provider, ProviderAlphaVantage, ProviderFile)
	}
	if len(c.Tickers) == 0 {
		missing = append(missing, "TICKERS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.DiscountRatePercent < MinDiscountRatePercent || c.DiscountRatePercent > MaxDiscountRatePercent {
		return fmt.Errorf("discount rate must be between %g and %g percent, got %g",
			MinDiscountRatePercent, MaxDiscountRatePercent, c.DiscountRatePercent)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.HTTPRetryCount < 0 {
		return fmt.Errorf("http retry count must not be negative, got %d", c.HTTPRetryCount)
	}
	if c.AlphavantageRequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must not be negative, got %g", c.AlphavantageRequestsPerMinute)
	}
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("unknown output %q: want %s or %s", c.Output, OutputText, OutputJSON)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q: want text or json", c.LogFormat)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("unknown log level %q: %w", c.LogLevel, err)
	}

	return nil
}

// normalizeTickers splits comma separated entries, upper-cases them and drops
// blanks. Duplicates are left for the coordinator.
func normalizeTickers(raw []string) []string {
	var tickers []string
	for _, entry := range raw {
		for _, t := range strings.FieldsFunc(entry, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			tickers = append(tickers, strings.ToUpper(t))
		}
	}
	return tickers
}
