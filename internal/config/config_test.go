package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into a test. Viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"ALPHAVANTAGE_API_KEY":             "test_alphavantage_key",
		"ALPHAVANTAGE_BASE_URL":            "https://test.alphavantage.co",
		"ALPHAVANTAGE_REQUESTS_PER_MINUTE": "75",
		"TICKERS":                          "aapl,msft",
		"DISCOUNT_RATE_PERCENT":            "12.5",
		"FETCH_TIMEOUT":                    "45s",
		"HTTP_RETRY_COUNT":                 "1",
		"OUTPUT":                           "JSON",
		"LOG_LEVEL":                        "debug",
		"LOG_FORMAT":                       "json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"Provider", cfg.Provider, ProviderAlphaVantage},
		{"AlphavantageAPIKey", cfg.AlphavantageAPIKey, "test_alphavantage_key"},
		{"AlphavantageBaseURL", cfg.AlphavantageBaseURL, "https://test.alphavantage.co"},
		{"AlphavantageRequestsPerMinute", cfg.AlphavantageRequestsPerMinute, 75.0},
		{"Tickers", cfg.Tickers, []string{"AAPL", "MSFT"}},
		{"DiscountRatePercent", cfg.DiscountRatePercent, 12.5},
		{"DiscountRate", cfg.DiscountRate(), 0.125},
		{"FetchTimeout", cfg.FetchTimeout, 45 * time.Second},
		{"HTTPRetryCount", cfg.HTTPRetryCount, 1},
		{"Output", cfg.Output, OutputJSON},
		{"SlogLevel", cfg.SlogLevel(), slog.LevelDebug},
		{"LogFormat", cfg.LogFormat, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPHAVANTAGE_API_KEY", "test_alphavantage_key")

	cfg, err := Load([]string{"AAPL"})
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"Provider", cfg.Provider, ProviderAlphaVantage},
		{"AlphavantageBaseURL", cfg.AlphavantageBaseURL, "https://www.alphavantage.co/query"},
		{"AlphavantageRequestsPerMinute", cfg.AlphavantageRequestsPerMinute, 5.0},
		{"DiscountRatePercent", cfg.DiscountRatePercent, 8.0},
		{"FetchTimeout", cfg.FetchTimeout, 30 * time.Second},
		{"HTTPRetryCount", cfg.HTTPRetryCount, 3},
		{"Output", cfg.Output, OutputText},
		{"SlogLevel", cfg.SlogLevel(), slog.LevelInfo},
		{"LogFormat", cfg.LogFormat, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCOUNT_RATE_PERCENT", "5")
	t.Setenv("OUTPUT", "text")
	t.Setenv("TICKERS", "IBM")

	dir := t.TempDir()
	cfg, err := Load([]string{
		"--provider", "file",
		"--statements-dir", dir,
		"--rate", "10",
		"--timeout", "5s",
		"--output", "json",
		"--ticker", "aapl",
		"--ticker", "msft",
		"goog",
	})
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Provider != ProviderFile || cfg.StatementsDir != dir {
		t.Errorf("Provider, StatementsDir = %q, %q; want file, %q", cfg.Provider, cfg.StatementsDir, dir)
	}
	if cfg.DiscountRatePercent != 10 {
		t.Errorf("DiscountRatePercent = %v, want 10", cfg.DiscountRatePercent)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout)
	}
	if cfg.Output != OutputJSON {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if want := []string{"AAPL", "MSFT", "GOOG"}; !reflect.DeepEqual(cfg.Tickers, want) {
		t.Errorf("Tickers = %v, want %v", cfg.Tickers, want)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCOUNT_RATE_PERCENT", "15")

	path := filepath.Join(t.TempDir(), "forecast.yaml")
	content := `provider: file
statements_dir: /data/statements
tickers:
  - aapl
  - jpm
discount_rate_percent: 9
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	cfg, err := Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.StatementsDir != "/data/statements" {
		t.Errorf("StatementsDir = %q, want /data/statements", cfg.StatementsDir)
	}
	if want := []string{"AAPL", "JPM"}; !reflect.DeepEqual(cfg.Tickers, want) {
		t.Errorf("Tickers = %v, want %v", cfg.Tickers, want)
	}
	// environment beats the file
	if cfg.DiscountRatePercent != 15 {
		t.Errorf("DiscountRatePercent = %v, want 15", cfg.DiscountRatePercent)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "AAPL"})
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want config file error", err)
	}
}

func TestLoad_Help(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--help"})
	if !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("Load() error = %v, want pflag.ErrHelp", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    map[string]string
		args        []string
		wantErrText string
	}{
		{
			name:        "missing all required",
			wantErrText: "missing required configuration: ALPHAVANTAGE_API_KEY, TICKERS",
		},
		{
			name:        "missing ALPHAVANTAGE_API_KEY",
			args:        []string{"AAPL"},
			wantErrText: "ALPHAVANTAGE_API_KEY",
		},
		{
			name:        "missing TICKERS",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test"},
			wantErrText: "TICKERS",
		},
		{
			name:        "missing STATEMENTS_DIR",
			args:        []string{"--provider", "file", "AAPL"},
			wantErrText: "STATEMENTS_DIR",
		},
		{
			name:        "unknown provider",
			args:        []string{"--provider", "bloomberg", "AAPL"},
			wantErrText: `unknown provider "bloomberg"`,
		},
		{
			name:        "rate above range",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test"},
			args:        []string{"--rate", "25", "AAPL"},
			wantErrText: "discount rate must be between 0 and 20 percent, got 25",
		},
		{
			name:        "negative rate",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test", "DISCOUNT_RATE_PERCENT": "-1"},
			args:        []string{"AAPL"},
			wantErrText: "discount rate must be between",
		},
		{
			name:        "unknown output",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test"},
			args:        []string{"--output", "xml", "AAPL"},
			wantErrText: `unknown output "xml"`,
		},
		{
			name:        "unknown log level",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test", "LOG_LEVEL": "loud"},
			args:        []string{"AAPL"},
			wantErrText: `unknown log level "loud"`,
		},
		{
			name:        "unknown log format",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test", "LOG_FORMAT": "xml"},
			args:        []string{"AAPL"},
			wantErrText: `unknown log format "xml"`,
		},
		{
			name:        "zero timeout",
			setupEnv:    map[string]string{"ALPHAVANTAGE_API_KEY": "test"},
			args:        []string{"--timeout", "0s", "AAPL"},
			wantErrText: "fetch timeout must be positive",
		},
		{
			name:        "unknown flag",
			args:        []string{"--verbose"},
			wantErrText: "unknown flag: --verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.setupEnv {
				t.Setenv(key, value)
			}

			_, err := Load(tt.args)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestNormalizeTickers(t *testing.T) {
	got := normalizeTickers([]string{"aapl, msft", "", " goog ", "ibm\tjpm", ","})
	want := []string{"AAPL", "MSFT", "GOOG", "IBM", "JPM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeTickers() = %v, want %v", got, want)
	}
}
