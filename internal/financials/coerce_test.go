package financials

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"plain string", "61860000000", 61860000000, true},
		{"decimal string", "1234.56", 1234.56, true},
		{"thousands separators", "1,234,567", 1234567, true},
		{"currency symbol", "$2,500.25", 2500.25, true},
		{"accounting negative", "(1,000)", -1000, true},
		{"leading minus", "-42", -42, true},
		{"padded", "  17  ", 17, true},
		{"float64", 99.5, 99.5, true},
		{"int", 12, 12, true},
		{"int64", int64(1 << 40), float64(1 << 40), true},
		{"json number", json.Number("3.25"), 3.25, true},
		{"zero is a value", "0", 0, true},
		{"nil", nil, 0, false},
		{"empty", "", 0, false},
		{"None", "None", 0, false},
		{"n/a", "N/A", 0, false},
		{"double dash", "--", 0, false},
		{"nan string", "NaN", 0, false},
		{"inf string", "Inf", 0, false},
		{"garbage", "twelve", 0, false},
		{"nan float", math.NaN(), 0, false},
		{"inf float", math.Inf(1), 0, false},
		{"bool", true, 0, false},
		{"signed accounting negative", "(-5)", 0, false},
		{"plus inside parentheses", "(+5)", 0, false},
		{"hex float", "0x1p4", 0, false},
		{"hex int", "0X10", 0, false},
		{"underscore separator", "1_000", 0, false},
		{"overflow", "1e400", 0, false},
		{"infinity word", "Infinity", 0, false},
		{"double minus", "--5", 0, false},
		{"exponent", "1.5e3", 1500, true},
		{"leading plus", "+7", 7, true},
		{"leading dot", ".5", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePeriodEnd(t *testing.T) {
	tests := []struct {
		input    string
		wantYear int
		wantErr  bool
	}{
		{"2023-09-30", 2023, false},
		{"2022-12-31T00:00:00Z", 2022, false},
		{"2021-06-30 00:00:00", 2021, false},
		{"09/30/2020", 2020, false},
		{"9/30/2017", 2017, false},
		{"09-30-16", 2016, false},
		{"2019", 2019, false},
		{" 2018-12-31 ", 2018, false},
		{"FY2023", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriodEnd(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePeriodEnd(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriodEnd(%q) returned unexpected error: %v", tt.input, err)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParsePeriodEnd(%q).Year() = %d, want %d", tt.input, got.Year(), tt.wantYear)
			}
		})
	}
}
