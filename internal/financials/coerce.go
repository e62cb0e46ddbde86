package financials

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Tokens providers use for "no value reported", compared case-insensitively.
var missingTokens = map[string]struct{}{
	"":     {},
	"none": {},
	"null": {},
	"nan":  {},
	"n/a":  {},
	"na":   {},
	"-":    {},
	"--":   {},
}

var amountCleaner = strings.NewReplacer(",", "", "$", "", " ", "", "\u00a0", "")

// plainDecimal is the only number syntax a statement cell may use. It keeps
// ParseFloat's hex, underscore and Inf forms out.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// periodLayouts are tried in order when reading a row's period identifier
var periodLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01-02-06",
	"2006",
}

// ParseAmount converts a raw statement cell into a number. The second return
// value is false when the cell is absent, unparseable or not finite; such a
// cell is missing and must never be read as zero.
func ParseAmount(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parseAmountString(x)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func parseAmountString(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if _, missing := missingTokens[strings.ToLower(s)]; missing {
		return 0, false
	}

	// Accounting notation: (1,234) is -1234
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountCleaner.Replace(s)
	if !plainDecimal.MatchString(s) {
		return 0, false
	}
	// (-5) has two signs and no single reading
	if negative && strings.ContainsAny(s[:1], "+-") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ParsePeriodEnd reads a period identifier such as "2023-09-30"
func ParsePeriodEnd(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized period end %q", raw)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
