package coordinator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"npvforecaster/internal/valuation"
)

// Valuer values a single ticker
type Valuer interface {
	Value(ctx context.Context, ticker string, rate float64) (*valuation.Result, error)
}

// Outcome is the result of valuing one ticker. Exactly one of Result and Err
// is set.
type Outcome struct {
	Ticker string
	Result *valuation.Result
	Err    error
}

// Failed reports whether the ticker could not be valued
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Coordinator values several tickers concurrently at one discount rate
type Coordinator struct {
	valuer Valuer
	rate   float64
}

// New creates a new Coordinator that values every ticker at rate
func New(valuer Valuer, rate float64) *Coordinator {
	return &Coordinator{
		valuer: valuer,
		rate:   rate,
	}
}

type indexedOutcome struct {
	index   int
	outcome Outcome
}

// Run values each ticker in its own goroutine and returns one Outcome per
// distinct ticker, in the order the tickers were given. Tickers are compared
// case-insensitively; blanks are kept so the valuer can reject them.
// Per-ticker failures are reported in the outcomes, not as Run's error.
func (c *Coordinator) Run(ctx context.Context, tickers []string) ([]Outcome, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers requested")
	}

	requested := dedupe(tickers)

	resultChan := make(chan indexedOutcome, len(requested))

	var wg sync.WaitGroup

	for i, ticker := range requested {
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()

			res, err := c.valuer.Value(ctx, t, c.rate)

			resultChan <- indexedOutcome{
				index:   idx,
				outcome: Outcome{Ticker: t, Result: res, Err: err},
			}
		}(i, ticker)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	outcomes := make([]Outcome, len(requested))
	for r := range resultChan {
		outcomes[r.index] = r.outcome
	}

	return outcomes, nil
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbol := strings.ToUpper(strings.TrimSpace(t))
		if symbol != "" && seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, symbol)
	}
	return out
}
