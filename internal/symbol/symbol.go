// Package symbol parses and validates the underlying symbols a watchlist
// subscribes to. Futures roots carry a leading slash (/ES, /NQ); equities
// and ETFs are plain tickers (SPY, BRK.B).
package symbol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind separates the two subscribe lists.
type Kind string

const (
	KindFutures Kind = "FUTURES"
	KindEquity  Kind = "EQUITY"
)

var (
	// futuresRegex matches: /{root}, root being 1-4 letters or digits.
	// Example: /ES, /MES, /6E
	futuresRegex = regexp.MustCompile(`^/([A-Z0-9]{1,4})$`)

	// equityRegex matches a ticker with an optional class suffix.
	// Example: SPY, AAPL, BRK.B
	equityRegex = regexp.MustCompile(`^([A-Z]{1,5})(\.[A-Z])?$`)
)

var ErrInvalidSymbol = errors.New("symbol: invalid symbol")

// Symbol is a parsed watchlist entry.
type Symbol struct {
	Ticker string `json:"ticker"` // normalized form, e.g. "/ES" or "SPY"
	Root   string `json:"root"`   // ticker without the futures slash
	Kind   Kind   `json:"kind"`
}

// Parse normalizes s (trim, upper-case) and classifies it.
func Parse(s string) (Symbol, error) {
	t := strings.ToUpper(strings.TrimSpace(s))

	if m := futuresRegex.FindStringSubmatch(t); m != nil {
		return Symbol{Ticker: t, Root: m[1], Kind: KindFutures}, nil
	}
	if equityRegex.MatchString(t) {
		return Symbol{Ticker: t, Root: t, Kind: KindEquity}, nil
	}
	return Symbol{}, fmt.Errorf("%w: %q (expected /ROOT or TICKER)", ErrInvalidSymbol, s)
}

// Bucket splits raw symbols into futures and equity lists, normalized and
// de-duplicated in first-seen order. Invalid entries are skipped and
// reported together in err; the valid lists are returned regardless.
func Bucket(raw []string) (futures, equity []string, err error) {
	seen := make(map[string]bool, len(raw))
	var errs []error

	for _, r := range raw {
		sym, perr := Parse(r)
		if perr != nil {
			errs = append(errs, perr)
			continue
		}
		if seen[sym.Ticker] {
			continue
		}
		seen[sym.Ticker] = true

		switch sym.Kind {
		case KindFutures:
			futures = append(futures, sym.Ticker)
		case KindEquity:
			equity = append(equity, sym.Ticker)
		}
	}
	return futures, equity, errors.Join(errs...)
}
