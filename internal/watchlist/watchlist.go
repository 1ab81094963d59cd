// Package watchlist supplies the symbol lists sent in the upstream subscribe
// request. Implementations include a static list from configuration,
// PostgreSQL (source of truth), and Redis (read-through cache).
package watchlist

import (
	"context"
	"errors"

	"github.com/atmx/options-flow/internal/symbol"
)

var ErrEmpty = errors.New("watchlist: no valid symbols")

// Symbols is one resolved watchlist, split the way the subscribe request
// wants it.
type Symbols struct {
	Futures []string `json:"futuresSymbols"`
	Equity  []string `json:"equitySymbols"`
}

// Len returns the total number of symbols.
func (s Symbols) Len() int { return len(s.Futures) + len(s.Equity) }

// Source loads the current watchlist.
type Source interface {
	// Load returns the symbols to subscribe to. It is called once per
	// upstream connect.
	Load(ctx context.Context) (Symbols, error)

	// Name identifies the source in logs and metrics.
	Name() string
}

// DefaultSymbols is used when no watchlist is configured.
var DefaultSymbols = []string{"/ES", "/NQ", "SPY", "QQQ", "AAPL", "TSLA"}

// FromList buckets raw symbols into futures and equity lists. Invalid
// entries are dropped and reported in err; err wraps ErrEmpty when nothing
// valid remains.
func FromList(raw []string) (Symbols, error) {
	futures, equity, err := symbol.Bucket(raw)
	s := Symbols{Futures: futures, Equity: equity}
	if s.Len() == 0 {
		return s, errors.Join(ErrEmpty, err)
	}
	return s, err
}

// StaticSource serves a fixed list.
type StaticSource struct {
	symbols Symbols
}

// NewStaticSource validates raw once up front. An invalid entry is an error
// here because it can only come from configuration.
func NewStaticSource(raw []string) (*StaticSource, error) {
	s, err := FromList(raw)
	if err != nil {
		return nil, err
	}
	return &StaticSource{symbols: s}, nil
}

func (s *StaticSource) Load(context.Context) (Symbols, error) {
	return Symbols{
		Futures: append([]string(nil), s.symbols.Futures...),
		Equity:  append([]string(nil), s.symbols.Equity...),
	}, nil
}

func (s *StaticSource) Name() string { return "static" }
