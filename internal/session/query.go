package session

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
	"github.com/atmx/options-flow/internal/position"
	"github.com/atmx/options-flow/internal/sentiment"
)

// TradeFilter narrows the trade ledger. Zero-valued fields match everything.
type TradeFilter struct {
	Symbol         string // case-insensitive substring
	MinPremium     decimal.Decimal
	Direction      model.Direction
	Classification string
	Stance         string
}

// Match reports whether r passes every set criterion.
func (f TradeFilter) Match(r *model.TradeRecord) bool {
	if f.Symbol != "" && !strings.Contains(strings.ToLower(r.Symbol), strings.ToLower(f.Symbol)) {
		return false
	}
	if f.MinPremium.IsPositive() && r.Premium.LessThan(f.MinPremium) {
		return false
	}
	if f.Direction != "" && r.Direction != f.Direction {
		return false
	}
	if f.Classification != "" && !r.HasClassification(f.Classification) {
		return false
	}
	if f.Stance != "" && r.StanceLabel != f.Stance {
		return false
	}
	return true
}

// Position is a trade record joined with its on-demand P&L and the move of
// its underlying since the trade.
type Position struct {
	model.TradeRecord
	position.PnL
	Multiplier          decimal.Decimal `json:"multiplier"`
	UnderlyingLast      decimal.Decimal `json:"underlyingLast"`
	UnderlyingChangePct decimal.Decimal `json:"underlyingChangePct"`
}

// Counts is the population of every container.
type Counts struct {
	Trades           int `json:"trades"`
	Prints           int `json:"prints"`
	AutoTrades       int `json:"autoTrades"`
	OptionQuotes     int `json:"optionQuotes"`
	UnderlyingQuotes int `json:"underlyingQuotes"`
	Mappings         int `json:"mappings"`
}

// Trades returns the trade ledger newest first.
func (s *Session) Trades() []model.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trades.Snapshot()
}

// FilteredTrades returns the trades matching f, largest premium first and
// most recent first among equal premiums.
func (s *Session) FilteredTrades(f TradeFilter) []model.TradeRecord {
	s.mu.RLock()
	all := s.trades.Snapshot()
	s.mu.RUnlock()

	out := all[:0]
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Premium.Cmp(out[j].Premium); c != 0 {
			return c > 0
		}
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Prints returns the print ledger newest first.
func (s *Session) Prints() []model.PrintRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prints.Snapshot()
}

// AutoTrades returns the auto-trade ledger newest first.
func (s *Session) AutoTrades() []model.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoTrades.Snapshot()
}

// Positions returns the trade ledger marked to market.
func (s *Session) Positions() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions(s.trades.Snapshot())
}

// AutoPositions returns the auto-trade ledger marked to market.
func (s *Session) AutoPositions() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions(s.autoTrades.Snapshot())
}

func (s *Session) positions(records []model.TradeRecord) []Position {
	out := make([]Position, len(records))
	for i := range records {
		r := &records[i]
		ulLast := s.underlyingQuotes.Last(r.UnderlyingConid)
		out[i] = Position{
			TradeRecord:         *r,
			PnL:                 position.Compute(r),
			Multiplier:          position.Multiplier(&r.Trade),
			UnderlyingLast:      ulLast,
			UnderlyingChangePct: position.UnderlyingChangePct(r, ulLast),
		}
	}
	return out
}

// OptionQuotes returns every option quote ordered by conid.
func (s *Session) OptionQuotes() []model.QuoteSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.optionQuotes.Snapshot()
}

// UnderlyingQuotes returns every underlying quote ordered by conid.
func (s *Session) UnderlyingQuotes() []model.QuoteSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.underlyingQuotes.Snapshot()
}

// OptionQuote returns the latest quote for one option conid.
func (s *Session) OptionQuote(conid int64) (model.QuoteSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.optionQuotes.Get(conid)
}

// Resolve returns the descriptor for conid, or the Unknown placeholder.
func (s *Session) Resolve(conid int64) model.InstrumentDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings.Resolve(conid)
}

// Lookup is Resolve without the placeholder.
func (s *Session) Lookup(conid int64) (model.InstrumentDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings.Lookup(conid)
}

// Sentiment returns the current aggregate.
func (s *Session) Sentiment() sentiment.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sentiment.Snapshot()
}

// Stats returns the last upstream statistics snapshot.
func (s *Session) Stats() (model.StatsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Get()
}

// Counts reports how many entries each container holds.
func (s *Session) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Trades:           s.trades.Len(),
		Prints:           s.prints.Len(),
		AutoTrades:       s.autoTrades.Len(),
		OptionQuotes:     s.optionQuotes.Len(),
		UnderlyingQuotes: s.underlyingQuotes.Len(),
		Mappings:         s.mappings.Len(),
	}
}
