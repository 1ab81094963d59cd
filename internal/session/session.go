// Package session owns the state of one feed session: the mapping table,
// the three bounded ledgers, the quote stores, the sentiment aggregate and
// the stats mirror.
//
// Apply is the only way to mutate that state. It runs under a single
// writer lock so events take effect strictly in the order they are applied.
// Every read method returns a copy taken under the read lock.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/ledger"
	"github.com/atmx/options-flow/internal/mapping"
	"github.com/atmx/options-flow/internal/metrics"
	"github.com/atmx/options-flow/internal/model"
	"github.com/atmx/options-flow/internal/position"
	"github.com/atmx/options-flow/internal/quote"
	"github.com/atmx/options-flow/internal/sentiment"
	"github.com/atmx/options-flow/internal/stats"
)

// Config sets the ledger capacities.
type Config struct {
	TradeCapacity     int
	PrintCapacity     int
	AutoTradeCapacity int
}

// DefaultConfig returns the standard capacities: 200 trades, 100 prints,
// 50 auto-trades.
func DefaultConfig() Config {
	return Config{
		TradeCapacity:     200,
		PrintCapacity:     100,
		AutoTradeCapacity: 50,
	}
}

// Change summarizes the effect of one applied event. It is what the
// websocket hub pushes downstream.
type Change struct {
	Type       string          `json:"type"`
	Conid      int64           `json:"conid,omitempty"`
	Symbol     string          `json:"symbol,omitempty"`
	Repriced   int             `json:"repriced,omitempty"`
	Sentiment  sentiment.Label `json:"sentiment,omitempty"`
	TotalScore decimal.Decimal `json:"totalScore"`
	Ignored    bool            `json:"ignored,omitempty"`
}

// Session is the state of one feed session.
type Session struct {
	mu     sync.RWMutex
	logger *slog.Logger
	now    func() time.Time

	mappings         *mapping.Resolver
	trades           *ledger.Ledger[model.TradeRecord]
	prints           *ledger.Ledger[model.PrintRecord]
	autoTrades       *ledger.Ledger[model.TradeRecord]
	optionQuotes     *quote.Store
	underlyingQuotes *quote.Store
	sentiment        *sentiment.Aggregator
	stats            *stats.Mirror
}

// New creates an empty session.
func New(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:           logger,
		now:              time.Now,
		mappings:         mapping.NewResolver(),
		trades:           ledger.New[model.TradeRecord](cfg.TradeCapacity),
		prints:           ledger.New[model.PrintRecord](cfg.PrintCapacity),
		autoTrades:       ledger.New[model.TradeRecord](cfg.AutoTradeCapacity),
		optionQuotes:     quote.NewStore(),
		underlyingQuotes: quote.NewStore(),
		sentiment:        sentiment.NewAggregator(),
		stats:            stats.NewMirror(),
	}
}

// Apply mutates the session with one event and reports what changed.
// Unknown event types are ignored.
func (s *Session) Apply(ev model.Event) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ch Change
	switch e := ev.(type) {
	case model.MappingEvent:
		s.mappings.Upsert(e.Conid, e.Mapping)
		ch = Change{Type: model.TypeConidMapping, Conid: e.Conid, Symbol: e.Mapping.Symbol}

	case model.TradeEvent:
		s.applyTrade(e.Trade)
		ch = Change{Type: e.Kind, Conid: e.Trade.Conid, Symbol: e.Trade.Symbol}

	case model.OptionQuoteEvent:
		s.optionQuotes.Upsert(e.Quote)
		n := position.Reconcile(e.Quote, s.trades, s.autoTrades)
		if n > 0 {
			metrics.PositionsRepriced.Add(float64(n))
		}
		ch = Change{Type: model.TypeLiveQuote, Conid: e.Quote.Conid, Repriced: n}

	case model.UnderlyingQuoteEvent:
		s.underlyingQuotes.Upsert(e.Quote)
		ch = Change{Type: model.TypeULLiveQuote, Conid: e.Quote.Conid}

	case model.StatsEvent:
		if e.Stats == nil {
			s.stats.Clear()
		} else {
			s.stats.Replace(*e.Stats)
		}
		ch = Change{Type: model.TypeTradingStats}

	default:
		s.logger.Debug("ignoring unsupported event", "event", ev)
		return Change{Ignored: true, TotalScore: s.sentiment.Total()}
	}

	ch.TotalScore = s.sentiment.Total()
	ch.Sentiment = sentiment.Classify(ch.TotalScore)
	s.observe()
	return ch
}

// applyTrade records a CALL/PUT arrival. Must be called with mu held.
func (s *Session) applyTrade(t model.Trade) {
	now := s.now()
	rec := model.TradeRecord{
		ID:             uuid.NewString(),
		Trade:          t,
		ReceivedAt:     now,
		InitialPrice:   t.OptionPrice,
		CurrentPrice:   t.OptionPrice,
		PriceChange:    decimal.Zero,
		PriceChangePct: decimal.Zero,
	}

	if evicted, ok := s.trades.Push(rec); ok {
		s.sentiment.Remove(&evicted.Trade)
	}
	s.sentiment.Add(&rec.Trade)

	s.prints.Push(newPrint(rec.ID, t, now))

	if t.IsAutoTrade {
		s.autoTrades.Push(rec)
	}
}

func newPrint(id string, t model.Trade, receivedAt time.Time) model.PrintRecord {
	aggressor := model.AggressorSell
	if t.Aggressor {
		aggressor = model.AggressorBuy
	}
	return model.PrintRecord{
		ID:              id,
		Conid:           t.Conid,
		Symbol:          t.Symbol,
		Right:           t.Type,
		Strike:          t.Strike,
		Expiry:          t.Expiry,
		Direction:       t.Direction,
		Stance:          t.StanceLabel,
		TradeSize:       t.Size,
		TradePrice:      t.OptionPrice,
		Premium:         t.Premium,
		VolOIRatio:      t.VolOIRatio,
		Aggressor:       aggressor,
		Classifications: t.Classifications,
		Timestamp:       t.Timestamp,
		ReceivedAt:      receivedAt,
	}
}

// observe publishes gauges. Must be called with mu held.
func (s *Session) observe() {
	metrics.LedgerSize.WithLabelValues("trades").Set(float64(s.trades.Len()))
	metrics.LedgerSize.WithLabelValues("prints").Set(float64(s.prints.Len()))
	metrics.LedgerSize.WithLabelValues("auto_trades").Set(float64(s.autoTrades.Len()))
	metrics.SentimentScore.Set(s.sentiment.Total().InexactFloat64())
}

// Clear empties the ledgers, quote stores and sentiment aggregate. The
// mapping table and the stats snapshot are kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades.Clear()
	s.prints.Clear()
	s.autoTrades.Clear()
	s.optionQuotes.Clear()
	s.underlyingQuotes.Clear()
	s.sentiment.Reset()
	s.observe()

	s.logger.Info("session cleared")
}
