// Package sentiment derives a directional flow score from the trades
// currently visible in the trade ledger.
//
// Each trade contributes delta × size × sign(direction), where buys
// (BTO/BTC) count positive and sells (STO/STC) negative. Contributions are
// summed per symbol and globally. The aggregate is maintained
// incrementally: trades are added on arrival and subtracted again when the
// ledger evicts them. Decimal arithmetic keeps the running totals exactly
// equal to a full recomputation over the same window.
package sentiment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

// Label classifies a score.
type Label string

const (
	Bull    Label = "BULL"
	Bear    Label = "BEAR"
	Neutral Label = "NEUTRAL"
)

// Threshold is the dead zone around zero; scores within ±Threshold
// (inclusive) are neutral.
var Threshold = decimal.NewFromFloat(0.5)

// Classify maps a score to BULL, BEAR or NEUTRAL.
func Classify(score decimal.Decimal) Label {
	switch {
	case score.GreaterThan(Threshold):
		return Bull
	case score.LessThan(Threshold.Neg()):
		return Bear
	default:
		return Neutral
	}
}

// Contribution returns the signed score of a single trade. ok is false when
// the trade does not count: unknown direction, missing delta, zero size, no
// symbol, or a product of zero.
func Contribution(t *model.Trade) (decimal.Decimal, bool) {
	if t.Symbol == "" || !t.Greeks.Delta.Valid || t.Size.IsZero() {
		return decimal.Zero, false
	}
	sign := t.Direction.Sign()
	if sign == 0 {
		return decimal.Zero, false
	}

	c := decimal.NewFromFloat(t.Greeks.Delta.Value).
		Mul(t.Size).
		Mul(decimal.NewFromInt(int64(sign)))
	if c.IsZero() {
		return decimal.Zero, false
	}
	return c, true
}

// SymbolScore is the aggregate for one underlying symbol.
type SymbolScore struct {
	Symbol    string          `json:"symbol"`
	Score     decimal.Decimal `json:"score"`
	Sentiment Label           `json:"sentiment"`
	Trades    int             `json:"trades"`
}

// Snapshot is a point-in-time copy of the aggregate.
type Snapshot struct {
	TotalScore decimal.Decimal `json:"totalScore"`
	Sentiment  Label           `json:"sentiment"`
	Symbols    []SymbolScore   `json:"symbols"` // ranked by |score| descending
}

type symbolAgg struct {
	score decimal.Decimal
	count int
}

// Aggregator keeps running per-symbol and global totals. Not safe for
// concurrent use.
type Aggregator struct {
	total    decimal.Decimal
	bySymbol map[string]*symbolAgg
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{bySymbol: make(map[string]*symbolAgg)}
}

// Add folds a newly arrived trade into the totals.
func (a *Aggregator) Add(t *model.Trade) {
	c, ok := Contribution(t)
	if !ok {
		return
	}
	agg, exists := a.bySymbol[t.Symbol]
	if !exists {
		agg = &symbolAgg{}
		a.bySymbol[t.Symbol] = agg
	}
	agg.score = agg.score.Add(c)
	agg.count++
	a.total = a.total.Add(c)
}

// Remove subtracts the contribution of an evicted trade. A symbol with no
// remaining contributing trades is dropped.
func (a *Aggregator) Remove(t *model.Trade) {
	c, ok := Contribution(t)
	if !ok {
		return
	}
	agg, exists := a.bySymbol[t.Symbol]
	if !exists {
		return
	}
	agg.score = agg.score.Sub(c)
	agg.count--
	if agg.count <= 0 {
		delete(a.bySymbol, t.Symbol)
	}
	a.total = a.total.Sub(c)
}

// Reset clears every total.
func (a *Aggregator) Reset() {
	a.total = decimal.Zero
	a.bySymbol = make(map[string]*symbolAgg)
}

// Recompute discards the running totals and rebuilds them from records.
func (a *Aggregator) Recompute(records []model.TradeRecord) {
	a.Reset()
	for i := range records {
		a.Add(&records[i].Trade)
	}
}

// Total returns the global score.
func (a *Aggregator) Total() decimal.Decimal { return a.total }

// Score returns the score for one symbol.
func (a *Aggregator) Score(symbol string) (decimal.Decimal, bool) {
	agg, ok := a.bySymbol[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return agg.score, true
}

// Snapshot returns a copy of the aggregate with symbols ranked by absolute
// score, largest first. Ties are ordered by symbol.
func (a *Aggregator) Snapshot() Snapshot {
	symbols := make([]SymbolScore, 0, len(a.bySymbol))
	for sym, agg := range a.bySymbol {
		symbols = append(symbols, SymbolScore{
			Symbol:    sym,
			Score:     agg.score,
			Sentiment: Classify(agg.score),
			Trades:    agg.count,
		})
	}
	sort.Slice(symbols, func(i, j int) bool {
		ai, aj := symbols[i].Score.Abs(), symbols[j].Score.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return symbols[i].Symbol < symbols[j].Symbol
	})

	return Snapshot{
		TotalScore: a.total,
		Sentiment:  Classify(a.total),
		Symbols:    symbols,
	}
}
