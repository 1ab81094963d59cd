// Package position marks open trade records to market and computes their
// unrealized P&L. All arithmetic is decimal.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)

	// EquityMultiplier applies to equity options without an explicit multiplier.
	EquityMultiplier = decimal.NewFromInt(100)

	// FuturesMultiplier applies to futures options without an explicit multiplier.
	FuturesMultiplier = decimal.NewFromInt(20)
)

// Updater is a container whose trade records can be mutated in place.
// *ledger.Ledger[model.TradeRecord] satisfies it.
type Updater interface {
	Update(fn func(*model.TradeRecord))
}

// Reconcile reprices every record whose conid matches the quote. Only
// CurrentPrice, PriceChange and PriceChangePct are written; InitialPrice is
// the cost basis and stays untouched. Returns the number of records updated.
func Reconcile(q model.QuoteSnapshot, ledgers ...Updater) int {
	updated := 0
	for _, l := range ledgers {
		l.Update(func(r *model.TradeRecord) {
			if r.Conid != q.Conid {
				return
			}
			r.CurrentPrice = q.Last
			r.PriceChange = q.Last.Sub(r.InitialPrice)
			r.PriceChangePct = percentOf(r.PriceChange, r.InitialPrice)
			updated++
		})
	}
	return updated
}

// Multiplier returns the contract multiplier for a record: the explicit
// upstream value if present, otherwise 20 for futures options and 100 for
// everything else.
func Multiplier(t *model.Trade) decimal.Decimal {
	if t.Multiplier.Valid && !t.Multiplier.Decimal.IsZero() {
		return t.Multiplier.Decimal
	}
	if t.AssetClass == model.AssetFuturesOption {
		return FuturesMultiplier
	}
	return EquityMultiplier
}

// PnL is the unrealized profit/loss of a trade record.
type PnL struct {
	Dollar  decimal.Decimal `json:"dollarPnL"`
	Percent decimal.Decimal `json:"percentPnL"`
}

// Compute derives P&L from a record on demand; nothing is stored.
func Compute(r *model.TradeRecord) PnL {
	current := r.CurrentPrice
	if current.IsZero() {
		current = r.InitialPrice
	}
	contracts := r.Size
	if contracts.IsZero() {
		contracts = decimal.NewFromInt(1)
	}

	diff := current.Sub(r.InitialPrice)
	return PnL{
		Dollar:  diff.Mul(contracts).Mul(Multiplier(&r.Trade)),
		Percent: percentOf(diff, r.InitialPrice),
	}
}

// UnderlyingChangePct is the percent move of the underlying between the
// trade's reference price and ulLast. Zero when either price is unknown.
func UnderlyingChangePct(r *model.TradeRecord, ulLast decimal.Decimal) decimal.Decimal {
	if ulLast.IsZero() || r.UnderlyingPrice.IsZero() {
		return decimal.Zero
	}
	return percentOf(ulLast.Sub(r.UnderlyingPrice), r.UnderlyingPrice)
}

// percentOf returns change/base*100, or zero for a zero base.
func percentOf(change, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return change.Div(base).Mul(hundred)
}
