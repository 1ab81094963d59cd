package position

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/ledger"
	"github.com/atmx/options-flow/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func record(conid int64, price float64) model.TradeRecord {
	return model.TradeRecord{
		Trade: model.Trade{
			Conid:       conid,
			OptionPrice: d(price),
			Size:        d(10),
			AssetClass:  model.AssetEquityOption,
		},
		InitialPrice: d(price),
		CurrentPrice: d(price),
	}
}

func TestReconcile_PriceChangePct(t *testing.T) {
	trades := ledger.New[model.TradeRecord](10)
	trades.Push(record(100, 2.00))

	n := Reconcile(model.QuoteSnapshot{Conid: 100, Last: d(2.50)}, trades)
	if n != 1 {
		t.Fatalf("updated = %d, want 1", n)
	}

	r := trades.Snapshot()[0]
	if !r.CurrentPrice.Equal(d(2.50)) {
		t.Errorf("CurrentPrice = %s, want 2.5", r.CurrentPrice)
	}
	if !r.PriceChange.Equal(d(0.50)) {
		t.Errorf("PriceChange = %s, want 0.5", r.PriceChange)
	}
	if !r.PriceChangePct.Equal(d(25)) {
		t.Errorf("PriceChangePct = %s, want 25", r.PriceChangePct)
	}
	if !r.InitialPrice.Equal(d(2.00)) {
		t.Errorf("InitialPrice = %s, must stay 2", r.InitialPrice)
	}
}

func TestReconcile_OnlyMatchingConid(t *testing.T) {
	trades := ledger.New[model.TradeRecord](10)
	autos := ledger.New[model.TradeRecord](10)
	trades.Push(record(1, 1.00))
	trades.Push(record(2, 1.00))
	autos.Push(record(1, 1.00))

	n := Reconcile(model.QuoteSnapshot{Conid: 1, Last: d(1.10)}, trades, autos)
	if n != 2 {
		t.Fatalf("updated = %d, want 2", n)
	}

	for _, r := range trades.Snapshot() {
		switch r.Conid {
		case 1:
			if !r.CurrentPrice.Equal(d(1.10)) {
				t.Errorf("conid 1 CurrentPrice = %s, want 1.1", r.CurrentPrice)
			}
		case 2:
			if !r.CurrentPrice.Equal(d(1.00)) || !r.PriceChange.IsZero() {
				t.Errorf("conid 2 should be untouched, got %+v", r)
			}
		}
	}
	if got := autos.Snapshot()[0].CurrentPrice; !got.Equal(d(1.10)) {
		t.Errorf("auto-trade CurrentPrice = %s, want 1.1", got)
	}
}

func TestReconcile_ZeroInitialPrice(t *testing.T) {
	trades := ledger.New[model.TradeRecord](1)
	trades.Push(record(5, 0))

	Reconcile(model.QuoteSnapshot{Conid: 5, Last: d(0.05)}, trades)

	r := trades.Snapshot()[0]
	if !r.PriceChangePct.IsZero() {
		t.Errorf("PriceChangePct = %s, want 0 for zero cost basis", r.PriceChangePct)
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		trade model.Trade
		want  decimal.Decimal
	}{
		{"equity default", model.Trade{AssetClass: model.AssetEquityOption}, d(100)},
		{"futures default", model.Trade{AssetClass: model.AssetFuturesOption}, d(20)},
		{"unknown class", model.Trade{AssetClass: ""}, d(100)},
		{"explicit", model.Trade{AssetClass: model.AssetFuturesOption, Multiplier: decimal.NewNullDecimal(d(50))}, d(50)},
		{"explicit zero ignored", model.Trade{AssetClass: model.AssetFuturesOption, Multiplier: decimal.NewNullDecimal(decimal.Zero)}, d(20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Multiplier(&tt.trade); !got.Equal(tt.want) {
				t.Errorf("Multiplier = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	r := model.TradeRecord{
		Trade:        model.Trade{Size: d(5), AssetClass: model.AssetEquityOption},
		InitialPrice: d(1.00),
		CurrentPrice: d(1.20),
	}

	pnl := Compute(&r)
	if !pnl.Dollar.Equal(d(100)) {
		t.Errorf("Dollar = %s, want 100", pnl.Dollar)
	}
	if !pnl.Percent.Equal(d(20)) {
		t.Errorf("Percent = %s, want 20", pnl.Percent)
	}

	r.AssetClass = model.AssetFuturesOption
	pnl = Compute(&r)
	if !pnl.Dollar.Equal(d(20)) {
		t.Errorf("futures Dollar = %s, want 20", pnl.Dollar)
	}
}

func TestCompute_Defaults(t *testing.T) {
	// No size → one contract; no current price → flat.
	r := model.TradeRecord{
		Trade:        model.Trade{AssetClass: model.AssetEquityOption},
		InitialPrice: d(2),
		CurrentPrice: d(2.5),
	}
	if got := Compute(&r).Dollar; !got.Equal(d(50)) {
		t.Errorf("Dollar = %s, want 50", got)
	}

	r.CurrentPrice = decimal.Zero
	if got := Compute(&r); !got.Dollar.IsZero() || !got.Percent.IsZero() {
		t.Errorf("PnL with no current price = %+v, want zero", got)
	}
}

func TestUnderlyingChangePct(t *testing.T) {
	r := model.TradeRecord{Trade: model.Trade{UnderlyingPrice: d(400)}}

	if got := UnderlyingChangePct(&r, d(404)); !got.Equal(d(1)) {
		t.Errorf("UnderlyingChangePct = %s, want 1", got)
	}
	if got := UnderlyingChangePct(&r, decimal.Zero); !got.IsZero() {
		t.Errorf("UnderlyingChangePct without quote = %s, want 0", got)
	}
}
