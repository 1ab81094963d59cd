package mapping

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

func TestResolve_Unknown(t *testing.T) {
	r := NewResolver()

	got := r.Resolve(12345)
	if got.Symbol != "Unknown" || got.InstrumentType != "OPT" {
		t.Errorf("Resolve(unknown) = %+v, want {Unknown OPT}", got)
	}
	if _, ok := r.Lookup(12345); ok {
		t.Error("Lookup should miss for unmapped conid")
	}
}

func TestUpsert_ReplacesWholesale(t *testing.T) {
	r := NewResolver()

	r.Upsert(1, model.InstrumentDescriptor{
		Symbol:         "SPY",
		InstrumentType: "OPT",
		Right:          "C",
		Strike:         decimal.NewFromInt(500),
		Expiry:         "20250815",
	})
	r.Upsert(1, model.InstrumentDescriptor{Symbol: "SPY", InstrumentType: "STK"})

	got := r.Resolve(1)
	if got.InstrumentType != "STK" {
		t.Errorf("InstrumentType = %q, want STK", got.InstrumentType)
	}
	if got.Right != "" || !got.Strike.IsZero() || got.Expiry != "" {
		t.Errorf("fields from the previous descriptor leaked: %+v", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestUpsert_EmptySymbolUnbinds(t *testing.T) {
	r := NewResolver()
	r.Upsert(5, model.InstrumentDescriptor{Symbol: "/ES", InstrumentType: "FOP"})

	r.Upsert(5, model.InstrumentDescriptor{})

	if got := r.Resolve(5); got.Symbol != Unknown.Symbol || got.InstrumentType != Unknown.InstrumentType {
		t.Errorf("Resolve after empty mapping = %+v, want Unknown", got)
	}
	if _, ok := r.Lookup(5); ok {
		t.Error("Lookup should miss after an empty mapping")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}

	r.Upsert(6, model.InstrumentDescriptor{InstrumentType: "OPT"})
	if _, ok := r.Lookup(6); ok {
		t.Error("descriptor without a symbol should not be stored")
	}
}
