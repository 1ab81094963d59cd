package quote

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestUpsert_ReplacesSnapshot(t *testing.T) {
	s := NewStore()
	s.Upsert(model.QuoteSnapshot{Conid: 7, Last: d(1.5), Bid: d(1.4), Ask: d(1.6), Delta: model.Float(0.3), Volume: 10})
	s.Upsert(model.QuoteSnapshot{Conid: 7, Last: d(1.7), Volume: 12})

	q, ok := s.Get(7)
	if !ok {
		t.Fatal("expected quote for conid 7")
	}
	if !q.Last.Equal(d(1.7)) {
		t.Errorf("Last = %s, want 1.7", q.Last)
	}
	// No field-level merge: bid/ask/delta from the first snapshot are gone.
	if !q.Bid.IsZero() || !q.Ask.IsZero() || q.Delta.Valid {
		t.Errorf("stale fields survived replacement: %+v", q)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(1); ok {
		t.Error("Get should miss on empty store")
	}
	if !s.Last(1).IsZero() {
		t.Errorf("Last on missing conid = %s, want 0", s.Last(1))
	}
}

func TestSnapshot_OrderedAndClear(t *testing.T) {
	s := NewStore()
	s.Upsert(model.QuoteSnapshot{Conid: 30})
	s.Upsert(model.QuoteSnapshot{Conid: 10})
	s.Upsert(model.QuoteSnapshot{Conid: 20})

	snap := s.Snapshot()
	if len(snap) != 3 || snap[0].Conid != 10 || snap[1].Conid != 20 || snap[2].Conid != 30 {
		t.Errorf("Snapshot = %+v, want conids [10 20 30]", snap)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
}
