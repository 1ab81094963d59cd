// Package quote holds the latest quote per instrument.
package quote

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

// Store maps conid → latest QuoteSnapshot. Each arrival replaces the
// previous snapshot for that conid entirely. Not safe for concurrent use.
type Store struct {
	quotes map[int64]model.QuoteSnapshot
}

// NewStore creates an empty quote store.
func NewStore() *Store {
	return &Store{quotes: make(map[int64]model.QuoteSnapshot)}
}

// Upsert replaces the snapshot for q.Conid.
func (s *Store) Upsert(q model.QuoteSnapshot) {
	s.quotes[q.Conid] = q
}

// Get returns the latest snapshot for conid.
func (s *Store) Get(conid int64) (model.QuoteSnapshot, bool) {
	q, ok := s.quotes[conid]
	return q, ok
}

// Last returns the last traded price for conid, or zero when no quote has
// arrived.
func (s *Store) Last(conid int64) decimal.Decimal {
	return s.quotes[conid].Last
}

// Snapshot returns every stored quote ordered by conid.
func (s *Store) Snapshot() []model.QuoteSnapshot {
	out := make([]model.QuoteSnapshot, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Conid < out[j].Conid })
	return out
}

func (s *Store) Len() int { return len(s.quotes) }

// Clear drops every quote.
func (s *Store) Clear() {
	s.quotes = make(map[int64]model.QuoteSnapshot)
}
