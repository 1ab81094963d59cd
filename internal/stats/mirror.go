// Package stats mirrors the trading statistics computed upstream.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

// Mirror holds the most recent StatsSnapshot. Replace overwrites it
// unconditionally; there is no validation and no merging.
type Mirror struct {
	snap  model.StatsSnapshot
	valid bool
}

func NewMirror() *Mirror { return &Mirror{} }

func (m *Mirror) Replace(s model.StatsSnapshot) {
	m.snap = s
	m.valid = true
}

// Clear withdraws the snapshot; Get reports absent until the next Replace.
func (m *Mirror) Clear() {
	m.snap = model.StatsSnapshot{}
	m.valid = false
}

// Get returns the latest snapshot, or ok=false before the first arrival.
func (m *Mirror) Get() (model.StatsSnapshot, bool) {
	return m.snap, m.valid
}

// WinRate is the daily win percentage, zero when no trades were taken.
func WinRate(s model.StatsSnapshot) decimal.Decimal {
	if s.Daily.Trades <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Daily.Wins)).
		Div(decimal.NewFromInt(int64(s.Daily.Trades))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
