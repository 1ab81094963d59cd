package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/model"
)

func TestMirror_ReplaceAndGet(t *testing.T) {
	m := NewMirror()
	if _, ok := m.Get(); ok {
		t.Fatal("Get should report absent before the first snapshot")
	}

	m.Replace(model.StatsSnapshot{TotalTrades: 3, Simulation: true})
	m.Replace(model.StatsSnapshot{TotalTrades: 7})

	got, ok := m.Get()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if got.TotalTrades != 7 || got.Simulation {
		t.Errorf("Get = %+v, want the second snapshot verbatim", got)
	}
}

func TestMirror_Clear(t *testing.T) {
	m := NewMirror()
	m.Replace(model.StatsSnapshot{TotalTrades: 3})

	m.Clear()

	if got, ok := m.Get(); ok {
		t.Errorf("Get after Clear = %+v, want absent", got)
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name  string
		daily model.DailyStats
		want  decimal.Decimal
	}{
		{"no trades", model.DailyStats{}, decimal.Zero},
		{"all wins", model.DailyStats{Trades: 4, Wins: 4}, decimal.NewFromInt(100)},
		{"two of three", model.DailyStats{Trades: 3, Wins: 2, Losses: 1}, decimal.NewFromFloat(66.7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinRate(model.StatsSnapshot{Daily: tt.daily})
			if !got.Equal(tt.want) {
				t.Errorf("WinRate = %s, want %s", got, tt.want)
			}
		})
	}
}
