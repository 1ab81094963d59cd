// Package model defines the domain types shared across the options-flow
// engine: upstream event payloads, ledger records and quote snapshots.
// Prices, premium, size and P&L use shopspring/decimal; greeks and ratios
// are plain floats.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the opening/closing side of an options trade.
type Direction string

const (
	BuyToOpen   Direction = "BTO"
	SellToOpen  Direction = "STO"
	BuyToClose  Direction = "BTC"
	SellToClose Direction = "STC"
)

// Sign returns +1 for buys, -1 for sells and 0 for anything else.
func (d Direction) Sign() int {
	switch d {
	case BuyToOpen, BuyToClose:
		return 1
	case SellToOpen, SellToClose:
		return -1
	default:
		return 0
	}
}

// Asset classes reported by the upstream service.
const (
	AssetEquityOption  = "EQUITY_OPTION"
	AssetFuturesOption = "FUTURES_OPTION"
)

// Stance labels.
const (
	StanceBull    = "BULL"
	StanceBear    = "BEAR"
	StanceNeutral = "NEUTRAL"
)

// Classification tags.
const (
	ClassSweep   = "SWEEP"
	ClassBlock   = "BLOCK"
	ClassNotable = "NOTABLE"
)

// OptionalFloat is a float that may be absent. Missing, null and
// non-numeric JSON values decode to an invalid value instead of an error.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		*f = OptionalFloat{}
		return nil
	}
	n, ok := v.(float64)
	if !ok {
		*f = OptionalFloat{}
		return nil
	}
	*f = OptionalFloat{Value: n, Valid: true}
	return nil
}

func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// InstrumentDescriptor describes the contract behind a conid.
type InstrumentDescriptor struct {
	Symbol         string          `json:"symbol"`
	InstrumentType string          `json:"type"`
	Right          string          `json:"right,omitempty"`
	Strike         decimal.Decimal `json:"strike"`
	Expiry         string          `json:"expiry,omitempty"`
}

// Greeks carried on a trade event.
type Greeks struct {
	Delta      OptionalFloat `json:"delta"`
	ImpliedVol OptionalFloat `json:"impliedVol"`
}

// HistoricalComparison is the upstream's comparison against past activity.
type HistoricalComparison struct {
	AvgOI          float64 `json:"avgOI"`
	AvgVolume      float64 `json:"avgVolume"`
	OIChange       float64 `json:"oiChange"`
	VolumeMultiple float64 `json:"volumeMultiple"`
	DataPoints     int     `json:"dataPoints"`
}

// Trade is the payload of a CALL or PUT event. Every field is produced
// upstream and treated as opaque.
type Trade struct {
	Conid                int64                 `json:"conid"`
	Symbol               string                `json:"symbol"`
	Type                 string                `json:"type"` // "CALL" or "PUT"
	Strike               decimal.Decimal       `json:"strike"`
	Expiry               string                `json:"expiry"`
	DTE                  int                   `json:"dte"`
	OptionPrice          decimal.Decimal       `json:"optionPrice"`
	Size                 decimal.Decimal       `json:"size"`
	Premium              decimal.Decimal       `json:"premium"`
	Direction            Direction             `json:"direction"`
	StanceLabel          string                `json:"stanceLabel"`
	StanceScore          float64               `json:"stanceScore"`
	Confidence           float64               `json:"confidence"`
	Classifications      []string              `json:"classifications"`
	Greeks               Greeks                `json:"greeks"`
	VolOIRatio           float64               `json:"volOiRatio"`
	OpenInterest         int64                 `json:"openInterest"`
	Bid                  decimal.Decimal       `json:"bid"`
	Ask                  decimal.Decimal       `json:"ask"`
	Aggressor            bool                  `json:"aggressor"`
	UnderlyingConid      int64                 `json:"underlyingConid"`
	UnderlyingPrice      decimal.Decimal       `json:"underlyingPrice"`
	Moneyness            string                `json:"moneyness"`
	AssetClass           string                `json:"assetClass"`
	Multiplier           decimal.NullDecimal   `json:"multiplier"`
	IsAutoTrade          bool                  `json:"isAutoTrade"`
	HistoricalComparison *HistoricalComparison `json:"historicalComparison,omitempty"`
	StanceReasons        []string              `json:"stanceReasons,omitempty"`
	Timestamp            int64                 `json:"timestamp"`
}

// HasClassification reports whether the trade carries the given tag.
func (t *Trade) HasClassification(tag string) bool {
	for _, c := range t.Classifications {
		if c == tag {
			return true
		}
	}
	return false
}

// TradeRecord is a trade held in the trade or auto-trade ledger.
// InitialPrice is the P&L cost basis and is never modified after creation;
// only CurrentPrice, PriceChange and PriceChangePct follow live quotes.
type TradeRecord struct {
	ID string `json:"id"`
	Trade
	ReceivedAt     time.Time       `json:"receivedAt"`
	InitialPrice   decimal.Decimal `json:"initialPrice"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PriceChange    decimal.Decimal `json:"priceChange"`
	PriceChangePct decimal.Decimal `json:"priceChangePct"`
}

// Aggressor labels used on prints.
const (
	AggressorBuy  = "BUY-agg"
	AggressorSell = "SELL-agg"
)

// PrintRecord is the tape view of a trade arrival. Prints are historical
// facts and are not repriced by later quotes.
type PrintRecord struct {
	ID              string          `json:"id"`
	Conid           int64           `json:"conid"`
	Symbol          string          `json:"symbol"`
	Right           string          `json:"right"`
	Strike          decimal.Decimal `json:"strike"`
	Expiry          string          `json:"expiry"`
	Direction       Direction       `json:"direction"`
	Stance          string          `json:"stance"`
	TradeSize       decimal.Decimal `json:"tradeSize"`
	TradePrice      decimal.Decimal `json:"tradePrice"`
	Premium         decimal.Decimal `json:"premium"`
	VolOIRatio      float64         `json:"volOiRatio"`
	Aggressor       string          `json:"aggressor"`
	Classifications []string        `json:"classifications"`
	Timestamp       int64           `json:"timestamp"`
	ReceivedAt      time.Time       `json:"receivedAt"`
}

// QuoteSnapshot is the latest quote for an option or underlying.
type QuoteSnapshot struct {
	Conid     int64           `json:"conid"`
	Last      decimal.Decimal `json:"last"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	Delta     OptionalFloat   `json:"delta"`
	Volume    int64           `json:"volume"`
	Timestamp int64           `json:"timestamp"`
}

// DailyStats is the per-day block of a stats snapshot.
type DailyStats struct {
	PnL    decimal.Decimal `json:"pnl"`
	Date   string          `json:"date"`
	Trades int             `json:"trades"`
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
}

// StatsSnapshot is computed upstream and mirrored as-is.
type StatsSnapshot struct {
	Daily              DailyStats      `json:"daily"`
	TotalPnL           decimal.Decimal `json:"totalPnL"`
	TotalTrades        int             `json:"totalTrades"`
	OpenPositionsCount int             `json:"openPositionsCount"`
	OpenPnL            decimal.Decimal `json:"openPnL"`
	Simulation         bool            `json:"simulation"`
}
