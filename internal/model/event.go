package model

// Upstream message discriminators.
const (
	TypeConidMapping = "CONID_MAPPING"
	TypeCall         = "CALL"
	TypePut          = "PUT"
	TypeLiveQuote    = "LIVE_QUOTE"
	TypeULLiveQuote  = "UL_LIVE_QUOTE"
	TypeTradingStats = "TRADING_STATS"
)

// Event is one decoded upstream message. The set of implementations is
// closed: MappingEvent, TradeEvent, OptionQuoteEvent, UnderlyingQuoteEvent
// and StatsEvent.
type Event interface {
	EventType() string
	event()
}

// MappingEvent binds a conid to its instrument descriptor.
type MappingEvent struct {
	Conid   int64                `json:"conid"`
	Mapping InstrumentDescriptor `json:"mapping"`
}

// TradeEvent is a CALL or PUT print. Kind holds the discriminator.
type TradeEvent struct {
	Kind  string
	Trade Trade
}

// OptionQuoteEvent is a LIVE_QUOTE for an option contract.
type OptionQuoteEvent struct {
	Quote QuoteSnapshot
}

// UnderlyingQuoteEvent is an UL_LIVE_QUOTE for an underlying.
type UnderlyingQuoteEvent struct {
	Quote QuoteSnapshot
}

// StatsEvent carries a TRADING_STATS snapshot. A nil Stats withdraws the
// previous snapshot.
type StatsEvent struct {
	Stats *StatsSnapshot `json:"stats"`
}

func (MappingEvent) EventType() string         { return TypeConidMapping }
func (e TradeEvent) EventType() string         { return e.Kind }
func (OptionQuoteEvent) EventType() string     { return TypeLiveQuote }
func (UnderlyingQuoteEvent) EventType() string { return TypeULLiveQuote }
func (StatsEvent) EventType() string           { return TypeTradingStats }

func (MappingEvent) event()         {}
func (TradeEvent) event()           {}
func (OptionQuoteEvent) event()     {}
func (UnderlyingQuoteEvent) event() {}
func (StatsEvent) event()           {}
