package router

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atmx/options-flow/internal/model"
)

var (
	// ErrMalformed is returned for frames that are not valid JSON or whose
	// payload does not fit the variant named by its type.
	ErrMalformed = errors.New("malformed message")

	// ErrUnknownType is returned for well-formed frames with an unrecognized
	// type discriminator.
	ErrUnknownType = errors.New("unknown message type")
)

// envelope is used for the first decoding pass. Upstream payload fields sit
// next to the discriminator rather than under a nested key.
type envelope struct {
	Type string `json:"type"`
}

// Decode turns one upstream frame into a typed event.
func Decode(data []byte) (model.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case model.TypeConidMapping:
		var ev model.MappingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(env.Type, err)
		}
		if ev.Conid == 0 {
			return nil, fmt.Errorf("%w: %s without conid", ErrMalformed, env.Type)
		}
		return ev, nil

	case model.TypeCall, model.TypePut:
		var t model.Trade
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, malformed(env.Type, err)
		}
		return model.TradeEvent{Kind: env.Type, Trade: t}, nil

	case model.TypeLiveQuote:
		q, err := decodeQuote(env.Type, data)
		if err != nil {
			return nil, err
		}
		return model.OptionQuoteEvent{Quote: q}, nil

	case model.TypeULLiveQuote:
		q, err := decodeQuote(env.Type, data)
		if err != nil {
			return nil, err
		}
		return model.UnderlyingQuoteEvent{Quote: q}, nil

	case model.TypeTradingStats:
		var ev model.StatsEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(env.Type, err)
		}
		return ev, nil

	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodeQuote(typ string, data []byte) (model.QuoteSnapshot, error) {
	var q model.QuoteSnapshot
	if err := json.Unmarshal(data, &q); err != nil {
		return q, malformed(typ, err)
	}
	if q.Conid == 0 {
		return q, fmt.Errorf("%w: %s without conid", ErrMalformed, typ)
	}
	return q, nil
}

func malformed(typ string, err error) error {
	return fmt.Errorf("%w: parse %s: %v", ErrMalformed, typ, err)
}
