package symbol

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want Symbol
	}{
		{"/ES", Symbol{Ticker: "/ES", Root: "ES", Kind: KindFutures}},
		{" /nq ", Symbol{Ticker: "/NQ", Root: "NQ", Kind: KindFutures}},
		{"/6E", Symbol{Ticker: "/6E", Root: "6E", Kind: KindFutures}},
		{"SPY", Symbol{Ticker: "SPY", Root: "SPY", Kind: KindEquity}},
		{"tsla", Symbol{Ticker: "TSLA", Root: "TSLA", Kind: KindEquity}},
		{"BRK.B", Symbol{Ticker: "BRK.B", Root: "BRK.B", Kind: KindEquity}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"/",
		"/TOOLONG",
		"ES/",
		"SP Y",
		"TOOLONGX",
		"BRK.BB",
		"123",
	}
	for _, in := range tests {
		_, err := Parse(in)
		if !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidSymbol", in, err)
		}
	}
}

func TestBucket(t *testing.T) {
	futures, equity, err := Bucket([]string{"/ES", "SPY", "/NQ", "qqq", "spy", "bad sym", "AAPL", "/es"})

	if !reflect.DeepEqual(futures, []string{"/ES", "/NQ"}) {
		t.Errorf("futures = %v", futures)
	}
	if !reflect.DeepEqual(equity, []string{"SPY", "QQQ", "AAPL"}) {
		t.Errorf("equity = %v", equity)
	}
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("err = %v, want ErrInvalidSymbol", err)
	}
}

func TestBucket_AllValid(t *testing.T) {
	_, _, err := Bucket([]string{"/ES", "SPY"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
