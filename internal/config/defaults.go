package config

import (
	"time"

	"github.com/atmx/options-flow/internal/watchlist"
)

// Default values for optional configuration fields.
const (
	DefaultPort              = 8080
	DefaultReadTimeout       = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultUpstreamURL       = "ws://localhost:3000/ws"
	DefaultReconnectDelay    = 3 * time.Second
	DefaultPingInterval      = 30 * time.Second
	DefaultPingTimeout       = 90 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultBufferSize        = 1024
	DefaultMessageBufferSize = 4096
	DefaultTradeCapacity     = 200
	DefaultPrintCapacity     = 100
	DefaultAutoTradeCapacity = 50
	DefaultRedisTTL          = 30 * time.Second
	DefaultLogLevel          = "info"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}

	// Upstream defaults
	if c.Upstream.URL == "" {
		c.Upstream.URL = DefaultUpstreamURL
	}
	if c.Upstream.ReconnectDelay == 0 {
		c.Upstream.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Upstream.PingInterval == 0 {
		c.Upstream.PingInterval = DefaultPingInterval
	}
	if c.Upstream.PingTimeout == 0 {
		c.Upstream.PingTimeout = DefaultPingTimeout
	}
	if c.Upstream.WriteTimeout == 0 {
		c.Upstream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Upstream.BufferSize == 0 {
		c.Upstream.BufferSize = DefaultBufferSize
	}
	if c.Upstream.MessageBufferSize == 0 {
		c.Upstream.MessageBufferSize = DefaultMessageBufferSize
	}

	// Ledger defaults
	if c.Ledgers.Trades == 0 {
		c.Ledgers.Trades = DefaultTradeCapacity
	}
	if c.Ledgers.Prints == 0 {
		c.Ledgers.Prints = DefaultPrintCapacity
	}
	if c.Ledgers.AutoTrades == 0 {
		c.Ledgers.AutoTrades = DefaultAutoTradeCapacity
	}

	if len(c.Watchlist.Symbols) == 0 {
		c.Watchlist.Symbols = append([]string(nil), watchlist.DefaultSymbols...)
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultRedisTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
