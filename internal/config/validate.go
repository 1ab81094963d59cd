package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/atmx/options-flow/internal/symbol"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	u, err := url.Parse(c.Upstream.URL)
	if err != nil {
		return fmt.Errorf("upstream.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("upstream.url must use ws or wss, got %q", c.Upstream.URL)
	}
	if c.Upstream.ReconnectDelay < 0 {
		return errors.New("upstream.reconnect_delay must be >= 0")
	}
	if c.Upstream.PingTimeout <= c.Upstream.PingInterval {
		return errors.New("upstream.ping_timeout must exceed upstream.ping_interval")
	}
	if c.Upstream.BufferSize < 1 || c.Upstream.MessageBufferSize < 1 {
		return errors.New("upstream buffer sizes must be >= 1")
	}

	if c.Ledgers.Trades < 1 {
		return errors.New("ledgers.trades must be >= 1")
	}
	if c.Ledgers.Prints < 1 {
		return errors.New("ledgers.prints must be >= 1")
	}
	if c.Ledgers.AutoTrades < 1 {
		return errors.New("ledgers.auto_trades must be >= 1")
	}

	if _, _, err := symbol.Bucket(c.Watchlist.Symbols); err != nil {
		return fmt.Errorf("watchlist.symbols: %w", err)
	}

	if c.Redis.URL != "" && c.Database.URL == "" {
		return errors.New("redis.url requires database.url")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
