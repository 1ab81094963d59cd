package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// clearEnv unsets every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "UPSTREAM_URL", "DATABASE_URL", "REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  port: 9000
upstream:
  url: wss://feed.example.com/ws
  reconnect_delay: 5s
ledgers:
  trades: 500
watchlist:
  symbols: ["/ES", "spy"]
`
	cfg, err := Load(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Upstream.URL != "wss://feed.example.com/ws" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Upstream.ReconnectDelay != 5*time.Second {
		t.Errorf("Upstream.ReconnectDelay = %v, want 5s", cfg.Upstream.ReconnectDelay)
	}
	if cfg.Ledgers.Trades != 500 {
		t.Errorf("Ledgers.Trades = %d, want 500", cfg.Ledgers.Trades)
	}
	if len(cfg.Watchlist.Symbols) != 2 {
		t.Errorf("Watchlist.Symbols = %v", cfg.Watchlist.Symbols)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FEED_HOST", "feed.internal:3000")

	cfg, err := Load(writeTempFile(t, "upstream:\n  url: ws://${TEST_FEED_HOST}/ws\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upstream.URL != "ws://feed.internal:3000/ws" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeTempFile(t, "server: [unclosed")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Upstream.ReconnectDelay != 3*time.Second {
		t.Errorf("ReconnectDelay = %v, want 3s", cfg.Upstream.ReconnectDelay)
	}
	if cfg.Ledgers.Trades != 200 || cfg.Ledgers.Prints != 100 || cfg.Ledgers.AutoTrades != 50 {
		t.Errorf("Ledgers = %+v, want 200/100/50", cfg.Ledgers)
	}
	if len(cfg.Watchlist.Symbols) == 0 {
		t.Error("Watchlist.Symbols empty")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	cfg := &Config{Ledgers: LedgersConfig{Trades: 10}}
	cfg.applyDefaults()

	if cfg.Ledgers.Trades != 10 {
		t.Errorf("Ledgers.Trades = %d, want 10", cfg.Ledgers.Trades)
	}
	if cfg.Ledgers.Prints != DefaultPrintCapacity {
		t.Errorf("Ledgers.Prints = %d", cfg.Ledgers.Prints)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"http upstream", func(c *Config) { c.Upstream.URL = "http://feed" }, "ws or wss"},
		{"negative delay", func(c *Config) { c.Upstream.ReconnectDelay = -time.Second }, "reconnect_delay"},
		{"ping timeout", func(c *Config) { c.Upstream.PingTimeout = time.Second }, "ping_timeout"},
		{"zero trades", func(c *Config) { c.Ledgers.Trades = -1 }, "ledgers.trades"},
		{"zero prints", func(c *Config) { c.Ledgers.Prints = -1 }, "ledgers.prints"},
		{"zero auto", func(c *Config) { c.Ledgers.AutoTrades = -1 }, "ledgers.auto_trades"},
		{"bad symbol", func(c *Config) { c.Watchlist.Symbols = []string{"SPY", "not a symbol"} }, "watchlist.symbols"},
		{"redis without db", func(c *Config) { c.Redis.URL = "redis://localhost:6379" }, "redis.url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAndValidate_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9191")
	t.Setenv("UPSTREAM_URL", "ws://override:3000/ws")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/flow")

	path := writeTempFile(t, "server:\n  port: 9000\nupstream:\n  url: ws://file/ws\n")
	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want env override 9191", cfg.Server.Port)
	}
	if cfg.Upstream.URL != "ws://override:3000/ws" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Database.URL == "" {
		t.Error("DATABASE_URL not applied")
	}
}

func TestLoadAndValidate_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadAndValidate("")
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
}

func TestLoadAndValidate_BadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	if _, err := LoadAndValidate(""); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := LogConfig{Level: tt.in}.SlogLevel()
		if err != nil || got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
