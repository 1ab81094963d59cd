package config

import "time"

// Config is the root configuration of the engine.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Ledgers   LedgersConfig   `yaml:"ledgers"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds the read-model HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// UpstreamConfig holds the upstream feed connection settings.
type UpstreamConfig struct {
	URL               string        `yaml:"url"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	PingInterval      time.Duration `yaml:"ping_interval"`
	PingTimeout       time.Duration `yaml:"ping_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	BufferSize        int           `yaml:"buffer_size"`
	MessageBufferSize int           `yaml:"message_buffer_size"`
}

// LedgersConfig holds the ledger capacities.
type LedgersConfig struct {
	Trades     int `yaml:"trades"`
	Prints     int `yaml:"prints"`
	AutoTrades int `yaml:"auto_trades"`
}

// WatchlistConfig lists the symbols subscribed when no database is set.
type WatchlistConfig struct {
	Symbols []string `yaml:"symbols"`
}

// DatabaseConfig holds the PostgreSQL connection. An empty URL disables
// the database-backed watchlist.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the watchlist cache. An empty URL disables caching.
type RedisConfig struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
