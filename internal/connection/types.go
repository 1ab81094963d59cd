package connection

import (
	"errors"
	"log/slog"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrClosedByPeer    = errors.New("connection closed by peer")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// RawMessage is a message from the Manager to the event router.
type RawMessage struct {
	Data       []byte
	ReceivedAt time.Time
}

// SubscribeRequest is sent once after every successful connect.
type SubscribeRequest struct {
	Action         string   `json:"action"`
	FuturesSymbols []string `json:"futuresSymbols"`
	EquitySymbols  []string `json:"equitySymbols"`
}

// ActionSubscribe is the only action the upstream understands.
const ActionSubscribe = "subscribe"

// State is the connectivity state of the Manager.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // Upstream feed URL, e.g. ws://localhost:8765
	PingInterval time.Duration // How often to send keepalive pings
	PingTimeout  time.Duration // Max time without ping/pong before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingInterval: 30 * time.Second,
		PingTimeout:  90 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1024,
	}
}

// ClientFactory builds a Client for one connection attempt.
type ClientFactory func(cfg ClientConfig, logger *slog.Logger) Client

// ManagerConfig configures the Manager.
type ManagerConfig struct {
	Client            ClientConfig
	ReconnectDelay    time.Duration // Fixed wait between connection attempts
	MessageBufferSize int           // Buffer size for output message channel
	NewClient         ClientFactory // nil uses NewClient
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Client:            DefaultClientConfig(),
		ReconnectDelay:    3 * time.Second,
		MessageBufferSize: 4096,
	}
}

// ManagerStats contains runtime statistics.
type ManagerStats struct {
	State      State `json:"state"`
	Paused     bool  `json:"paused"`
	Connects   int64 `json:"connects"`
	Reconnects int64 `json:"reconnects"`
	Received   int64 `json:"received"`
	Discarded  int64 `json:"discarded"` // dropped by the pause gate
}
