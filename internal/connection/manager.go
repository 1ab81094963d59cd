package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atmx/options-flow/internal/metrics"
	"github.com/atmx/options-flow/internal/watchlist"
)

// Manager owns the single logical upstream connection.
type Manager struct {
	cfg       ManagerConfig
	source    watchlist.Source
	logger    *slog.Logger
	newClient ClientFactory

	out chan RawMessage

	state      atomic.Int32
	paused     atomic.Bool
	connects   atomic.Int64
	reconnects atomic.Int64
	received   atomic.Int64
	discarded  atomic.Int64

	mu          sync.Mutex
	lastSymbols watchlist.Symbols

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewManager creates a Manager. source supplies the subscribe lists on
// every connect.
func NewManager(cfg ManagerConfig, source watchlist.Source, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	newClient := cfg.NewClient
	if newClient == nil {
		newClient = NewClient
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultManagerConfig().ReconnectDelay
	}

	return &Manager{
		cfg:       cfg,
		source:    source,
		logger:    logger,
		newClient: newClient,
		out:       make(chan RawMessage, cfg.MessageBufferSize),
	}
}

// Start begins connecting in the background. The first attempt is made
// immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.run()

	m.logger.Info("connection manager started",
		"url", m.cfg.Client.URL,
		"reconnect_delay", m.cfg.ReconnectDelay,
	)
	return nil
}

// Stop closes the active connection and cancels any pending reconnect. It
// is safe to call more than once; only the first call has an effect.
func (m *Manager) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() {
		m.logger.Info("stopping connection manager")

		if m.cancel != nil {
			m.cancel()
		}

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			close(m.out)
			m.logger.Info("connection manager stopped")
		case <-ctx.Done():
			m.logger.Warn("connection manager stop timed out")
		}
	})
	return nil
}

// Messages returns the output channel for the event router. It is closed
// once Stop completes.
func (m *Manager) Messages() <-chan RawMessage {
	return m.out
}

// State returns the current connectivity state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// SetPaused opens or closes the pause gate. While paused, inbound frames
// are discarded; nothing is queued for later.
func (m *Manager) SetPaused(paused bool) {
	if m.paused.Swap(paused) != paused {
		m.logger.Info("pause state changed", "paused", paused)
	}
}

// Paused reports whether the pause gate is closed.
func (m *Manager) Paused() bool {
	return m.paused.Load()
}

// Stats returns current statistics.
func (m *Manager) Stats() ManagerStats {
	return ManagerStats{
		State:      m.State(),
		Paused:     m.Paused(),
		Connects:   m.connects.Load(),
		Reconnects: m.reconnects.Load(),
		Received:   m.received.Load(),
		Discarded:  m.discarded.Load(),
	}
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
	if s == StateConnected {
		metrics.UpstreamConnected.Set(1)
	} else {
		metrics.UpstreamConnected.Set(0)
	}
}

// run connects, serves the connection until it fails, then waits the fixed
// reconnect delay and tries again, until the context is cancelled.
func (m *Manager) run() {
	defer m.wg.Done()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			m.reconnects.Add(1)
			metrics.Reconnects.Inc()
		}

		err := m.serve(m.ctx)
		if m.ctx.Err() != nil {
			return
		}
		m.logger.Warn("upstream connection lost",
			"err", err,
			"retry_in", m.cfg.ReconnectDelay,
		)

		timer := time.NewTimer(m.cfg.ReconnectDelay)
		select {
		case <-m.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// serve runs one connection from dial to failure.
func (m *Manager) serve(ctx context.Context) error {
	client := m.newClient(m.cfg.Client, m.logger)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		client.Close()
		m.setState(StateDisconnected)
	}()

	m.connects.Add(1)
	m.setState(StateConnected)
	m.logger.Info("upstream connected", "url", m.cfg.Client.URL)

	if err := m.subscribe(ctx, client); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-client.Errors():
			return err

		case msg, ok := <-client.Messages():
			if !ok {
				return ErrClosedByPeer
			}
			if !m.deliver(ctx, msg) {
				return ctx.Err()
			}
		}
	}
}

// subscribe sends the one subscribe request for this connection.
func (m *Manager) subscribe(ctx context.Context, client Client) error {
	syms := m.loadSymbols(ctx)
	req := SubscribeRequest{
		Action:         ActionSubscribe,
		FuturesSymbols: syms.Futures,
		EquitySymbols:  syms.Equity,
	}
	if req.FuturesSymbols == nil {
		req.FuturesSymbols = []string{}
	}
	if req.EquitySymbols == nil {
		req.EquitySymbols = []string{}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}
	if err := client.Send(data); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}

	m.logger.Info("subscribed",
		"futures", len(req.FuturesSymbols),
		"equity", len(req.EquitySymbols),
	)
	return nil
}

// loadSymbols asks the watchlist source for fresh lists and falls back to
// the last good ones when it fails.
func (m *Manager) loadSymbols(ctx context.Context) watchlist.Symbols {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.source == nil {
		return m.lastSymbols
	}

	syms, err := m.source.Load(ctx)
	if err != nil {
		metrics.WatchlistLoads.WithLabelValues(m.source.Name(), "error").Inc()
		m.logger.Warn("watchlist load failed, reusing last lists",
			"source", m.source.Name(),
			"err", err,
		)
		return m.lastSymbols
	}

	metrics.WatchlistLoads.WithLabelValues(m.source.Name(), "ok").Inc()
	m.lastSymbols = syms
	return syms
}

// deliver forwards one frame unless paused. It blocks while the router is
// behind. Returns false when the context was cancelled first.
func (m *Manager) deliver(ctx context.Context, msg TimestampedMessage) bool {
	if m.paused.Load() {
		m.discarded.Add(1)
		m.received.Add(1)
		metrics.MessagesDropped.WithLabelValues("paused").Inc()
		return true
	}
	m.received.Add(1)

	select {
	case m.out <- RawMessage{Data: msg.Data, ReceivedAt: msg.ReceivedAt}:
		return true
	case <-ctx.Done():
		return false
	}
}
