// Package router decodes upstream frames into typed events and applies them
// to the session one at a time, in arrival order.
package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/atmx/options-flow/internal/connection"
	"github.com/atmx/options-flow/internal/metrics"
	"github.com/atmx/options-flow/internal/model"
	"github.com/atmx/options-flow/internal/session"
)

// Dispatcher applies a decoded event. *session.Session satisfies it.
type Dispatcher interface {
	Apply(ev model.Event) session.Change
}

// Notifier receives the change produced by every applied event.
type Notifier interface {
	Notify(ch session.Change)
}

// Gate reports whether dispatch is suspended. *connection.Manager
// satisfies it.
type Gate interface {
	Paused() bool
}

// Stats contains runtime statistics.
type Stats struct {
	MessagesReceived int64            `json:"messagesReceived"`
	MessagesRouted   int64            `json:"messagesRouted"`
	ParseErrors      int64            `json:"parseErrors"`
	UnknownMessages  int64            `json:"unknownMessages"`
	Discarded        int64            `json:"discarded"`
	ByType           map[string]int64 `json:"byType"`
}

// Router consumes RawMessages until the input closes or Stop is called.
type Router struct {
	logger   *slog.Logger
	input    <-chan connection.RawMessage
	dispatch Dispatcher
	notify   Notifier
	gate     Gate

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.RWMutex
	received        int64
	routed          int64
	parseErrors     int64
	unknownMessages int64
	discarded       int64
	byType          map[string]int64
}

// New creates a Router. notify may be nil.
func New(input <-chan connection.RawMessage, dispatch Dispatcher, notify Notifier, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:   logger,
		input:    input,
		dispatch: dispatch,
		notify:   notify,
		byType:   make(map[string]int64),
	}
}

// SetGate installs the pause gate checked before every dispatch. Frames
// that were already buffered when the gate closed are discarded too. Call
// before Start.
func (r *Router) SetGate(g Gate) {
	r.gate = g
}

// Start begins routing messages.
func (r *Router) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.routeLoop()

	r.logger.Info("event router started")
	return nil
}

// Stop gracefully shuts down the router.
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info("stopping event router")

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("event router stopped")
	case <-ctx.Done():
		r.logger.Warn("event router stop timed out")
	}
	return nil
}

// Stats returns current statistics.
func (r *Router) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byType := make(map[string]int64, len(r.byType))
	for k, v := range r.byType {
		byType[k] = v
	}
	return Stats{
		MessagesReceived: r.received,
		MessagesRouted:   r.routed,
		ParseErrors:      r.parseErrors,
		UnknownMessages:  r.unknownMessages,
		Discarded:        r.discarded,
		ByType:           byType,
	}
}

func (r *Router) routeLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case raw, ok := <-r.input:
			if !ok {
				r.logger.Info("input channel closed")
				return
			}
			r.Route(raw)
		}
	}
}

// Route decodes and applies one frame. Malformed and unknown frames are
// logged, counted and dropped; they never stop the loop.
func (r *Router) Route(raw connection.RawMessage) {
	start := time.Now()

	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	if r.gate != nil && r.gate.Paused() {
		r.mu.Lock()
		r.discarded++
		r.mu.Unlock()
		metrics.MessagesDropped.WithLabelValues("paused").Inc()
		return
	}

	ev, err := Decode(raw.Data)
	if err != nil {
		r.mu.Lock()
		if errors.Is(err, ErrUnknownType) {
			r.unknownMessages++
		} else {
			r.parseErrors++
		}
		r.mu.Unlock()

		if errors.Is(err, ErrUnknownType) {
			metrics.MessagesDropped.WithLabelValues("unknown_type").Inc()
			r.logger.Debug("skipping message", "err", err)
		} else {
			metrics.MessagesDropped.WithLabelValues("malformed").Inc()
			r.logger.Warn("dropping malformed message", "err", err, "bytes", len(raw.Data))
		}
		return
	}

	ch := r.dispatch.Apply(ev)
	typ := ev.EventType()

	r.mu.Lock()
	r.routed++
	r.byType[typ]++
	r.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(typ).Inc()
	metrics.ApplyLatency.WithLabelValues(typ).Observe(time.Since(start).Seconds())

	if r.notify != nil {
		r.notify.Notify(ch)
	}
}
