// Package metrics provides Prometheus instrumentation for the options-flow engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesTotal counts upstream frames applied to the session, by type.
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optionsflow_messages_total",
		Help: "Upstream messages applied, by message type",
	}, []string{"type"})

	// MessagesDropped counts frames that never reached the session.
	MessagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optionsflow_messages_dropped_total",
		Help: "Upstream messages dropped, by reason",
	}, []string{"reason"})

	// ApplyLatency tracks decode-and-apply time per frame.
	ApplyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optionsflow_apply_latency_seconds",
		Help:    "Time to decode and apply one upstream message",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}, []string{"type"})

	// UpstreamConnected is 1 while the feed connection is open.
	UpstreamConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "optionsflow_upstream_connected",
		Help: "Whether the upstream feed connection is open",
	})

	// Reconnects counts reconnect attempts.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optionsflow_reconnects_total",
		Help: "Upstream reconnect attempts",
	})

	// LedgerSize tracks resident records per ledger.
	LedgerSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optionsflow_ledger_size",
		Help: "Records resident in each bounded ledger",
	}, []string{"ledger"})

	// PositionsRepriced counts trade records repriced by live quotes.
	PositionsRepriced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optionsflow_positions_repriced_total",
		Help: "Trade records repriced by live option quotes",
	})

	// SentimentScore is the global sentiment score.
	SentimentScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "optionsflow_sentiment_score",
		Help: "Global delta-weighted sentiment score",
	})

	// WebSocketClients tracks connected downstream WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "optionsflow_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// WatchlistLoads counts watchlist loads by source and outcome.
	WatchlistLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optionsflow_watchlist_loads_total",
		Help: "Watchlist loads by source and result",
	}, []string{"source", "result"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optionsflow_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optionsflow_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern uses the chi route pattern so /mappings/{conid} is one series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
