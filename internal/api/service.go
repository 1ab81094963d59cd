// Package api provides the HTTP handlers that expose the session read-model
// and the feed controls (pause, resume, clear) to the presentation layer.
//
// All monetary values are shopspring/decimal and serialize as JSON strings.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/atmx/options-flow/internal/connection"
	"github.com/atmx/options-flow/internal/model"
	"github.com/atmx/options-flow/internal/router"
	"github.com/atmx/options-flow/internal/session"
	"github.com/atmx/options-flow/internal/stats"
)

// Feed is the part of the connection manager the API controls.
// *connection.Manager satisfies it.
type Feed interface {
	State() connection.State
	Paused() bool
	SetPaused(paused bool)
	Stats() connection.ManagerStats
}

// RouterStats reports router counters. *router.Router satisfies it.
type RouterStats interface {
	Stats() router.Stats
}

// Control notifications pushed to websocket clients alongside event changes.
const (
	ChangePaused  = "PAUSED"
	ChangeResumed = "RESUMED"
	ChangeCleared = "CLEARED"
)

// Service serves the read-model. hub and routerStats are optional.
type Service struct {
	sess        *session.Session
	feed        Feed
	routerStats RouterStats
	hub         *Hub
}

// NewService creates the API service.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(sess *session.Session, feed Feed, rs RouterStats, hub *Hub) *Service {
	return &Service{
		sess:        sess,
		feed:        feed,
		routerStats: rs,
		hub:         hub,
	}
}

// --- Response types ---

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Available bool                 `json:"available"`
	Stats     *model.StatsSnapshot `json:"stats,omitempty"`
	WinRate   decimal.Decimal      `json:"winRate"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Connection connection.State        `json:"connection"`
	Paused     bool                    `json:"paused"`
	Feed       connection.ManagerStats `json:"feed"`
	Router     *router.Stats           `json:"router,omitempty"`
	Counts     session.Counts          `json:"counts"`
	Clients    int                     `json:"clients"`
}

// MappingResponse is the body of GET /mappings/{conid}.
type MappingResponse struct {
	Conid   int64                      `json:"conid"`
	Known   bool                       `json:"known"`
	Mapping model.InstrumentDescriptor `json:"mapping"`
}

// --- HTTP Handlers ---

// ListTrades handles GET /api/v1/trades
// Optional filters: symbol, min_premium, direction, classification, stance.
// "all" is accepted as an explicit no-filter value.
func (s *Service) ListTrades(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.sess.FilteredTrades(f))
}

// ListPositions handles GET /api/v1/positions
// Trade records with live P&L. ?source=auto returns the auto-trade ledger.
func (s *Service) ListPositions(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("source") {
	case "", "trades":
		writeJSON(w, s.sess.Positions())
	case "auto":
		writeJSON(w, s.sess.AutoPositions())
	default:
		writeError(w, "source must be trades or auto", http.StatusBadRequest)
	}
}

// ListPrints handles GET /api/v1/prints
func (s *Service) ListPrints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sess.Prints())
}

// ListAutoTrades handles GET /api/v1/auto-trades
func (s *Service) ListAutoTrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sess.AutoTrades())
}

// ListQuotes handles GET /api/v1/quotes
func (s *Service) ListQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sess.OptionQuotes())
}

// GetQuote handles GET /api/v1/quotes/{conid}
// The latest option quote for one contract; 404 until one has arrived.
func (s *Service) GetQuote(w http.ResponseWriter, r *http.Request) {
	conid, err := strconv.ParseInt(chi.URLParam(r, "conid"), 10, 64)
	if err != nil {
		writeError(w, "conid must be an integer", http.StatusBadRequest)
		return
	}
	q, ok := s.sess.OptionQuote(conid)
	if !ok {
		writeError(w, "no quote for conid", http.StatusNotFound)
		return
	}
	writeJSON(w, q)
}

// ListUnderlyingQuotes handles GET /api/v1/quotes/underlying
func (s *Service) ListUnderlyingQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sess.UnderlyingQuotes())
}

// GetMapping handles GET /api/v1/mappings/{conid}
// Unmapped conids resolve to the Unknown placeholder, never 404.
func (s *Service) GetMapping(w http.ResponseWriter, r *http.Request) {
	conid, err := strconv.ParseInt(chi.URLParam(r, "conid"), 10, 64)
	if err != nil {
		writeError(w, "conid must be an integer", http.StatusBadRequest)
		return
	}

	desc, known := s.sess.Lookup(conid)
	if !known {
		desc = s.sess.Resolve(conid)
	}
	writeJSON(w, MappingResponse{Conid: conid, Known: known, Mapping: desc})
}

// GetSentiment handles GET /api/v1/sentiment
func (s *Service) GetSentiment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sess.Sentiment())
}

// GetStats handles GET /api/v1/stats
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.sess.Stats()
	if !ok {
		writeJSON(w, StatsResponse{})
		return
	}
	writeJSON(w, StatsResponse{
		Available: true,
		Stats:     &snap,
		WinRate:   stats.WinRate(snap),
	})
}

// GetStatus handles GET /api/v1/status
func (s *Service) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Counts: s.sess.Counts(),
	}
	if s.feed != nil {
		resp.Connection = s.feed.State()
		resp.Paused = s.feed.Paused()
		resp.Feed = s.feed.Stats()
	}
	if s.routerStats != nil {
		rs := s.routerStats.Stats()
		resp.Router = &rs
	}
	if s.hub != nil {
		resp.Clients = s.hub.Clients()
	}
	writeJSON(w, resp)
}

// Pause handles POST /api/v1/pause
func (s *Service) Pause(w http.ResponseWriter, r *http.Request) {
	s.setPaused(w, true)
}

// Resume handles POST /api/v1/resume
func (s *Service) Resume(w http.ResponseWriter, r *http.Request) {
	s.setPaused(w, false)
}

func (s *Service) setPaused(w http.ResponseWriter, paused bool) {
	if s.feed == nil {
		writeError(w, "feed not available", http.StatusServiceUnavailable)
		return
	}
	s.feed.SetPaused(paused)

	change := ChangeResumed
	if paused {
		change = ChangePaused
	}
	slog.Info("feed pause toggled", "paused", paused)
	s.broadcast(session.Change{Type: change})

	writeJSON(w, map[string]bool{"paused": s.feed.Paused()})
}

// Clear handles POST /api/v1/clear
// Empties ledgers, quotes and sentiment. Mappings, stats and connectivity
// are kept.
func (s *Service) Clear(w http.ResponseWriter, r *http.Request) {
	s.sess.Clear()
	s.broadcast(session.Change{Type: ChangeCleared})
	writeJSON(w, s.sess.Counts())
}

func (s *Service) broadcast(ch session.Change) {
	if s.hub != nil {
		s.hub.Notify(ch)
	}
}

// --- Helpers ---

func parseFilter(r *http.Request) (session.TradeFilter, error) {
	q := r.URL.Query()
	var f session.TradeFilter

	f.Symbol = strings.TrimSpace(q.Get("symbol"))

	if v := q.Get("min_premium"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil || p.IsNegative() {
			return f, errBadParam("min_premium must be a non-negative number")
		}
		f.MinPremium = p
	}

	if v := strings.ToUpper(q.Get("direction")); v != "" && v != "ALL" {
		dir := model.Direction(v)
		if dir.Sign() == 0 {
			return f, errBadParam("direction must be one of BTO, STO, BTC, STC")
		}
		f.Direction = dir
	}

	if v := strings.ToUpper(q.Get("classification")); v != "" && v != "ALL" {
		f.Classification = v
	}
	if v := strings.ToUpper(q.Get("stance")); v != "" && v != "ALL" {
		f.Stance = v
	}
	return f, nil
}

type errBadParam string

func (e errBadParam) Error() string { return string(e) }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
