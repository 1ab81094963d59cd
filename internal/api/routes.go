package api

import "github.com/go-chi/chi/v5"

// Routes registers the read-model under the given router, normally mounted
// at /api/v1. hub may be nil.
func Routes(r chi.Router, svc *Service, hub *Hub) {
	if hub != nil {
		// WebSocket endpoint for the live change stream.
		r.Get("/ws", hub.HandleWS)
	}

	// Ledgers.
	r.Get("/trades", svc.ListTrades)
	r.Get("/positions", svc.ListPositions)
	r.Get("/prints", svc.ListPrints)
	r.Get("/auto-trades", svc.ListAutoTrades)

	// Quotes and mappings.
	r.Get("/quotes", svc.ListQuotes)
	r.Get("/quotes/underlying", svc.ListUnderlyingQuotes)
	r.Get("/quotes/{conid}", svc.GetQuote)
	r.Get("/mappings/{conid}", svc.GetMapping)

	// Aggregates.
	r.Get("/sentiment", svc.GetSentiment)
	r.Get("/stats", svc.GetStats)
	r.Get("/status", svc.GetStatus)

	// Feed control.
	r.Post("/pause", svc.Pause)
	r.Post("/resume", svc.Resume)
	r.Post("/clear", svc.Clear)
}
