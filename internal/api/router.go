package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Backlink discovery and state.
	r.Get("/backlinks/*", h.UpdateBacklinks)
	r.Get("/state/*", h.CurrentBacklinks)

	// Cache inspection and invalidation.
	r.Get("/cache/*", h.CachedBacklinks)
	r.Delete("/cache/*", h.InvalidateCache)
	r.Delete("/cache", h.ClearCache)

	// Block extraction.
	r.Post("/blocks", h.ExtractBlocks)
	r.Get("/context/*", h.ContextBlocks)

	// Observability.
	r.Get("/stats", h.Stats)
	r.Post("/stats/reset", h.ResetStats)
	r.Get("/metadata", h.Metadata)
	r.Get("/metadata/*", h.Metadata)

	// Discovery options.
	r.Get("/options", h.GetOptions)
	r.Put("/options", h.UpdateOptions)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
