package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/backlink"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL wildcard. Supports
// encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// filterFromQuery builds a FilterOptions from query parameters, or nil
// when no filtering was requested.
func filterFromQuery(r *http.Request) *backlink.FilterOptions {
	q := r.URL.Query()
	opts := backlink.FilterOptions{
		ExcludeDailyNotes: q.Get("exclude_daily") == "true",
		ExcludeCurrent:    q.Get("exclude_current"),
		SortByPath:        q.Get("sort") == "true",
	}
	if !opts.ExcludeDailyNotes && opts.ExcludeCurrent == "" && !opts.SortByPath {
		return nil
	}
	return &opts
}

// UpdateBacklinks handles GET /api/backlinks/*.
func (h *Handler) UpdateBacklinks(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	origin := r.URL.Query().Get("origin")
	backlinks := h.svc.UpdateBacklinks(r.Context(), path, origin, filterFromQuery(r))
	writeJSON(w, http.StatusOK, BacklinksResponse{
		Path:      path,
		Backlinks: backlinks,
		Count:     len(backlinks),
	})
}

// CurrentBacklinks handles GET /api/state/*.
func (h *Handler) CurrentBacklinks(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	backlinks := h.svc.CurrentBacklinks(r.Context(), path)
	writeJSON(w, http.StatusOK, BacklinksResponse{
		Path:      path,
		Backlinks: backlinks,
		Count:     len(backlinks),
	})
}

// CachedBacklinks handles GET /api/cache/*.
func (h *Handler) CachedBacklinks(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	backlinks, err := h.svc.CachedBacklinks(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("no valid cache entry"))
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{
		Path:      path,
		Backlinks: backlinks,
		Count:     len(backlinks),
	})
}

// InvalidateCache handles DELETE /api/cache/*.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	h.svc.Invalidate(r.Context(), path)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCache handles DELETE /api/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ExtractBlocks handles POST /api/blocks.
func (h *Handler) ExtractBlocks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ExtractBlocksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	blocks, err := h.svc.ExtractBlocks(r.Context(), req.Path, req.Text, req.NoteName, req.Strategy)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidStrategy):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, BlocksResponse{Blocks: blocks, Count: len(blocks)})
}

// ContextBlocks handles GET /api/context/*.
func (h *Handler) ContextBlocks(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	blocks, err := h.svc.ContextBlocks(r.Context(), path, r.URL.Query().Get("strategy"))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidStrategy) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("context blocks failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, BlocksResponse{Blocks: blocks, Count: len(blocks)})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Statistics(r.Context()))
}

// ResetStats handles POST /api/stats/reset.
func (h *Handler) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.svc.ResetStatistics(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Metadata handles GET /api/metadata and GET /api/metadata/*.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	if path := docPath(r); path != "" {
		writeJSON(w, http.StatusOK, h.svc.Metadata(r.Context(), path))
		return
	}
	writeJSON(w, http.StatusOK, MetadataResponse{Documents: h.svc.AllMetadata(r.Context())})
}

// GetOptions handles GET /api/options.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.svc.Options(r.Context())
	writeJSON(w, http.StatusOK, OptionsResponse{
		IncludeResolved:   opts.IncludeResolved,
		IncludeUnresolved: opts.IncludeUnresolved,
		UseCache:          opts.UseCache,
		CacheTimeoutMS:    opts.CacheTimeout.Milliseconds(),
		OnlyDailyNotes:    opts.OnlyDailyNotes,
	})
}

// UpdateOptions handles PUT /api/options.
func (h *Handler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	opts := backlink.Options{
		IncludeResolved:   req.IncludeResolved,
		IncludeUnresolved: req.IncludeUnresolved,
		UseCache:          req.UseCache,
		CacheTimeout:      time.Duration(req.CacheTimeoutMS) * time.Millisecond,
		OnlyDailyNotes:    req.OnlyDailyNotes,
	}
	if err := h.svc.UpdateOptions(r.Context(), opts); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.GetOptions(w, r)
}
