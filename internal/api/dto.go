package api

import (
	"github.com/starford/raido/internal/backlink"
	"github.com/starford/raido/internal/models"
)

// BacklinksResponse wraps a backlink list for one target document.
type BacklinksResponse struct {
	Path      string   `json:"path"`
	Backlinks []string `json:"backlinks"`
	Count     int      `json:"count"`
}

// ExtractBlocksRequest is the request body for block extraction.
// Either Path (a vault document to read) or Text (raw Markdown) must be
// set; NoteName defaults to the target document's base name when Path is
// used.
type ExtractBlocksRequest struct {
	Path     string `json:"path,omitempty"`
	Text     string `json:"text,omitempty"`
	NoteName string `json:"note_name,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// BlocksResponse wraps extracted context blocks.
type BlocksResponse struct {
	Blocks []models.Block `json:"blocks"`
	Count  int            `json:"count"`
}

// StatsResponse aggregates the engine's observability records.
type StatsResponse struct {
	Discovery backlink.DiscovererStats `json:"discovery"`
	Cache     backlink.CacheStats      `json:"cache"`
	Tracked   int                      `json:"tracked_documents"`
}

// MetadataResponse wraps per-document backlink metadata.
type MetadataResponse struct {
	Documents []backlink.Metadata `json:"documents"`
}

// OptionsRequest is the request body for updating discovery options.
// CacheTimeoutMS is expressed in milliseconds.
type OptionsRequest struct {
	IncludeResolved   bool  `json:"include_resolved"`
	IncludeUnresolved bool  `json:"include_unresolved"`
	UseCache          bool  `json:"use_cache"`
	CacheTimeoutMS    int64 `json:"cache_timeout_ms"`
	OnlyDailyNotes    bool  `json:"only_daily_notes"`
}

// OptionsResponse mirrors the coordinator's current options.
type OptionsResponse struct {
	IncludeResolved   bool  `json:"include_resolved"`
	IncludeUnresolved bool  `json:"include_unresolved"`
	UseCache          bool  `json:"use_cache"`
	CacheTimeoutMS    int64 `json:"cache_timeout_ms"`
	OnlyDailyNotes    bool  `json:"only_daily_notes"`
}
