package api

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/backlink"
	"github.com/starford/raido/internal/models"
)

// Service is the API-layer facade over the backlink engine.
type Service struct {
	coord      *backlink.Coordinator
	discoverer *backlink.Discoverer
	extractor  *backlink.Extractor
	provider   backlink.IndexProvider
}

// NewService creates a new API service.
func NewService(coord *backlink.Coordinator, discoverer *backlink.Discoverer, extractor *backlink.Extractor, provider backlink.IndexProvider) *Service {
	return &Service{
		coord:      coord,
		discoverer: discoverer,
		extractor:  extractor,
		provider:   provider,
	}
}

// UpdateBacklinks runs discovery (or serves from cache) for path, applying
// an optional post-discovery filter.
func (s *Service) UpdateBacklinks(_ context.Context, path, origin string, fopts *backlink.FilterOptions) []string {
	backlinks := s.coord.UpdateBacklinks(path, origin)
	if fopts != nil {
		backlinks = s.discoverer.Filter(backlinks, *fopts)
	}
	return backlinks
}

// CurrentBacklinks returns the recorded state for path without discovery.
func (s *Service) CurrentBacklinks(_ context.Context, path string) []string {
	return s.coord.CurrentBacklinks(path)
}

// CachedBacklinks returns the valid cached list for path, or ErrNotFound.
func (s *Service) CachedBacklinks(_ context.Context, path string) ([]string, error) {
	if cached := s.coord.CachedBacklinks(path); cached != nil {
		return cached, nil
	}
	return nil, apperr.ErrNotFound
}

// ExtractBlocks slices contextual blocks around references to noteName.
// When text is empty the document at path is read from the vault; when
// noteName is empty it defaults to the document's base name.
func (s *Service) ExtractBlocks(ctx context.Context, path, text, noteName, strategyName string) ([]models.Block, error) {
	strategy, err := backlink.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}

	if text == "" {
		if path == "" {
			return nil, fmt.Errorf("path or text is required")
		}
		text, err = s.provider.ReadContent(ctx, path)
		if err != nil {
			return nil, apperr.ErrNotFound
		}
	}
	if noteName == "" {
		if path == "" {
			return nil, fmt.Errorf("note_name is required with raw text")
		}
		full := filepath.Base(path)
		noteName = strings.TrimSuffix(full, filepath.Ext(full))
	}

	blocks := s.extractor.Extract(path, text, noteName, strategy)
	if blocks == nil {
		blocks = []models.Block{}
	}
	return blocks, nil
}

// ContextBlocks discovers the backlinks of target and extracts one block
// list per referencing source document. A failure reading one source skips
// that document and continues with the rest.
func (s *Service) ContextBlocks(ctx context.Context, target, strategyName string) ([]models.Block, error) {
	strategy, err := backlink.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}

	full := filepath.Base(target)
	noteName := strings.TrimSuffix(full, filepath.Ext(full))

	sources := s.coord.UpdateBacklinks(target, "context-blocks")
	blocks := []models.Block{}
	for _, source := range sources {
		text, readErr := s.provider.ReadContent(ctx, source)
		if readErr != nil {
			continue
		}
		blocks = append(blocks, s.extractor.Extract(source, text, noteName, strategy)...)
	}
	return blocks, nil
}

// Statistics aggregates discovery and cache counters.
func (s *Service) Statistics(_ context.Context) StatsResponse {
	return StatsResponse{
		Discovery: s.discoverer.Stats(),
		Cache:     s.coord.CacheStats(),
		Tracked:   len(s.coord.AllMetadata()),
	}
}

// ResetStatistics zeroes the discovery counters.
func (s *Service) ResetStatistics(_ context.Context) {
	s.discoverer.ResetStats()
}

// Metadata returns the observability record for one document.
func (s *Service) Metadata(_ context.Context, path string) backlink.Metadata {
	return s.coord.Metadata(path)
}

// AllMetadata returns records for every tracked document.
func (s *Service) AllMetadata(_ context.Context) []backlink.Metadata {
	return s.coord.AllMetadata()
}

// Invalidate drops cached and recorded state for path.
func (s *Service) Invalidate(_ context.Context, path string) {
	s.coord.Invalidate(path)
}

// Clear drops all cached and recorded state.
func (s *Service) Clear(_ context.Context) {
	s.coord.Clear()
}

// Options returns the coordinator's current options.
func (s *Service) Options(_ context.Context) backlink.Options {
	return s.coord.Options()
}

// UpdateOptions validates and applies new options.
func (s *Service) UpdateOptions(_ context.Context, opts backlink.Options) error {
	return s.coord.UpdateOptions(opts)
}
