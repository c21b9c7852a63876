package backlink

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DiscovererStats are monotonically accumulating discovery counters, reset
// only by an explicit ResetStats.
type DiscovererStats struct {
	DocumentsChecked       int       `json:"documents_checked"`
	DocumentsWithBacklinks int       `json:"documents_with_backlinks"`
	TotalBacklinks         int       `json:"total_backlinks"`
	ResolvedBacklinks      int       `json:"resolved_backlinks"`
	UnresolvedBacklinks    int       `json:"unresolved_backlinks"`
	AverageBacklinks       float64   `json:"average_backlinks"`
	ProviderErrors         int       `json:"provider_errors"`
	LastDiscovery          time.Time `json:"last_discovery"`
}

// FilterOptions controls post-discovery filtering.
type FilterOptions struct {
	ExcludeDailyNotes bool   `json:"exclude_daily_notes"`
	ExcludeCurrent    string `json:"exclude_current"` // path excluded from results, "" for none
	SortByPath        bool   `json:"sort_by_path"`
}

// Discoverer finds the documents referencing a target, combining the
// index's resolved-link adjacency with name matching over unresolved raw
// links. Discover never fails outward: provider errors are logged, counted,
// and degraded to an empty contribution.
type Discoverer struct {
	provider IndexProvider
	resolver *Resolver
	classify ClassifyFunc
	logger   *slog.Logger

	mu    sync.Mutex
	stats DiscovererStats
}

// NewDiscoverer creates a discoverer over the given provider.
func NewDiscoverer(provider IndexProvider, resolver *Resolver, classify ClassifyFunc, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		provider: provider,
		resolver: resolver,
		classify: classify,
		logger:   logger,
	}
}

// Discover returns every source document referencing target, deduplicated
// preserving first-seen order: resolved backlinks first, then unresolved.
func (d *Discoverer) Discover(target string, includeResolved, includeUnresolved bool) []string {
	var combined []string
	resolvedCount := 0

	if includeResolved {
		resolved := d.resolvedBacklinks(target)
		resolvedCount = len(resolved)
		combined = append(combined, resolved...)
	}
	if includeUnresolved {
		combined = append(combined, d.unresolvedBacklinks(target)...)
	}

	out := dedup(combined)

	d.mu.Lock()
	d.stats.DocumentsChecked++
	if len(out) > 0 {
		d.stats.DocumentsWithBacklinks++
	}
	d.stats.TotalBacklinks += len(out)
	d.stats.ResolvedBacklinks += resolvedCount
	d.stats.UnresolvedBacklinks += len(combined) - resolvedCount
	d.stats.AverageBacklinks = float64(d.stats.TotalBacklinks) / float64(d.stats.DocumentsChecked)
	d.stats.LastDiscovery = time.Now()
	d.mu.Unlock()

	return out
}

// resolvedBacklinks returns every source whose resolved-link set contains target.
func (d *Discoverer) resolvedBacklinks(target string) []string {
	links, err := d.provider.ResolvedLinks()
	if err != nil {
		d.recordProviderError("resolved links", err)
		return nil
	}
	var out []string
	for source, targets := range links {
		for _, t := range targets {
			if t == target {
				out = append(out, source)
				break
			}
		}
	}
	sort.Strings(out) // map iteration order is not stable
	return out
}

// unresolvedBacklinks matches the target's base name and full name
// case-insensitively against each source's unresolved raw link texts.
// Returns empty when target cannot be located at all.
func (d *Discoverer) unresolvedBacklinks(target string) []string {
	if !d.targetExists(target) {
		return nil
	}

	fullName := filepath.Base(target)
	baseName := strings.TrimSuffix(fullName, filepath.Ext(fullName))
	lowerFull := strings.ToLower(fullName)
	lowerBase := strings.ToLower(baseName)

	links, err := d.provider.UnresolvedLinks()
	if err != nil {
		d.recordProviderError("unresolved links", err)
		return nil
	}

	var out []string
	for source, raws := range links {
		for _, raw := range raws {
			lower := strings.ToLower(strings.TrimSpace(raw))
			if lower == lowerBase || lower == lowerFull {
				out = append(out, source)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// targetExists checks the document enumeration for target, falling back to
// the resolver cascade for loosely-specified targets.
func (d *Discoverer) targetExists(target string) bool {
	docs, err := d.provider.ListDocuments()
	if err != nil {
		d.recordProviderError("list documents", err)
		return false
	}
	for _, doc := range docs {
		if doc.Path == target {
			return true
		}
	}
	_, ok := d.resolver.Resolve(target, "")
	return ok
}

// Filter applies optional exclusions and sorting without mutating the input.
func (d *Discoverer) Filter(backlinks []string, opts FilterOptions) []string {
	out := make([]string, 0, len(backlinks))
	for _, bl := range backlinks {
		if opts.ExcludeDailyNotes && d.classify != nil && d.classify(bl) {
			continue
		}
		if opts.ExcludeCurrent != "" && bl == opts.ExcludeCurrent {
			continue
		}
		out = append(out, bl)
	}
	if opts.SortByPath {
		sort.Strings(out)
	}
	return out
}

// Stats returns a snapshot of the accumulated counters.
func (d *Discoverer) Stats() DiscovererStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// ResetStats zeroes the counters.
func (d *Discoverer) ResetStats() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = DiscovererStats{}
}

func (d *Discoverer) recordProviderError(op string, err error) {
	d.logger.Warn("discoverer: provider failure",
		slog.String("op", op), slog.String("error", err.Error()))
	d.mu.Lock()
	d.stats.ProviderErrors++
	d.mu.Unlock()
}

// dedup removes repeated entries preserving first-seen order.
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
