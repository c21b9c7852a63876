package backlink

import (
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/raido/internal/models"
)

// DefaultMemoSize bounds the resolver memo when no size is configured.
const DefaultMemoSize = 1024

type resolveKey struct {
	raw    string
	source string
}

type resolveResult struct {
	path string
	ok   bool
}

// Resolver maps loosely-specified link texts to concrete document paths
// using a cascade of strategies: direct path, document name, front-matter
// alias. Results, including misses, are memoized per (link, source) pair
// in a bounded LRU; PurgeMemo must be called when the underlying document
// set changes.
type Resolver struct {
	provider IndexProvider
	logger   *slog.Logger
	memo     *lru.Cache[resolveKey, resolveResult]
}

// NewResolver creates a resolver over the given index provider.
func NewResolver(provider IndexProvider, memoSize int, logger *slog.Logger) *Resolver {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	// lru.New only fails on a non-positive size.
	memo, _ := lru.New[resolveKey, resolveResult](memoSize)
	return &Resolver{provider: provider, logger: logger, memo: memo}
}

// NormalizeLinkPath reduces a raw link text to the canonical form used by
// every resolution step: one leading "./" or "/" stripped, one leading "#"
// stripped, any trailing "#fragment" stripped, a trailing ".md" stripped,
// surrounding whitespace trimmed.
func NormalizeLinkPath(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "./") {
		s = s[2:]
	} else if strings.HasPrefix(s, "/") {
		s = s[1:]
	}

	s = strings.TrimPrefix(s, "#")

	// [[Note#Heading]] → Note. A leading "#" was already consumed, so any
	// remaining "#" starts a heading fragment.
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSuffix(s, ".md")

	return strings.TrimSpace(s)
}

// Resolve maps a raw link text to a document path. The cascade runs in
// order: direct path, name (exact then case-insensitive), alias. A miss is
// a normal result, not an error, and is memoized like a hit.
func (r *Resolver) Resolve(raw, source string) (string, bool) {
	key := resolveKey{raw: raw, source: source}
	if cached, ok := r.memo.Get(key); ok {
		return cached.path, cached.ok
	}

	path, ok := r.resolveUncached(raw)
	r.memo.Add(key, resolveResult{path: path, ok: ok})
	return path, ok
}

func (r *Resolver) resolveUncached(raw string) (string, bool) {
	normalized := NormalizeLinkPath(raw)
	if normalized == "" {
		return "", false
	}

	docs, err := r.provider.ListDocuments()
	if err != nil {
		r.logger.Warn("resolver: list documents failed", slog.String("error", err.Error()))
		return "", false
	}

	if path, ok := r.resolveDirect(normalized, docs); ok {
		return path, true
	}
	if path, ok := r.resolveByName(normalized, docs); ok {
		return path, true
	}
	return r.resolveByAlias(normalized, docs)
}

// PossibleResolutions returns the deduplicated union of every cascade step
// that succeeds, in cascade priority order.
func (r *Resolver) PossibleResolutions(raw string) []string {
	normalized := NormalizeLinkPath(raw)
	if normalized == "" {
		return nil
	}

	docs, err := r.provider.ListDocuments()
	if err != nil {
		r.logger.Warn("resolver: list documents failed", slog.String("error", err.Error()))
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(path string, ok bool) {
		if !ok {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	add(r.resolveDirect(normalized, docs))
	add(r.resolveByName(normalized, docs))
	add(r.resolveByAlias(normalized, docs))
	return out
}

// PurgeMemo drops every memoized resolution. The index watcher calls this
// whenever the document set changes, so stale resolutions never outlive the
// documents that produced them.
func (r *Resolver) PurgeMemo() {
	r.memo.Purge()
}

// resolveDirect tests the normalized text, then the text with ".md"
// appended, against known document paths.
func (r *Resolver) resolveDirect(normalized string, docs []models.DocumentInfo) (string, bool) {
	for _, d := range docs {
		if d.Path == normalized || d.Path == normalized+".md" {
			return d.Path, true
		}
	}
	return "", false
}

// resolveByName scans for an exact match of the normalized text against a
// document's base name or full file name, then falls back to a
// case-insensitive pass.
func (r *Resolver) resolveByName(normalized string, docs []models.DocumentInfo) (string, bool) {
	for _, d := range docs {
		if d.BaseName == normalized || d.FullName == normalized {
			return d.Path, true
		}
	}
	lower := strings.ToLower(normalized)
	for _, d := range docs {
		if strings.ToLower(d.BaseName) == lower || strings.ToLower(d.FullName) == lower {
			return d.Path, true
		}
	}
	return "", false
}

// resolveByAlias scans front-matter alias lists for a case-insensitive match.
func (r *Resolver) resolveByAlias(normalized string, docs []models.DocumentInfo) (string, bool) {
	lower := strings.ToLower(normalized)
	for _, d := range docs {
		aliases, err := r.provider.Aliases(d.Path)
		if err != nil {
			r.logger.Warn("resolver: aliases failed",
				slog.String("path", d.Path), slog.String("error", err.Error()))
			continue
		}
		for _, a := range aliases {
			if strings.ToLower(a) == lower {
				return d.Path, true
			}
		}
	}
	return "", false
}
