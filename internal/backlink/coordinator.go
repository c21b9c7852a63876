package backlink

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DocumentState describes where a document's current backlink list came from.
type DocumentState string

const (
	StateUndiscovered      DocumentState = "undiscovered"
	StateServedFromCache   DocumentState = "served-from-cache"
	StateFreshlyDiscovered DocumentState = "freshly-discovered"
)

// Metadata is a plain observability record for one document's backlink state.
type Metadata struct {
	Path      string        `json:"path"`
	Count     int           `json:"count"`
	State     DocumentState `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type documentState struct {
	backlinks []string
	state     DocumentState
	updatedAt time.Time
}

// Coordinator composes the discoverer, the cache, and per-document state
// behind the single UpdateBacklinks entry point. Cache expiry is passive:
// it is evaluated on the next read, never by a timer.
//
// Concurrent UpdateBacklinks calls for the same path may each perform
// discovery; the later cache write wins. State and cache mutations are
// mutex-guarded, but in-flight discovery is deliberately not coalesced.
type Coordinator struct {
	discoverer *Discoverer
	cache      *Cache
	classify   ClassifyFunc
	emitter    Emitter
	logger     *slog.Logger

	mu    sync.Mutex
	opts  Options
	state map[string]documentState
}

// NewCoordinator creates a coordinator with the given collaborators.
// emitter and classify may be nil.
func NewCoordinator(discoverer *Discoverer, cache *Cache, classify ClassifyFunc, emitter Emitter, opts Options, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		discoverer: discoverer,
		cache:      cache,
		classify:   classify,
		emitter:    emitter,
		logger:     logger,
		opts:       opts,
		state:      make(map[string]documentState),
	}
}

// UpdateBacklinks discovers (or serves from cache) the backlinks of target,
// records them in per-document state, and emits a backlinks-updated event.
// origin identifies the caller in the emitted event and may be empty.
func (c *Coordinator) UpdateBacklinks(target, origin string) []string {
	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()

	// Daily-note mode records an empty result without discovery or caching.
	if opts.OnlyDailyNotes && c.classify != nil && c.classify(target) {
		c.recordState(target, nil, StateFreshlyDiscovered)
		c.emit(target, nil, origin)
		return []string{}
	}

	if opts.UseCache {
		if cached := c.cache.Get(target); cached != nil {
			c.recordState(target, cached, StateServedFromCache)
			c.emit(target, cached, origin)
			return cached
		}
	}

	backlinks := c.discoverer.Discover(target, opts.IncludeResolved, opts.IncludeUnresolved)
	if opts.UseCache {
		c.cache.Put(target, backlinks)
	}

	c.recordState(target, backlinks, StateFreshlyDiscovered)
	c.emit(target, backlinks, origin)

	c.logger.Debug("coordinator: backlinks updated",
		slog.String("path", target),
		slog.Int("count", len(backlinks)),
		slog.String("origin", origin))

	return backlinks
}

// CurrentBacklinks returns the recorded state for path without triggering
// discovery. Undiscovered documents yield an empty list.
func (c *Coordinator) CurrentBacklinks(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.state[path]; ok {
		return copyList(st.backlinks)
	}
	return []string{}
}

// CachedBacklinks returns the cached list for path, or nil when the cache
// has no valid entry.
func (c *Coordinator) CachedBacklinks(path string) []string {
	return c.cache.Get(path)
}

// HaveBacklinksChanged reports whether candidate differs from the recorded
// state for target: different length, or different membership regardless of
// order.
func (c *Coordinator) HaveBacklinksChanged(target string, candidate []string) bool {
	c.mu.Lock()
	stored := c.state[target].backlinks
	c.mu.Unlock()

	if len(candidate) != len(stored) {
		return true
	}

	a := copyList(stored)
	b := copyList(candidate)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// Invalidate drops the cache entry and recorded state for path. The two
// removals happen in one critical section, so no partial clear is
// observable.
func (c *Coordinator) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Invalidate(path)
	delete(c.state, path)
}

// Clear drops the whole cache and all recorded state atomically from the
// caller's point of view.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
	c.state = make(map[string]documentState)
}

// Options returns the coordinator's current options.
func (c *Coordinator) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// UpdateOptions validates and applies new options, adjusting the cache TTL.
func (c *Coordinator) UpdateOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
	if opts.CacheTimeout > 0 {
		c.cache.SetTTL(opts.CacheTimeout)
	}
	return nil
}

// CacheStats returns the underlying cache counters.
func (c *Coordinator) CacheStats() CacheStats {
	return c.cache.Stats()
}

// State returns the recorded discovery state for path.
func (c *Coordinator) State(path string) DocumentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.state[path]; ok {
		return st.state
	}
	return StateUndiscovered
}

// Metadata returns the observability record for path.
func (c *Coordinator) Metadata(path string) Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state[path]
	if !ok {
		return Metadata{Path: path, State: StateUndiscovered}
	}
	return Metadata{
		Path:      path,
		Count:     len(st.backlinks),
		State:     st.state,
		UpdatedAt: st.updatedAt,
	}
}

// AllMetadata returns records for every document with recorded state.
func (c *Coordinator) AllMetadata() []Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Metadata, 0, len(c.state))
	for path, st := range c.state {
		out = append(out, Metadata{
			Path:      path,
			Count:     len(st.backlinks),
			State:     st.state,
			UpdatedAt: st.updatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (c *Coordinator) recordState(path string, backlinks []string, state DocumentState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state[path] = documentState{
		backlinks: copyList(backlinks),
		state:     state,
		updatedAt: time.Now(),
	}
}

func (c *Coordinator) emit(path string, backlinks []string, origin string) {
	if c.emitter == nil {
		return
	}
	c.emitter.BacklinksUpdated(path, copyList(backlinks), origin)
}
