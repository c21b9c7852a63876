package backlink

import (
	"sync"
	"time"
)

// Cache defaults, used when the configuration leaves them zero.
const (
	DefaultCacheTTL     = 30 * time.Second
	DefaultMaxCacheSize = 100
)

// StatFunc returns a document's current modification time. An error means
// the document cannot be stat'd, which disables mtime invalidation for the
// affected entry (TTL still applies).
type StatFunc func(path string) (time.Time, error)

type cacheEntry struct {
	filePath     string
	backlinks    []string
	timestamp    time.Time
	fileModified time.Time // zero when the document could not be stat'd at Put time
}

// CacheStats is a plain observability record.
type CacheStats struct {
	Entries     int       `json:"entries"`
	Hits        int       `json:"hits"`
	Misses      int       `json:"misses"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// Cache is a bounded, time- and modification-aware cache of discovery
// results keyed by target document path.
//
// An entry is valid iff its age is within the TTL and the target document
// has not been modified since the entry was stored. Invalid entries are
// evicted lazily on lookup. Lists cross the cache boundary by copy in both
// directions, so callers can never mutate stored state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	maxSize int
	statFn  StatFunc
	now     func() time.Time

	hits        int
	misses      int
	lastCleanup time.Time
}

// NewCache creates a cache with the given TTL and size bound.
func NewCache(ttl time.Duration, maxSize int, statFn StatFunc) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxCacheSize
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		statFn:  statFn,
		now:     time.Now,
	}
}

// Get returns the cached backlinks for path, or nil on a miss or an
// invalid (expired or stale) entry. Invalid entries found during lookup
// are evicted immediately.
func (c *Cache) Get(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok {
		c.misses++
		return nil
	}
	if !c.entryValid(entry) {
		delete(c.entries, path)
		c.misses++
		return nil
	}
	c.hits++
	return copyList(entry.backlinks)
}

// Put stores a defensive copy of backlinks for path, recording the
// document's current modification time for later invalidation. If the
// cache exceeds its size bound, a cleanup pass runs.
func (c *Cache) Put(path string, backlinks []string) {
	var mtime time.Time
	if c.statFn != nil {
		if t, err := c.statFn(path); err == nil {
			mtime = t
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = &cacheEntry{
		filePath:     path,
		backlinks:    copyList(backlinks),
		timestamp:    c.now(),
		fileModified: mtime,
	}

	if len(c.entries) > c.maxSize {
		c.cleanupLocked()
	}
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// IsValid reports whether a currently stored entry for path would be
// served by Get. It does not evict.
func (c *Cache) IsValid(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[path]
	return ok && c.entryValid(entry)
}

// SetTTL updates the TTL applied to subsequent validity checks.
func (c *Cache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := CacheStats{
		Entries:     len(c.entries),
		Hits:        c.hits,
		Misses:      c.misses,
		LastCleanup: c.lastCleanup,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// entryValid applies the validity conjunction: within TTL, and the target
// document has not been modified past the recorded time. A failed stat
// cannot invalidate (TTL-only validity for that entry).
func (c *Cache) entryValid(entry *cacheEntry) bool {
	if c.now().Sub(entry.timestamp) > c.ttl {
		return false
	}
	if c.statFn == nil {
		return true
	}
	mtime, err := c.statFn(entry.filePath)
	if err != nil {
		return true
	}
	return !mtime.After(entry.fileModified)
}

// cleanupLocked removes every invalid entry, then, if still over the
// bound, the remaining entries with the oldest timestamps.
func (c *Cache) cleanupLocked() {
	for path, entry := range c.entries {
		if !c.entryValid(entry) {
			delete(c.entries, path)
		}
	}

	for len(c.entries) > c.maxSize {
		oldest := ""
		var oldestTime time.Time
		for path, entry := range c.entries {
			if oldest == "" || entry.timestamp.Before(oldestTime) {
				oldest = path
				oldestTime = entry.timestamp
			}
		}
		delete(c.entries, oldest)
	}

	c.lastCleanup = c.now()
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
