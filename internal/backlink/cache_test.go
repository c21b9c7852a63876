package backlink

import (
	"fmt"
	"testing"
	"time"
)

// fixedClock drives the cache's notion of now in tests.
type fixedClock struct {
	t time.Time
}

func (f *fixedClock) now() time.Time          { return f.t }
func (f *fixedClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func testCache(ttl time.Duration, maxSize int, statFn StatFunc) (*Cache, *fixedClock) {
	c := NewCache(ttl, maxSize, statFn)
	clock := &fixedClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	c.now = clock.now
	return c, clock
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := testCache(time.Minute, 10, nil)

	c.Put("a.md", []string{"x.md", "y.md"})
	got := c.Get("a.md")
	if len(got) != 2 || got[0] != "x.md" {
		t.Errorf("Get = %v", got)
	}
	if !c.IsValid("a.md") {
		t.Error("entry should be valid")
	}
}

func TestCacheCopyIsolation(t *testing.T) {
	c, _ := testCache(time.Minute, 10, nil)

	in := []string{"x.md"}
	c.Put("a.md", in)
	in[0] = "mutated"

	got := c.Get("a.md")
	if got[0] != "x.md" {
		t.Errorf("stored list affected by caller mutation: %v", got)
	}

	got[0] = "mutated"
	if again := c.Get("a.md"); again[0] != "x.md" {
		t.Errorf("stored list affected by result mutation: %v", again)
	}
}

func TestCacheMiss(t *testing.T) {
	c, _ := testCache(time.Minute, 10, nil)

	if got := c.Get("nope.md"); got != nil {
		t.Errorf("Get on empty cache = %v", got)
	}
	if s := c.Stats(); s.Misses != 1 || s.Hits != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c, clock := testCache(time.Minute, 10, nil)

	c.Put("a.md", []string{"x.md"})
	clock.advance(59 * time.Second)
	if c.Get("a.md") == nil {
		t.Fatal("entry should still be within TTL")
	}

	clock.advance(2 * time.Second)
	if got := c.Get("a.md"); got != nil {
		t.Errorf("expired entry served: %v", got)
	}
	// The expired entry was evicted lazily.
	if s := c.Stats(); s.Entries != 0 {
		t.Errorf("entries = %d, want 0 after lazy eviction", s.Entries)
	}
}

func TestCacheMtimeInvalidation(t *testing.T) {
	mtime := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC)
	statFn := func(path string) (time.Time, error) { return mtime, nil }
	c, _ := testCache(time.Minute, 10, statFn)

	c.Put("a.md", []string{"x.md"})
	if c.Get("a.md") == nil {
		t.Fatal("entry should be valid while the document is unchanged")
	}

	// The document changes on disk.
	mtime = mtime.Add(time.Second)
	if got := c.Get("a.md"); got != nil {
		t.Errorf("stale entry served after modification: %v", got)
	}
}

func TestCacheStatFailureDisablesMtimeCheck(t *testing.T) {
	calls := 0
	statFn := func(path string) (time.Time, error) {
		calls++
		return time.Time{}, fmt.Errorf("stat %s: gone", path)
	}
	c, clock := testCache(time.Minute, 10, statFn)

	c.Put("a.md", []string{"x.md"})
	if c.Get("a.md") == nil {
		t.Error("unstattable entry should stay valid within TTL")
	}

	clock.advance(2 * time.Minute)
	if c.Get("a.md") != nil {
		t.Error("TTL still applies when stat fails")
	}
	if calls == 0 {
		t.Error("statFn was never consulted")
	}
}

func TestCacheCleanupBound(t *testing.T) {
	c, clock := testCache(time.Hour, 3, nil)

	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("doc-%d.md", i), []string{"x.md"})
		clock.advance(time.Second)
	}

	if s := c.Stats(); s.Entries > 3 {
		t.Errorf("entries = %d, want <= 3 after cleanup", s.Entries)
	}
	// The oldest entry went first.
	if c.Get("doc-0.md") != nil {
		t.Error("oldest entry should have been evicted")
	}
	if c.Get("doc-3.md") == nil {
		t.Error("newest entry should survive cleanup")
	}
	if c.Stats().LastCleanup.IsZero() {
		t.Error("last_cleanup should be recorded")
	}
}

func TestCacheCleanupDropsInvalidFirst(t *testing.T) {
	c, clock := testCache(time.Minute, 2, nil)

	c.Put("old.md", []string{"x.md"})
	clock.advance(2 * time.Minute) // old.md is now expired
	c.Put("a.md", []string{"x.md"})
	clock.advance(time.Second)
	c.Put("b.md", []string{"x.md"}) // triggers cleanup at 3 entries

	if c.Get("a.md") == nil || c.Get("b.md") == nil {
		t.Error("valid entries evicted while an expired one existed")
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c, _ := testCache(time.Minute, 10, nil)

	c.Put("a.md", []string{"x.md"})
	c.Put("b.md", []string{"y.md"})

	c.Invalidate("a.md")
	if c.Get("a.md") != nil {
		t.Error("invalidated entry served")
	}
	if c.Get("b.md") == nil {
		t.Error("unrelated entry dropped by Invalidate")
	}

	c.Clear()
	if c.Get("b.md") != nil {
		t.Error("entry served after Clear")
	}
}

func TestCacheSetTTL(t *testing.T) {
	c, clock := testCache(time.Hour, 10, nil)

	c.Put("a.md", []string{"x.md"})
	c.SetTTL(time.Second)
	clock.advance(2 * time.Second)
	if c.Get("a.md") != nil {
		t.Error("entry should expire under the shortened TTL")
	}

	// Non-positive TTLs are ignored.
	c.SetTTL(0)
	c.Put("b.md", []string{"y.md"})
	if c.Get("b.md") == nil {
		t.Error("entry should be valid, zero TTL must not stick")
	}
}

func TestCacheStatsHitRate(t *testing.T) {
	c, _ := testCache(time.Minute, 10, nil)

	c.Put("a.md", []string{"x.md"})
	c.Get("a.md")
	c.Get("a.md")
	c.Get("missing.md")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Fatalf("stats = %+v", s)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("hit_rate = %f", s.HitRate)
	}
}
