package measure

import (
	"sync"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

type cacheKey struct {
	text string
	c    layout.Constraints
}

// Cached memoises an underlying measurer. Measurers are pure, so entries
// never go stale; Reset drops them when the font or padding changes.
type Cached struct {
	inner layout.Measurer

	mu      sync.Mutex
	entries map[cacheKey]layout.Size
	hits    int
	misses  int
}

// NewCached wraps m.
func NewCached(m layout.Measurer) *Cached {
	return &Cached{inner: m, entries: make(map[cacheKey]layout.Size)}
}

// Measure implements layout.Measurer.
func (c *Cached) Measure(text string, cons layout.Constraints) layout.Size {
	k := cacheKey{text, cons}
	c.mu.Lock()
	if s, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		return s
	}
	c.misses++
	c.mu.Unlock()

	s := c.inner.Measure(text, cons)

	c.mu.Lock()
	c.entries[k] = s
	c.mu.Unlock()
	return s
}

// Stats returns hit and miss counts.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset empties the cache.
func (c *Cached) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.hits, c.misses = 0, 0
}
