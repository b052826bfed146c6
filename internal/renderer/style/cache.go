package style

import (
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/dshills/markupcore/internal/renderer/core"
)

// Cache memoizes realized attributes per descriptor. By default entries are
// never evicted; the number of distinct descriptors in a document is small.
// WithCapacity bounds the cache for callers that generate descriptors
// freely.
type Cache struct {
	materializer Materializer
	entries      map[core.Style]Attributes
	bounded      *simplelru.LRU[core.Style, Attributes]
	capacity     int
	misses       int
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCapacity keeps at most n entries, evicting the least recently used.
// Non-positive values leave the cache unbounded.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		c.capacity = n
	}
}

// NewCache creates a cache in front of m.
func NewCache(m Materializer, opts ...CacheOption) *Cache {
	if m == nil {
		m = NewMaterializer(core.DefaultStyle())
	}
	c := &Cache{materializer: m}
	for _, opt := range opts {
		opt(c)
	}
	if c.capacity > 0 {
		// NewLRU only fails for non-positive sizes.
		c.bounded, _ = simplelru.NewLRU[core.Style, Attributes](c.capacity, nil)
	} else {
		c.entries = make(map[core.Style]Attributes)
	}
	return c
}

// Materialize returns the attributes for desc, computing them on first use.
func (c *Cache) Materialize(desc core.Style) Attributes {
	if c.bounded != nil {
		if a, ok := c.bounded.Get(desc); ok {
			return a
		}
	} else if a, ok := c.entries[desc]; ok {
		return a
	}

	a := c.materializer.Materialize(desc)
	c.misses++
	if c.bounded != nil {
		c.bounded.Add(desc, a)
	} else {
		c.entries[desc] = a
	}
	return a
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.entries)
}

// Capacity returns the entry limit, or 0 when the cache is unbounded.
func (c *Cache) Capacity() int {
	if c.bounded == nil {
		return 0
	}
	return c.capacity
}

// Misses returns how many times the materializer was called.
func (c *Cache) Misses() int {
	return c.misses
}

// Reset drops every entry and switches to m if it is non-nil. Used when the
// theme changes and previously realized attributes are stale.
func (c *Cache) Reset(m Materializer) {
	if m != nil {
		c.materializer = m
	}
	if c.bounded != nil {
		c.bounded.Purge()
	} else {
		clear(c.entries)
	}
	c.misses = 0
}
