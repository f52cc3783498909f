package catalog

import (
	"sync"
	"time"

	"github.com/recshelf/recshelf/internal/media"
)

// TrendingCache provides in-memory caching with TTL for trending lookups,
// so the multi-media fallback path does not hit upstreams on every request.
type TrendingCache struct {
	mu    sync.RWMutex
	items map[media.Type]trendingEntry
	ttl   time.Duration
}

type trendingEntry struct {
	items     []media.Item
	expiresAt time.Time
}

// NewTrendingCache creates a cache with the given TTL.
func NewTrendingCache(ttl time.Duration) *TrendingCache {
	if ttl <= 0 {
		ttl = 90 * time.Minute
	}
	return &TrendingCache{
		items: make(map[media.Type]trendingEntry),
		ttl:   ttl,
	}
}

// Get retrieves cached trending items for a media type.
func (c *TrendingCache) Get(t media.Type) ([]media.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.items[t]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	// Copy so callers can truncate without racing the cache.
	out := make([]media.Item, len(entry.items))
	copy(out, entry.items)
	return out, true
}

// Set stores trending items for a media type.
func (c *TrendingCache) Set(t media.Type, items []media.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]media.Item, len(items))
	copy(stored, items)
	c.items[t] = trendingEntry{
		items:     stored,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all cached entries.
func (c *TrendingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[media.Type]trendingEntry)
}
