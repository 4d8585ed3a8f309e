package pipeline

import (
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/globe/internal/domain"
)

const (
	// FilterCacheTTL is how long a filtered result set stays valid
	FilterCacheTTL = 5 * time.Minute

	// emptyFacet stands in for an empty facet inside cache keys
	emptyFacet = "N/A"
)

type filterCacheEntry struct {
	results   []*domain.Country
	createdAt time.Time
}

// FilterCache memoizes filtered result sets by normalized (query, region).
// Entries expire after FilterCacheTTL and are evicted on the next lookup.
// One cache is shared by every pipeline in a session.
type FilterCache struct {
	mu      sync.Mutex
	entries map[string]filterCacheEntry
	now     func() time.Time
	ttl     time.Duration
}

// NewFilterCache creates an empty cache. now may be nil to use time.Now.
func NewFilterCache(now func() time.Time) *FilterCache {
	if now == nil {
		now = time.Now
	}
	return &FilterCache{
		entries: make(map[string]filterCacheEntry),
		now:     now,
		ttl:     FilterCacheTTL,
	}
}

// CacheKey builds the composite key for a (query, region) pair.
func CacheKey(query, region string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		q = emptyFacet
	}
	r := strings.TrimSpace(region)
	if r == "" {
		r = emptyFacet
	}
	return q + ":" + r
}

// Get returns the cached results for the pair, if present and fresh.
// The returned slice is shared with the cache and must not be modified.
func (c *FilterCache) Get(query, region string) ([]*domain.Country, bool) {
	key := CacheKey(query, region)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.results, true
}

// Set stores a copy of results for the pair, replacing any earlier entry.
func (c *FilterCache) Set(query, region string, results []*domain.Country) {
	stored := make([]*domain.Country, len(results))
	copy(stored, results)

	c.mu.Lock()
	c.entries[CacheKey(query, region)] = filterCacheEntry{
		results:   stored,
		createdAt: c.now(),
	}
	c.mu.Unlock()
}

// Clear drops every entry
func (c *FilterCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]filterCacheEntry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included
func (c *FilterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
