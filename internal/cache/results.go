// Package cache provides an in-process cache of refinement results so
// duplicate products in one batch do not re-spend generation calls. Results
// are keyed by the facts fingerprint and expire on a TTL; nothing is
// persisted across processes.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/prodtext/refinery/internal/refine"
)

// ResultCache caches refinement results in memory.
type ResultCache struct {
	cache *gocache.Cache
}

// NewResultCache creates a new result cache. Entries expire after defaultTTL;
// expired entries are swept every cleanupInterval.
func NewResultCache(defaultTTL, cleanupInterval time.Duration) *ResultCache {
	return &ResultCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached result by facts fingerprint.
func (c *ResultCache) Get(fingerprint string) (*refine.RefineResult, bool) {
	if val, found := c.cache.Get(fingerprint); found {
		return val.(*refine.RefineResult), true
	}
	return nil, false
}

// Set stores a result under the facts fingerprint with the default TTL.
// Fallback results are not cached: a transient provider outage should not
// pin placeholder content for the TTL.
func (c *ResultCache) Set(fingerprint string, result *refine.RefineResult) {
	if result == nil || result.Fallback {
		return
	}
	c.cache.SetDefault(fingerprint, result)
}

// Flush removes all cached results.
func (c *ResultCache) Flush() {
	c.cache.Flush()
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}
