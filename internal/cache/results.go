package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/verilens/verilens/internal/model"
)

// ResultCache maps content fingerprints to completed analysis results for
// the lifetime of one session. No TTL, no eviction: scope is a single page
// session, so unbounded growth is acceptable.
type ResultCache struct {
	cache *gocache.Cache
}

// NewResultCache creates an empty result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the stored result for a fingerprint
func (c *ResultCache) Get(key string) (model.Result, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(model.Result), true
	}
	return model.Result{}, false
}

// Put stores a completed result under a fingerprint. Results for the same
// key are value-identical, so last-write-wins is safe.
func (c *ResultCache) Put(key string, r model.Result) {
	c.cache.Set(key, r, gocache.NoExpiration)
}

// Len returns the number of cached results
func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}
