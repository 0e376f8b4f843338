package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the hot tier of the page cache: recently fetched page
// snapshots kept in memory so rescans of the same feed within the TTL skip
// both the network and the disk tier.
type MemoryCache struct {
	pages      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache creates a memory tier. Expired snapshots are swept every
// sweepEvery.
func NewMemoryCache(defaultTTL, sweepEvery time.Duration) *MemoryCache {
	return &MemoryCache{
		pages:      gocache.New(defaultTTL, sweepEvery),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached page snapshot for a page key
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.pages.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a page snapshot. A non-positive TTL falls back to the tier's
// default, same as the disk tier.
func (c *MemoryCache) Set(key string, snapshot []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.pages.Set(key, snapshot, ttl)
	return nil
}

// Delete drops one page snapshot
func (c *MemoryCache) Delete(key string) error {
	c.pages.Delete(key)
	return nil
}

// Clear empties the tier, forcing the next Get through to disk or network
func (c *MemoryCache) Clear() error {
	c.pages.Flush()
	return nil
}
