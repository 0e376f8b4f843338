package cache

import "time"

// PageCache layers a memory tier over a disk tier for fetched page HTML
type PageCache struct {
	memory ByteCache
	disk   ByteCache
}

// NewPageCache creates a layered page cache
func NewPageCache(dir string, ttl time.Duration) *PageCache {
	return &PageCache{
		memory: NewMemoryCache(ttl, 10*time.Minute),
		disk:   NewDiskCache(dir, ttl),
	}
}

// Get checks memory first, then disk, promoting disk hits to memory
func (c *PageCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

// Set stores a value in both tiers
func (c *PageCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both tiers
func (c *PageCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear empties both tiers
func (c *PageCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
