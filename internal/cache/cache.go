// Package cache holds the two caching concerns of the agent: the
// content-fingerprint result cache that dedups analysis requests, and a
// byte cache for fetched page HTML.
package cache

import "time"

// ByteCache is the interface for the fetched-page cache tiers
type ByteCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}
