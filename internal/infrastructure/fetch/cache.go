package fetch

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheStats receives cache hit/miss signals keyed by upstream host.
// The metrics registry implements it.
type CacheStats interface {
	CacheHit(source string)
	CacheMiss(source string)
}

// Cache is a thin Redis TTL cache for upstream JSON payloads. A nil *Cache
// is a valid no-op cache.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a Redis client with a default TTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached payload and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a payload under the default TTL. Failures are swallowed: the
// cache is an optimization, never a correctness dependency.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, key, payload, c.ttl)
}
