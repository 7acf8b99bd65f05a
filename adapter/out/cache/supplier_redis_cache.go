// Package cache provides the Redis-backed supplier cache adapter.
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
)

// RedisCache caches supplier snapshots per id. Every failure (connection,
// serialization) degrades to a cache miss; the request never fails because
// of the cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "redis_cache").Logger(),
	}
}

func cacheKey(id string) string {
	return "lieferant:" + id
}

// Get returns the cached supplier snapshot for the id, if any.
func (c *RedisCache) Get(ctx context.Context, id string) (*domain.Supplier, bool) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("id", id).Msg("cache read failed")
		}
		return nil, false
	}

	var cached cachedSupplier
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("cache entry corrupt")
		_ = c.client.Del(ctx, cacheKey(id)).Err()
		return nil, false
	}

	supplier := cached.Supplier
	supplier.ID = cached.ID
	supplier.Version = cached.Version
	return &supplier, true
}

// Put stores a supplier snapshot under its id.
func (c *RedisCache) Put(ctx context.Context, supplier *domain.Supplier) {
	if supplier == nil {
		return
	}
	data, err := json.Marshal(cachedSupplier{
		ID:       supplier.ID,
		Version:  supplier.Version,
		Supplier: supplier.Clone(),
	})
	if err != nil {
		c.log.Warn().Err(err).Str("id", supplier.ID).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, cacheKey(supplier.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("id", supplier.ID).Msg("cache write failed")
	}
}

// Remove invalidates the cached snapshot for the id.
func (c *RedisCache) Remove(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("cache invalidation failed")
	}
}

// cachedSupplier carries id and version explicitly since the wire form of
// Supplier excludes both.
type cachedSupplier struct {
	ID       string          `json:"id"`
	Version  int             `json:"version"`
	Supplier domain.Supplier `json:"lieferant"`
}

var _ out.SupplierCache = (*RedisCache)(nil)

// NoopCache is used when no Redis endpoint is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*domain.Supplier, bool) { return nil, false }
func (NoopCache) Put(context.Context, *domain.Supplier)                {}
func (NoopCache) Remove(context.Context, string)                       {}

var _ out.SupplierCache = NoopCache{}
