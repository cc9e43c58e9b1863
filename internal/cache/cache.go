// Package cache is a thin id-keyed read cache over Redis with targeted
// invalidation: every write path invalidates exactly the keys it touched
// instead of refetching whole collections.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Well-known keys.
const (
	KeyDashboard = "cache:dashboard"
	KeyProduto   = "cache:produto:" // + id
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get unmarshals the cached JSON into dest. Returns false on miss or error —
// a broken cache must never break a read path.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache: corrupt entry, dropping")
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

// Set stores v as JSON under key. Best-effort.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache: set failed")
	}
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Strs("keys", keys).Err(err).Msg("cache: invalidate failed")
	}
}
