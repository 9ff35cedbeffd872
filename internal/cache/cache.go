// Package cache keeps token -> user id lookups in Redis so authenticated
// requests skip the token table. Every method degrades to a miss when Redis
// is unavailable.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"crowdfund/internal/metrics"
)

const keyPrefix = "crowdfund:token:"

// TokenCache maps token keys to user ids.
type TokenCache interface {
	Get(ctx context.Context, key string) (uint, bool)
	Set(ctx context.Context, key string, userID uint) error
	Close() error
}

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

type redisTokenCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisTokenCache(rdb redis.UniversalClient, ttl time.Duration) TokenCache {
	return &redisTokenCache{rdb: rdb, ttl: ttl}
}

func (c *redisTokenCache) Get(ctx context.Context, key string) (uint, bool) {
	val, err := c.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		metrics.CacheMisses.Inc()
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		metrics.CacheMisses.Inc()
		return 0, false
	}
	metrics.CacheHits.Inc()
	return uint(id), true
}

func (c *redisTokenCache) Set(ctx context.Context, key string, userID uint) error {
	return c.rdb.Set(ctx, keyPrefix+key, strconv.FormatUint(uint64(userID), 10), c.ttl).Err()
}

func (c *redisTokenCache) Close() error {
	err := c.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// Nop is the cache used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (uint, bool) { return 0, false }
func (Nop) Set(context.Context, string, uint) error  { return nil }
func (Nop) Close() error                             { return nil }
