package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores cache entries in Redis. Keys get a backstop TTL so that
// entries of abandoned sessions do not accumulate; logical expiry is still
// decided by the caller on read.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	backstop  time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithKeyPrefix namespaces every key written by this cache.
func WithKeyPrefix(prefix string) RedisOption {
	return func(rc *RedisCache) {
		rc.keyPrefix = prefix
	}
}

// WithBackstopTTL sets the Redis-side expiry applied on every write.
func WithBackstopTTL(ttl time.Duration) RedisOption {
	return func(rc *RedisCache) {
		rc.backstop = ttl
	}
}

// NewRedisCache connects to the redis:// or rediss:// URL and verifies the
// connection.
func NewRedisCache(ctx context.Context, addr string, options ...RedisOption) (*RedisCache, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheWithClient(client, options...), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, options ...RedisOption) *RedisCache {
	rc := &RedisCache{
		client:    client,
		keyPrefix: "loan-aggregator:",
		backstop:  24 * time.Hour,
	}
	for _, option := range options {
		option(rc)
	}
	return rc
}

func (r *RedisCache) key(k string) string {
	return r.keyPrefix + k
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.backstop).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Has(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	return err == nil && n > 0
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
