package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, opts...)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedisCache(t)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.True(t, c.Has(ctx, "k"))
	assert.True(t, mr.Exists("loan-aggregator:k"), "default prefix applied")

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.Has(ctx, "k"))
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCache_BackstopTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedisCache(t, WithKeyPrefix("test:"), WithBackstopTTL(time.Hour))

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Hour, mr.TTL("test:k"))

	mr.FastForward(time.Hour + time.Second)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache_UnavailableServer(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedisCache(t)
	mr.Close()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", []byte("v")))
}

func TestNewRedisCache_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("loan-aggregator:k"))
}

func TestNewRedisCache_URLCredentials(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireUserAuth("app", "secret")

	c, err := NewRedisCache(context.Background(), "redis://app:secret@"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))

	_, err = NewRedisCache(context.Background(), "redis://app:wrong@"+mr.Addr()+"/0")
	assert.Error(t, err)
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	for _, addr := range []string{"http://localhost:6379", "redis://localhost:6379/notanumber", "::"} {
		_, err := NewRedisCache(context.Background(), addr)
		assert.Error(t, err, addr)
	}
}
