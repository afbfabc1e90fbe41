package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/finledger/internal/usecase"
)

var _ usecase.Cache = (*Cache)(nil)

func TestCacheSetAndGet(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "dashboard:owner-1", []byte(`{"balance":"10"}`), time.Minute))

	val, err := cache.Get(ctx, "dashboard:owner-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"10"}`, string(val))
}

func TestCacheMiss(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheIncrCountsFromZero(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := cache.Incr(ctx, "dashboard-gen:owner-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// The counter is readable through Get, which is how generations are read.
	raw, err := cache.Get(ctx, "dashboard-gen:owner-1")
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))
	assert.Zero(t, mr.TTL(cache.prefix+"dashboard-gen:owner-1"))
}
