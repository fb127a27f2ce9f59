package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/titlelex/titlelex/internal/cache"
)

func TestMemoryClientSetGetRoundTrip(t *testing.T) {
	c := cache.NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)
}

func TestMemoryClientGetMissReturnsErrCacheMiss(t *testing.T) {
	c := cache.NewMemoryClient(10)

	_, err := c.Get(context.Background(), "nope")
	require.True(t, errors.Is(err, cache.ErrCacheMiss))
}

func TestMemoryClientExpiredEntryIsAMiss(t *testing.T) {
	c := cache.NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), -time.Second))

	_, err := c.Get(ctx, "k1")
	require.True(t, errors.Is(err, cache.ErrCacheMiss))
}

func TestMemoryClientDelete(t *testing.T) {
	c := cache.NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k1"))

	_, err := c.Get(ctx, "k1")
	require.True(t, errors.Is(err, cache.ErrCacheMiss))
}

func TestMemoryClientDeleteByPrefix(t *testing.T) {
	c := cache.NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parse:1:aaa", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "parse:1:bbb", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other:ccc", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "parse:1:"))

	_, err := c.Get(ctx, "parse:1:aaa")
	require.True(t, errors.Is(err, cache.ErrCacheMiss))
	_, err = c.Get(ctx, "parse:1:bbb")
	require.True(t, errors.Is(err, cache.ErrCacheMiss))

	got, err := c.Get(ctx, "other:ccc")
	require.NoError(t, err)
	require.Equal(t, []byte("c"), got)
}

func TestMemoryClientEvictsWhenAtCapacity(t *testing.T) {
	c := cache.NewMemoryClient(1)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, c.Set(ctx, "k2", []byte("v2"), time.Minute))

	_, err1 := c.Get(ctx, "k1")
	_, err2 := c.Get(ctx, "k2")
	require.False(t, err1 == nil && err2 == nil, "expected eviction to keep the map at capacity")
}

func TestParseResultKeyIsDeterministicAndGenerationScoped(t *testing.T) {
	k1 := cache.ParseResultKey("Global Widget Market Forecast 2024 to 2030", 1)
	k2 := cache.ParseResultKey("Global Widget Market Forecast 2024 to 2030", 1)
	require.Equal(t, k1, k2)

	k3 := cache.ParseResultKey("Global Widget Market Forecast 2024 to 2030", 2)
	require.NotEqual(t, k1, k3)
}

func TestParseResultKeyDiffersByTitle(t *testing.T) {
	k1 := cache.ParseResultKey("Title A", 1)
	k2 := cache.ParseResultKey("Title B", 1)
	require.NotEqual(t, k1, k2)
}

func TestCacheKeyJoinsWithColon(t *testing.T) {
	require.Equal(t, "a:b:c", cache.CacheKey("a", "b", "c"))
	require.Equal(t, "a", cache.CacheKey("a"))
}
