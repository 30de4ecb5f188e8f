package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-matchmaker/internal/cache"
	"github.com/oggyb/muzz-matchmaker/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestLikeCount(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := c.LikeCountVersion(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, c.SetLikeCount(ctx, 42, 7, v))
	n, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
	assert.Greater(t, mr.TTL(c.KeyForLikeCount(42)), time.Duration(0))

	// hits leave the TTL alone
	mr.FastForward(30 * time.Minute)
	_, ok, err = c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.LessOrEqual(t, mr.TTL(c.KeyForLikeCount(42)), 30*time.Minute)

	require.NoError(t, c.InvalidateLikeCount(ctx, 42))
	_, ok, _ = c.GetLikeCount(ctx, 42)
	assert.False(t, ok)
}

func TestLikeCount_StaleWriteDropped(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	// a reader takes the version, then a like invalidates before it writes
	v, err := c.LikeCountVersion(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, c.InvalidateLikeCount(ctx, 42))

	require.NoError(t, c.SetLikeCount(ctx, 42, 3, v))
	_, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok, "count read before the invalidation must not be cached")

	v, err = c.LikeCountVersion(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, c.SetLikeCount(ctx, 42, 4, v))
	n, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)
}

func TestAnswerWeights(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	_, ok, err := c.GetAnswerWeights(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetAnswerWeights(ctx, map[uint64]float64{1: 2.5, 3: 0.5}, time.Minute))
	w, ok, err := c.GetAnswerWeights(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[uint64]float64{1: 2.5, 3: 0.5}, w)

	// an empty table is still a hit
	require.NoError(t, c.SetAnswerWeights(ctx, nil, time.Minute))
	w, ok, err = c.GetAnswerWeights(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, w)
}

func TestPriorities(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.SetPriority(ctx, 1, 2.0, time.Minute))
	require.NoError(t, c.SetPriority(ctx, 3, 1.5, time.Minute))

	got, err := c.GetPriorities(ctx, []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]float64{1: 2.0, 3: 1.5}, got)
}
