package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLimiter_BurstThenDeny(t *testing.T) {
	rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, "test:ratelimit", 1, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within burst should pass", i)
	}

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "request beyond burst should be denied")
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, "test:ratelimit", 1, 1)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// a different client keeps its own bucket
	ok, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ZeroRateDisables(t *testing.T) {
	rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, "test:ratelimit", 0, 0)

	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestLocalLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewLocalLimiter(1, 2)
	ctx := context.Background()

	ok, _ := limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestLocalLimiter_ZeroRateDisables(t *testing.T) {
	limiter := NewLocalLimiter(0, 0)

	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(context.Background(), "a")
		assert.NoError(t, err)
		assert.True(t, ok)
	}
}
