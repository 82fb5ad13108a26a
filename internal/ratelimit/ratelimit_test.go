package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	limiter, err := NewFixedWindowLimiter(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:ratelimit", limit, time.Second)
	require.NoError(t, err)
	return limiter, mr
}

func TestFixedWindowLimiter(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newRedisLimiter(t, 2)
	limiter.now = func() time.Time { return time.UnixMilli(10_000) }

	assert.True(t, limiter.Allow(ctx, "ip-1"))
	assert.True(t, limiter.Allow(ctx, "ip-1"))
	assert.False(t, limiter.Allow(ctx, "ip-1"), "third request in the window")
	assert.True(t, limiter.Allow(ctx, "ip-2"), "keys are independent")

	limiter.now = func() time.Time { return time.UnixMilli(11_000) }
	assert.True(t, limiter.Allow(ctx, "ip-1"), "next window")
}

func TestFixedWindowLimiter_FailClosed(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1)
	mr.Close()

	assert.False(t, limiter.Allow(context.Background(), "ip-1"))
}

func TestFixedWindowLimiter_Validation(t *testing.T) {
	_, err := NewFixedWindowLimiter(nil, "", 1, time.Second)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	_, err = NewFixedWindowLimiter(client, "", 0, time.Second)
	assert.Error(t, err)
	_, err = NewFixedWindowLimiter(client, "", 1, 0)
	assert.Error(t, err)
}

func TestLocalLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLocalLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "ip-1"))
	}
	assert.False(t, limiter.Allow(ctx, "ip-1"))
	assert.True(t, limiter.Allow(ctx, "ip-2"))

	now = now.Add(20 * time.Second)
	assert.True(t, limiter.Allow(ctx, "ip-1"), "one token refilled")
	assert.False(t, limiter.Allow(ctx, "ip-1"))
}

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLocalLimiter(1, time.Second)
	limiter.now = func() time.Time { return now }

	limiter.Allow(ctx, "a")
	limiter.Allow(ctx, "b")
	require.Equal(t, 2, limiter.Len())

	now = now.Add(time.Minute)
	limiter.Allow(ctx, "c")
	assert.Equal(t, 1, limiter.Len())
}
