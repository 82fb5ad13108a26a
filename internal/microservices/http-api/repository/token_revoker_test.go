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

func TestRedisTokenRevoker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	revoker := NewRedisTokenRevoker(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry expires with the token")
}

func TestRedisTokenRevoker_ExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	revoker := NewRedisTokenRevoker(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	require.NoError(t, revoker.Revoke(ctx, "jti-2", 0))
	assert.Empty(t, mr.Keys())

	assert.Error(t, revoker.Revoke(ctx, "", time.Minute))
}

func TestRedisTokenRevoker_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	revoker := NewRedisTokenRevoker(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	_, err := revoker.IsRevoked(context.Background(), "jti-3")
	assert.Error(t, err)
}

func TestNoopTokenRevoker(t *testing.T) {
	revoker := NewNoopTokenRevoker()
	require.NoError(t, revoker.Revoke(context.Background(), "jti", time.Minute))

	revoked, err := revoker.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
