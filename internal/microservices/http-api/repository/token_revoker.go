package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker remembers access tokens that were logged out before expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenRevoker struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenRevoker stores revoked token ids as expiring keys.
func NewRedisTokenRevoker(client *redis.Client) TokenRevoker {
	return &redisTokenRevoker{client: client, prefix: "studymate:revoked"}
}

func (r *redisTokenRevoker) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, tokenID)
}

// Revoke marks the token id until ttl elapses, after which the token has
// expired anyway.
func (r *redisTokenRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), 1, ttl).Err()
}

func (r *redisTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// noopTokenRevoker is used when Redis is not configured; logout then only
// discards the token client side.
type noopTokenRevoker struct{}

func NewNoopTokenRevoker() TokenRevoker {
	return noopTokenRevoker{}
}

func (noopTokenRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (noopTokenRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
