// Package ratelimit throttles requests per client key.
package ratelimit

import "context"

// Limiter decides whether one more request for key fits the quota.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}
