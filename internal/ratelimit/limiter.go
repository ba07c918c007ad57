// Package ratelimit guards the verification endpoints with a per-client
// sliding window.
package ratelimit

import (
	"context"
	"time"
)

// Result reports a single admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store decides whether a request under the given key may proceed, using a
// sliding window over the last `window` of requests.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
