package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral counters shared by the HTTP layer.
// Implementations: Redis (multi-instance) or in-memory (single instance / dev).
type StateStore interface {
	// Incr increments the counter at key and returns the new value. The ttl
	// is applied when the counter is created and never extended.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// TTL returns the remaining lifetime of key, or 0 when it has none.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
