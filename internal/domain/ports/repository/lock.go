package repository

import (
	"context"
	"time"
)

// Locker serializes critical sections keyed by name. Reconciliation takes a
// per-order lock so duplicate callback deliveries cannot race the status
// check.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
