// Package lock provides the exclusive sections used around quota checks and
// remote commands: a Redis token lock, and a table-backed lock for deployments
// without Redis. Both hold across processes sharing the store.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken within the wait timeout.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker runs fn while holding the lock named key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
