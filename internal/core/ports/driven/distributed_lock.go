package driven

import (
	"context"
	"time"
)

// DistributedLock guards the persisted index location so only one
// ingest run writes to it at a time.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if the lock was successfully acquired, false if
	// already held by another instance. The lock expires after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Safe to call even if the lock is
	// not held or has already expired.
	Release(ctx context.Context, name string) error
}
