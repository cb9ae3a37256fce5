package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards client-supplied request keys so a retried
// request is not applied twice.
type IdempotencyStore interface {
	// Reserve claims the key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
