package cache

import (
	"context"
	"time"
)

// Cache is the contract for the shared cache layer. Implementations must be
// safe for concurrent use; the default implementation is Redis.
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// found=false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire resets the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Keys lists keys matching a glob pattern. Used by the sweep job only;
	// not for request-path code.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
