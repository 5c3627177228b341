// Package cache provides pluggable byte caches for query responses and
// rendered artifacts.
//
// Three backends are available:
//   - [FileCache]: file-based, for CLI usage
//   - [RedisCache]: Redis-backed, for the serve mode behind multiple
//     instances
//   - [NullCache]: no-op, for tests and --no-cache
//
// Keys are content-addressed: [QueryKey] and [ArtifactKey] hash their
// inputs with SHA-256 so that any change to the query, records, palette,
// or layout produces a distinct key.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
