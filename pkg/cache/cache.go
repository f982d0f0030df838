// Package cache memoizes layout results outside the layout engine.
//
// The engine in pkg/layout is stateless: the same item set always yields the
// same layout, and nothing is remembered between calls. Callers that lay out
// the same graph repeatedly keep results here, keyed by a content hash of the
// input, and invalidate entries explicitly.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [MongoCache]: shared cache with a TTL index
//
// All backends implement [Cache]. Expired entries are reported as misses.
//
// # Keys
//
// A [Keyer] derives keys from a content hash and the options that influence
// the cached value:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(itemsJSON), cache.LayoutKeyOpts{MaxWidth: 10})
//	// layout:3f2a...
//
// Use [NewScopedKeyer] to give environments or tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
