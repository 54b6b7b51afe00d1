// Package cache stores rendered snapshots and artifacts.
//
// Simulating a showcase for a few hundred frames and rasterizing it is cheap
// but not free, and the static endpoints of the preview server serve the same
// seeded snapshot over and over. The pipeline therefore caches two levels of
// output:
//
//  1. Snapshot: the JSON frame after N steps, keyed by the resolved engine
//     config (labels, palette, size, params, seed, steps).
//  2. Artifact: a rendered format (svg, png, dot), keyed by the snapshot
//     hash plus the render options.
//
// Only seeded runs are cached; an unseeded run is not reproducible.
//
// # Backends
//
//   - [NullCache]: caches nothing (--no-cache)
//   - [MemoryCache]: bounded in-process map, the server default
//   - [FileCache]: one JSON file per entry under the user cache dir, the CLI
//     default
//   - [RedisCache]: shared cache for multi-instance servers (REDIS_URL)
//
// Keys come from a [Keyer]; wrap it in a [ScopedKeyer] to namespace a
// deployment.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLSnapshot = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
