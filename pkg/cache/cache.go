// Package cache stores rendered report artifacts and recommendation results.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs:
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: process-local map, used by the API without Redis
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//
// Keys are built by a [Keyer] so that every backend sees the same key
// layout; [ScopedKeyer] isolates tenants behind a prefix.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached values.
const (
	// ReportTTL bounds how long a rendered report is served from cache.
	// Studies are immutable, so this only limits storage growth.
	ReportTTL = 24 * time.Hour

	// RecommendationTTL bounds how long a recommendation set is cached.
	RecommendationTTL = time.Hour
)

// Cache is a byte-oriented key/value store with TTLs.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
