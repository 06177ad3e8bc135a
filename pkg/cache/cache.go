// Package cache stores generated placement sets and previews between runs.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one JSON entry per key under a local directory
//   - [RedisCache] shares entries between processes through Redis
//
// Keys are produced by a [Keyer] so every backend sees the same key space.
// A placement key hashes the seed together with the resolved placement
// options, which means any change to a tunable produces a fresh entry.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries. A placement is a pure function of its key, so
// entries only expire to keep the cache directory bounded.
const (
	TTLPlacement = 30 * 24 * time.Hour
	TTLPreview   = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held connections.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// PlacementKey returns the key of the placement set generated from seed
	// with the given resolved options.
	PlacementKey(seed uint64, options any) string

	// PreviewKey returns the key of a rendered preview of the set whose
	// content hash is setHash.
	PreviewKey(setHash, format string) string
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlacementKey implements Keyer.
func (DefaultKeyer) PlacementKey(seed uint64, options any) string {
	return hashKey("placement", seed, options)
}

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(setHash, format string) string {
	return hashKey("preview", setHash, format)
}
