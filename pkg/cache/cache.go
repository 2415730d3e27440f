// Package cache memoizes per-file reference sets between runs.
//
// Extracting references means parsing every Rust source file of every
// workspace member. Most files do not change between two runs, so the
// result of each extraction is stored under a key derived from the file's
// content hash and the extractor's version. Editing a file, or upgrading the
// extractor, changes the key and the stale entry simply expires.
//
// # Implementations
//
//   - [FileCache]: JSON entries on disk, one file per key
//   - [NullCache]: never stores anything (used for --no-cache)
//
// # Keys
//
// [Keyer] builds keys; [NewDefaultKeyer] is the only implementation.
//
//	k := cache.NewDefaultKeyer()
//	key := k.ReferencesKey(extractor.Version(), cache.Hash(src))
package cache

import (
	"context"
	"time"
)

// TTLReferences is how long a file's reference set stays cached.
const TTLReferences = 7 * 24 * time.Hour

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ReferencesKey identifies the reference set extracted from a file
	// whose content hashes to contentHash.
	ReferencesKey(extractor, contentHash string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReferencesKey returns "refs:<sha256>" over the extractor version and the
// content hash.
func (DefaultKeyer) ReferencesKey(extractor, contentHash string) string {
	return hashKey("refs", extractor, contentHash)
}
