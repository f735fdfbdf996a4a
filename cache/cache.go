// Package cache provides content-addressed storage for encoded images.
//
// Keys are digests computed by the caller over everything that determines
// the stored value. A key therefore names exactly one value, and a hit can
// be used without further checks.
package cache

import "github.com/opencontainers/go-digest"

// Cache stores byte values by digest.
//
// Implementations should handle their own size limits and eviction policies.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key.
	// Returns nil, false if nothing is cached.
	Get(key digest.Digest) ([]byte, bool)

	// Put stores data under key. Storing an existing key is a no-op.
	Put(key digest.Digest, data []byte) error

	// Delete removes the value stored under key.
	// Implementations should treat missing entries as a no-op.
	Delete(key digest.Digest) error
}
