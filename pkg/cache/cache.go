// Package cache provides pluggable byte-level caching for registry responses.
//
// Three backends are available:
//   - [FileCache]: filesystem storage for CLI usage
//   - [RedisCache]: shared storage for server deployments
//   - [NullCache]: no-op backend that disables caching
//
// Keys are opaque strings; callers namespace them (e.g., "pypi:flask").
// Values are JSON blobs produced by the integrations layer.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores byte values under string keys with optional expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
