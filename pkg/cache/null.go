package cache

import (
	"context"
	"time"
)

// NullCache is a no-op cache that never stores anything.
// Useful for tests or the --refresh-only path where caching is disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always reports a miss.
func (*NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (*NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (*NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close does nothing.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
