// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about compliance checks, cache operations,
// and registry API calls.
//
// The package uses a simple hooks pattern: interfaces per event category,
// no-op default implementations, and a global registry populated by main.
// Libraries emit events without knowing what backend consumes them:
//
//	observability.Check().OnCheckStart(ctx, source)
//	// ... run the check ...
//	observability.Check().OnCheckComplete(ctx, source, len(records), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// CheckHooks receives events from the compliance-check pipeline.
type CheckHooks interface {
	// OnCheckStart records the beginning of a compliance check.
	// Source is the uploaded filename or repository reference.
	OnCheckStart(ctx context.Context, source string)

	// OnLicenseResolved records a single dependency lookup, including
	// soft failures (err is non-nil, license holds the sentinel).
	OnLicenseResolved(ctx context.Context, ecosystem, pkg, license string, duration time.Duration, err error)

	// OnCheckComplete records the end of a check with the record count.
	OnCheckComplete(ctx context.Context, source string, records int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopCheckHooks is a no-op implementation of CheckHooks.
type NoopCheckHooks struct{}

func (NoopCheckHooks) OnCheckStart(context.Context, string) {}
func (NoopCheckHooks) OnLicenseResolved(context.Context, string, string, string, time.Duration, error) {
}
func (NoopCheckHooks) OnCheckComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	checkHooks CheckHooks = NoopCheckHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetCheckHooks registers custom check hooks.
// This should be called once at application startup.
func SetCheckHooks(h CheckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		checkHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Check returns the registered check hooks.
func Check() CheckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return checkHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	checkHooks = NoopCheckHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
