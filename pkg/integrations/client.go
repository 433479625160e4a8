package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/observability"
)

// Client provides shared HTTP functionality for all registry API clients.
// It handles response caching, common request headers, and observability
// events. Registry calls are not retried; a lookup failure degrades into a
// per-dependency sentinel upstream, so a retry would only slow the request.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
	logf    func(string, ...any)
}

// NewClient creates a Client backed by the given cache.
// The prefix namespaces cache keys (e.g., "pypi:"); ttl controls how long
// responses stay cached. Pass nil headers if no defaults are needed.
func NewClient(backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   backend,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
		logf:    func(string, ...any) {},
	}
}

// SetLogf installs a progress/debug logging callback.
// The callback receives the attempted URL before each outgoing request.
func (c *Client) SetLogf(fn func(string, ...any)) {
	if fn != nil {
		c.logf = fn
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used in tests to point
// the client at an httptest server.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.prefix + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, fullKey); ok {
			if err := json.Unmarshal(data, v); err == nil {
				observability.Cache().OnCacheHit(ctx, c.prefix)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, c.prefix)
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, fullKey, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, c.prefix, len(data))
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetBytes performs an HTTP GET request and returns the raw response body.
// Useful for non-JSON endpoints like archive downloads.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	c.logf("fetching %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, ""
	}
	return u.Host, u.Path
}
