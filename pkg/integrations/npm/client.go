package npm

import (
	"context"
	"time"

	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/integrations"
)

// Client provides access to the npm registry API.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", cacheTTL, nil),
		baseURL: "https://registry.npmjs.org",
	}
}

// SetBaseURL points the client at a different registry endpoint.
// Used in tests to target an httptest server.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// FetchLicense retrieves the license identifier for a Node package.
//
// The registry's top-level license field is either a plain SPDX string or a
// legacy object with a "type" field; both forms are handled. An absent or
// empty license yields [integrations.LicenseUnknown].
//
// Returns [integrations.ErrNotFound] for missing packages and
// [integrations.ErrNetwork] for transport or HTTP failures.
func (c *Client) FetchLicense(ctx context.Context, pkg string, refresh bool) (string, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var license string
	err := c.Cached(ctx, pkg, refresh, &license, func() error {
		var err error
		license, err = c.fetch(ctx, pkg)
		return err
	})
	if err != nil {
		return "", err
	}
	return license, nil
}

func (c *Client) fetch(ctx context.Context, pkg string) (string, error) {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+pkg, &data); err != nil {
		return "", err
	}
	if license := licenseString(data.License); license != "" {
		return license, nil
	}
	return integrations.LicenseUnknown, nil
}

// licenseString handles both license field forms: a plain string and the
// legacy {"type": ..., "url": ...} object.
func licenseString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["type"].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name    string `json:"name"`
	License any    `json:"license"`
}
