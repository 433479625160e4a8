package pypi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/integrations"
)

// Client provides access to the PyPI package registry API.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
// Pass a [cache.NullCache] to disable response caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// SetBaseURL points the client at a different registry endpoint.
// Used in tests to target an httptest server.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// FetchLicense retrieves the license identifier for a Python package.
//
// The primary source is info.license. When that field is empty or holds the
// registry's literal "UNKNOWN" placeholder, the trove classifiers are
// scanned for the first "License ::" entry and its last segment is used.
// If neither yields anything, [integrations.LicenseUnknown] is returned.
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
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		return "", err
	}
	return extractLicense(data.Info.License, data.Info.Classifiers), nil
}

// extractLicense applies the license-field-then-classifiers fallback.
func extractLicense(license string, classifiers []string) string {
	if license == "" || strings.TrimSpace(license) == "UNKNOWN" {
		for _, c := range classifiers {
			if strings.Contains(c, "License ::") {
				parts := strings.Split(c, "::")
				license = strings.TrimSpace(parts[len(parts)-1])
				break
			}
		}
	}
	if license == "" {
		return integrations.LicenseUnknown
	}
	return license
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	License     string   `json:"license"`
	Classifiers []string `json:"classifiers"`
}
