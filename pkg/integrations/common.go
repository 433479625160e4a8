package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// LicenseUnknown is the sentinel returned when a registry has no usable
// license information for a package. It flows through classification like
// any other license string and ends up review-required.
const LicenseUnknown = "Unknown"

// NewHTTPClient creates an HTTP client with the standard 10s timeout for
// registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName trims surrounding whitespace from a package name.
// Registry lookups are otherwise done with the name exactly as declared
// in the manifest; the report should mirror the file.
func NormalizePkgName(name string) string {
	return strings.TrimSpace(name)
}
