// Package checker orchestrates a single compliance check: locate manifest
// files, extract dependency names, resolve each dependency's license from
// its registry, and classify the license against a policy.
//
// Dependencies are processed strictly sequentially, so the result order is
// deterministic: records appear in extraction order, manifest by manifest.
// A failed license lookup never fails the check; it degrades into the
// [LicenseLookupFailed] sentinel so the caller still receives a complete
// dependency list.
package checker

import (
	"context"
	"time"

	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/manifest"
	"github.com/matzehuels/licensegate/pkg/observability"
	"github.com/matzehuels/licensegate/pkg/policy"
	"github.com/matzehuels/licensegate/pkg/source"
)

// LicenseLookupFailed is the sentinel license recorded when a registry
// lookup fails. It is a value in the report, not an error: per-dependency
// failures must not abort the check.
const LicenseLookupFailed = "Error fetching license"

// Record is the compliance verdict for one dependency.
// Records are immutable once created.
type Record struct {
	Dependency string        `json:"dependency"`
	License    string        `json:"license"`
	Status     policy.Status `json:"status"`
}

// Request describes one compliance check. RepoURL takes precedence over
// Upload when both are set. Policy selects a named policy; unknown or
// empty names fall back to the default policy.
type Request struct {
	RepoURL string
	Upload  *source.Upload
	Policy  string
}

// LicenseResolver resolves a package name to a license identifier.
// Implemented by the pypi and npm clients.
type LicenseResolver interface {
	FetchLicense(ctx context.Context, pkg string, refresh bool) (string, error)
}

// Checker runs compliance checks. It carries its own policy set and
// resolvers, so no global state is involved; construct one per process
// and share it across requests.
type Checker struct {
	policies  *policy.Set
	resolvers map[manifest.Kind]LicenseResolver
	locator   *source.Locator
	refresh   bool
	logf      func(string, ...any)
}

// Option configures a Checker.
type Option func(*Checker)

// WithLocator sets the repository locator. Mostly useful in tests.
func WithLocator(l *source.Locator) Option {
	return func(c *Checker) { c.locator = l }
}

// WithRefresh makes every license lookup bypass the response cache.
func WithRefresh(refresh bool) Option {
	return func(c *Checker) { c.refresh = refresh }
}

// WithLogf installs a progress/debug logging callback.
func WithLogf(fn func(string, ...any)) Option {
	return func(c *Checker) {
		if fn != nil {
			c.logf = fn
		}
	}
}

// New creates a Checker with the given policy set and per-ecosystem
// license resolvers.
func New(policies *policy.Set, resolvers map[manifest.Kind]LicenseResolver, opts ...Option) *Checker {
	c := &Checker{
		policies:  policies,
		resolvers: resolvers,
		locator:   source.NewLocator(nil),
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs one compliance check and returns the dependency records in
// extraction order. Caller-input errors (no input, bad encoding,
// unsupported file, malformed manifest) and repository errors abort the
// check with no partial results.
func (c *Checker) Check(ctx context.Context, req Request) ([]Record, error) {
	src := requestSource(req)
	start := time.Now()
	observability.Check().OnCheckStart(ctx, src)

	records, err := c.check(ctx, req)
	observability.Check().OnCheckComplete(ctx, src, len(records), time.Since(start), err)
	return records, err
}

func (c *Checker) check(ctx context.Context, req Request) ([]Record, error) {
	files, err := c.locate(ctx, req)
	if err != nil {
		return nil, err
	}

	pol, exact := c.policies.Get(req.Policy)
	if !exact && req.Policy != "" {
		c.logf("policy %q not found, using %q", req.Policy, pol.Name)
	}

	records := []Record{}
	for _, file := range files {
		fileRecords, err := c.checkManifest(ctx, file, pol)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func (c *Checker) locate(ctx context.Context, req Request) ([]source.ManifestFile, error) {
	switch {
	case req.RepoURL != "":
		return c.locator.FromRepository(ctx, req.RepoURL)
	case req.Upload != nil:
		file, err := source.FromUpload(*req.Upload)
		if err != nil {
			return nil, err
		}
		return []source.ManifestFile{file}, nil
	default:
		return nil, errors.New(errors.ErrCodeNoInput, "no manifest file or repository provided")
	}
}

// checkManifest parses one manifest and resolves every extracted
// dependency in file order.
func (c *Checker) checkManifest(ctx context.Context, file source.ManifestFile, pol policy.Policy) ([]Record, error) {
	parser, ok := manifest.ParserFor(file.Kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedFile, "unsupported manifest kind %q", file.Kind)
	}

	packages, err := parser.Parse(file.Content)
	if err != nil {
		return nil, err
	}
	c.logf("found %d dependencies in %s", len(packages), file.Path)

	records := make([]Record, 0, len(packages))
	for _, pkg := range packages {
		license := c.resolveLicense(ctx, file.Kind, pkg)
		records = append(records, Record{
			Dependency: pkg,
			License:    license,
			Status:     policy.Classify(license, pol),
		})
	}
	return records, nil
}

// resolveLicense looks up one dependency's license, mapping any lookup
// failure to the sentinel value.
func (c *Checker) resolveLicense(ctx context.Context, kind manifest.Kind, pkg string) string {
	resolver, ok := c.resolvers[kind]
	if !ok {
		c.logf("no resolver for %s, marking %s for review", kind, pkg)
		return LicenseLookupFailed
	}

	start := time.Now()
	license, err := resolver.FetchLicense(ctx, pkg, c.refresh)
	observability.Check().OnLicenseResolved(ctx, kind.Ecosystem(), pkg, license, time.Since(start), err)
	if err != nil {
		c.logf("license lookup failed for %s: %v", pkg, err)
		return LicenseLookupFailed
	}
	return license
}

func requestSource(req Request) string {
	if req.RepoURL != "" {
		return req.RepoURL
	}
	if req.Upload != nil {
		return req.Upload.Filename
	}
	return ""
}
