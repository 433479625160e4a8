// Package integrations provides HTTP clients for external registries.
//
// Each registry has its own subpackage built on the shared [Client]:
//
//   - [pypi]: PyPI JSON API (Python package licenses)
//   - [npm]: npm registry API (Node package licenses)
//   - [github]: repository snapshot downloads
//
// The shared client handles response caching, default headers, and
// observability events. Lookup failures surface as [ErrNotFound] or
// [ErrNetwork]; callers decide whether a failure is fatal (archive
// downloads) or soft (per-dependency license lookups).
//
// [pypi]: https://pkg.go.dev/github.com/matzehuels/licensegate/pkg/integrations/pypi
// [npm]: https://pkg.go.dev/github.com/matzehuels/licensegate/pkg/integrations/npm
// [github]: https://pkg.go.dev/github.com/matzehuels/licensegate/pkg/integrations/github
package integrations
