// Package pypi provides a client for the PyPI JSON API.
//
// Only the license-relevant slice of the API response is consumed:
// info.license and info.classifiers. See https://docs.pypi.org/api/json/.
package pypi
