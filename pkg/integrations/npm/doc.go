// Package npm provides a client for the npm registry API.
//
// Only the top-level license field of the packument is consumed. It may be
// a plain SPDX string or a legacy object with a "type" field.
package npm
