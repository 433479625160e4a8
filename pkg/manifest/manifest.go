// Package manifest extracts dependency names from manifest file content.
//
// Two manifest kinds are supported: Python requirements.txt and Node
// package.json. Kind detection goes strictly by filename suffix, so
// "backend/requirements.txt" and "dev-requirements.txt" both count as
// Python requirements.
//
// Parsers work on raw content rather than file paths because content may
// come from an upload or a repository archive entry, not just the local
// filesystem.
package manifest

import (
	"strings"

	"github.com/matzehuels/licensegate/pkg/errors"
)

// Kind identifies a supported manifest format.
type Kind string

const (
	// PythonRequirements is a line-oriented requirements.txt file.
	PythonRequirements Kind = "requirements.txt"

	// NodePackageJSON is a package.json file with dependencies /
	// devDependencies maps.
	NodePackageJSON Kind = "package.json"
)

// Ecosystem returns the package ecosystem the kind belongs to.
func (k Kind) Ecosystem() string {
	switch k {
	case PythonRequirements:
		return "python"
	case NodePackageJSON:
		return "node"
	}
	return ""
}

// Parser extracts dependency names from manifest content.
type Parser interface {
	// Kind returns the manifest kind this parser handles.
	Kind() Kind
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Parse extracts dependency names from raw manifest content.
	Parse(content string) ([]string, error)
}

// Parsers returns all supported manifest parsers.
func Parsers() []Parser {
	return []Parser{&Requirements{}, &PackageJSON{}}
}

// Detect finds the parser whose filename suffix matches name.
// Returns an UNSUPPORTED_FILE_TYPE error when no parser matches.
func Detect(name string) (Parser, error) {
	for _, p := range Parsers() {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupportedFile,
		"unsupported file type %q: expected requirements.txt or package.json", name)
}

// ParserFor returns the parser for an already-detected kind.
func ParserFor(kind Kind) (Parser, bool) {
	for _, p := range Parsers() {
		if p.Kind() == kind {
			return p, true
		}
	}
	return nil, false
}

// Supported reports whether any parser handles the given filename.
func Supported(name string) bool {
	for _, p := range Parsers() {
		if p.Supports(name) {
			return true
		}
	}
	return false
}

// suffixMatch reports whether name ends with suffix as a path component
// ("requirements.txt", "app/requirements.txt") or as a plain suffix
// ("dev-requirements.txt"), mirroring the upload and archive-scan rules.
func suffixMatch(name, suffix string) bool {
	return strings.HasSuffix(name, suffix)
}
