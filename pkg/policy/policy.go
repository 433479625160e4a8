// Package policy defines license policies and the compliance classifier.
//
// A policy is a named pair of license-identifier lists: licenses that are
// allowed and licenses that are disallowed. [Classify] checks a license
// string against a policy and returns one of three verdicts. Anything not
// explicitly listed is never assumed compliant.
//
// Matching is exact and case-sensitive; there is no SPDX normalization.
// Compound SPDX expressions ("MIT OR Apache-2.0") are detected heuristically
// and always routed to manual review.
package policy

import (
	"slices"
	"strings"
)

// Status is the compliance verdict for a single dependency.
type Status string

const (
	// StatusCompliant means the license is on the policy's allowed list.
	StatusCompliant Status = "compliant"

	// StatusNonCompliant means the license is on the policy's disallowed list.
	StatusNonCompliant Status = "non-compliant"

	// StatusReviewRequired means the license is unlisted, unknown, or a
	// compound expression that cannot be auto-classified.
	StatusReviewRequired Status = "review-required"
)

// Policy is a named allow/disallow list of license identifiers.
// An identifier should not appear in both lists; if it does, the allowed
// list wins because it is checked first.
type Policy struct {
	Name       string
	Allowed    []string
	Disallowed []string
}

// Classify checks a license string against a policy.
//
// Compound SPDX expressions (detected by a literal " OR " or " AND "
// substring) are never auto-classified, even when one operand is allowed.
// Unlisted licenses, the "Unknown" sentinel, and lookup-failure sentinels
// all fall through to [StatusReviewRequired].
func Classify(license string, p Policy) Status {
	if strings.Contains(license, " OR ") || strings.Contains(license, " AND ") {
		return StatusReviewRequired
	}
	if slices.Contains(p.Allowed, license) {
		return StatusCompliant
	}
	if slices.Contains(p.Disallowed, license) {
		return StatusNonCompliant
	}
	return StatusReviewRequired
}

// DefaultName is the policy used when a requested policy doesn't exist.
const DefaultName = "default"

// Default returns the built-in default policy.
func Default() Policy {
	return Policy{
		Name:       DefaultName,
		Allowed:    []string{"MIT", "Apache-2.0", "BSD-3-Clause", "ISC"},
		Disallowed: []string{"GPL-2.0", "GPL-3.0", "AGPL-3.0"},
	}
}

// Set is an immutable collection of named policies. It always contains a
// policy named "default"; lookups for unknown names fall back to it.
type Set struct {
	policies map[string]Policy
}

// NewSet builds a Set from the given policies. The built-in default is
// included automatically unless one of the policies overrides it.
func NewSet(policies ...Policy) *Set {
	m := map[string]Policy{DefaultName: Default()}
	for _, p := range policies {
		m[p.Name] = p
	}
	return &Set{policies: m}
}

// Get returns the policy with the given name, falling back to the default
// policy when the name is unknown or empty. The second return value reports
// whether the name matched exactly.
func (s *Set) Get(name string) (Policy, bool) {
	if p, ok := s.policies[name]; ok {
		return p, true
	}
	return s.policies[DefaultName], false
}

// Names returns the policy names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.policies))
	for name := range s.policies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
