package policy

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/licensegate/pkg/errors"
)

// policyFile is the on-disk TOML layout:
//
//	[policies.default]
//	allowed = ["MIT", "Apache-2.0"]
//	disallowed = ["GPL-3.0"]
//
//	[policies.strict]
//	allowed = ["MIT"]
//	disallowed = ["GPL-2.0", "GPL-3.0", "AGPL-3.0", "LGPL-3.0"]
type policyFile struct {
	Policies map[string]policyEntry `toml:"policies"`
}

type policyEntry struct {
	Allowed    []string `toml:"allowed"`
	Disallowed []string `toml:"disallowed"`
}

// LoadFile reads a policy set from a TOML file and merges it over the
// built-in default. A file that redefines "default" replaces the built-in.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read policy file %s", path)
	}
	return Load(data)
}

// Load parses a TOML policy document. See [LoadFile] for the layout.
func Load(data []byte) (*Set, error) {
	var file policyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse policy file")
	}

	policies := make([]Policy, 0, len(file.Policies))
	for name, entry := range file.Policies {
		policies = append(policies, Policy{
			Name:       name,
			Allowed:    entry.Allowed,
			Disallowed: entry.Disallowed,
		})
	}
	return NewSet(policies...), nil
}
