package manifest

import (
	"encoding/json"

	"github.com/matzehuels/licensegate/pkg/errors"
)

// PackageJSON parses Node package.json content. It extracts the key sets of
// dependencies and devDependencies; a name declared in both appears once.
type PackageJSON struct{}

func (*PackageJSON) Kind() Kind { return NodePackageJSON }

func (*PackageJSON) Supports(name string) bool {
	return suffixMatch(name, "package.json")
}

// Parse extracts dependency names from package.json content.
// Returns an INVALID_MANIFEST error when the content is not valid JSON.
func (*PackageJSON) Parse(content string) ([]string, error) {
	var file packageFile
	if err := json.Unmarshal([]byte(content), &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid package.json")
	}

	merged := make(map[string]string, len(file.Dependencies)+len(file.DevDependencies))
	for name, version := range file.Dependencies {
		merged[name] = version
	}
	for name, version := range file.DevDependencies {
		merged[name] = version
	}

	packages := make([]string, 0, len(merged))
	for name := range merged {
		packages = append(packages, name)
	}
	return packages, nil
}

type packageFile struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}
