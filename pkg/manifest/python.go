package manifest

import (
	"bufio"
	"regexp"
	"strings"
)

// depNameRE matches the leading package token of a requirement line, which
// excludes version specifiers, environment markers, and bracketed extras.
var depNameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+`)

// Requirements parses Python requirements.txt content.
//
// Unlike a dependency resolver, it preserves file order and duplicates:
// a compliance report should mirror the file as written.
type Requirements struct{}

func (*Requirements) Kind() Kind { return PythonRequirements }

func (*Requirements) Supports(name string) bool {
	return suffixMatch(name, "requirements.txt")
}

// Parse extracts package names, one per requirement line.
// Blank lines and # comments are skipped.
func (*Requirements) Parse(content string) ([]string, error) {
	packages := []string{}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name := depNameRE.FindString(line); name != "" {
			packages = append(packages, name)
		}
	}
	return packages, scanner.Err()
}
