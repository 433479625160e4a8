package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/licensegate/pkg/errors"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// urlPrefixes are stripped from repository references before parsing.
var urlPrefixes = []string{
	"https://github.com/",
	"http://github.com/",
	"github.com/",
}

// ParseRepoRef parses a repository reference into owner and repo.
// Accepted forms: a full GitHub URL ("https://github.com/owner/repo"),
// a host-prefixed path ("github.com/owner/repo"), or a bare "owner/repo".
// A trailing ".git" or slash is ignored.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	ref = strings.TrimSpace(ref)
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(ref, prefix) {
			ref = strings.TrimPrefix(ref, prefix)
			break
		}
	}
	ref = strings.TrimSuffix(strings.TrimSuffix(ref, "/"), ".git")

	parts := strings.Split(ref, "/")
	if len(parts) != 2 {
		return "", "", errors.New(errors.ErrCodeInvalidInput,
			"invalid repository reference %q: use owner/repo or a GitHub URL", ref)
	}
	owner, repo = parts[0], parts[1]
	if !validOwner.MatchString(owner) {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "invalid repository owner %q", owner)
	}
	if !validRepo.MatchString(repo) {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "invalid repository name %q", repo)
	}
	return owner, repo, nil
}
