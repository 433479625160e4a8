// Package github downloads repository snapshots for manifest scanning.
//
// Snapshots are fetched as zip archives from codeload.github.com. The
// default branch is not looked up via the API; the client tries "main"
// first and falls back to "master" once, which covers the overwhelming
// majority of public repositories.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/observability"
)

// archiveTimeout bounds a snapshot download. Larger than the registry
// timeout because archives can run to tens of megabytes.
const archiveTimeout = 30 * time.Second

// branches tried in order when downloading a snapshot.
var branches = []string{"main", "master"}

// ArchiveClient downloads repository snapshot archives.
type ArchiveClient struct {
	http    *http.Client
	baseURL string
	logf    func(string, ...any)
}

// NewArchiveClient creates a snapshot download client.
func NewArchiveClient() *ArchiveClient {
	return &ArchiveClient{
		http:    &http.Client{Timeout: archiveTimeout},
		baseURL: "https://codeload.github.com",
		logf:    func(string, ...any) {},
	}
}

// SetBaseURL points the client at a different archive host.
// Used in tests to target an httptest server.
func (c *ArchiveClient) SetBaseURL(u string) { c.baseURL = u }

// SetHTTPClient replaces the underlying HTTP client.
func (c *ArchiveClient) SetHTTPClient(h *http.Client) { c.http = h }

// SetLogf installs a progress/debug logging callback.
func (c *ArchiveClient) SetLogf(fn func(string, ...any)) {
	if fn != nil {
		c.logf = fn
	}
}

// Download fetches a zip snapshot of the repository's default branch.
// It tries "main" and then "master"; when neither branch is reachable it
// returns a REPOSITORY_UNAVAILABLE error.
func (c *ArchiveClient) Download(ctx context.Context, owner, repo string) ([]byte, error) {
	var lastErr error
	for _, branch := range branches {
		data, err := c.fetchBranch(ctx, owner, repo, branch)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, errors.Wrap(errors.ErrCodeRepoUnavailable, lastErr,
		"repository %s/%s has no reachable main or master branch", owner, repo)
}

func (c *ArchiveClient) fetchBranch(ctx context.Context, owner, repo, branch string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/zip/refs/heads/%s", c.baseURL, owner, repo, branch)
	c.logf("fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, "codeload.github.com", req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, "codeload.github.com", req.URL.Path, err)
		return nil, err
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, "codeload.github.com", req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("branch %s: status %d", branch, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
