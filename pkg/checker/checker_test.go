package checker

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/manifest"
	"github.com/matzehuels/licensegate/pkg/policy"
	"github.com/matzehuels/licensegate/pkg/source"
)

// fakeResolver returns canned licenses per package name and records the
// lookup order.
type fakeResolver struct {
	licenses map[string]string
	errs     map[string]error
	calls    []string
}

func (f *fakeResolver) FetchLicense(ctx context.Context, pkg string, refresh bool) (string, error) {
	f.calls = append(f.calls, pkg)
	if err, ok := f.errs[pkg]; ok {
		return "", err
	}
	if license, ok := f.licenses[pkg]; ok {
		return license, nil
	}
	return "Unknown", nil
}

func newTestChecker(py, js *fakeResolver, opts ...Option) *Checker {
	resolvers := map[manifest.Kind]LicenseResolver{}
	if py != nil {
		resolvers[manifest.PythonRequirements] = py
	}
	if js != nil {
		resolvers[manifest.NodePackageJSON] = js
	}
	return New(policy.NewSet(), resolvers, opts...)
}

func TestCheckUploadEndToEnd(t *testing.T) {
	py := &fakeResolver{licenses: map[string]string{
		"flask":   "MIT",
		"pygpl":   "GPL-3.0",
		"dualpkg": "(MIT OR Apache-2.0)",
	}}
	c := newTestChecker(py, nil)

	records, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{
			Filename: "requirements.txt",
			Data:     []byte("flask==2.0.1\npygpl\ndualpkg>=1\n"),
		},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	want := []Record{
		{Dependency: "flask", License: "MIT", Status: policy.StatusCompliant},
		{Dependency: "pygpl", License: "GPL-3.0", Status: policy.StatusNonCompliant},
		{Dependency: "dualpkg", License: "(MIT OR Apache-2.0)", Status: policy.StatusReviewRequired},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, rec := range records {
		if rec != want[i] {
			t.Errorf("record[%d] = %+v, want %+v", i, rec, want[i])
		}
	}
}

func TestCheckLookupFailureIsSoft(t *testing.T) {
	py := &fakeResolver{
		licenses: map[string]string{"flask": "MIT"},
		errs:     map[string]error{"ghost": fmt.Errorf("network down")},
	}
	c := newTestChecker(py, nil)

	records, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "requirements.txt", Data: []byte("flask\nghost\n")},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].License != LicenseLookupFailed {
		t.Errorf("license = %q, want %q", records[1].License, LicenseLookupFailed)
	}
	if records[1].Status != policy.StatusReviewRequired {
		t.Errorf("status = %q, want review-required", records[1].Status)
	}
}

func TestCheckNoInput(t *testing.T) {
	c := newTestChecker(&fakeResolver{}, nil)

	_, err := c.Check(context.Background(), Request{})
	if !errors.Is(err, errors.ErrCodeNoInput) {
		t.Errorf("error code = %q, want NO_INPUT", errors.GetCode(err))
	}
}

func TestCheckUnsupportedFileNoLookups(t *testing.T) {
	py := &fakeResolver{}
	c := newTestChecker(py, nil)

	_, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "Gemfile", Data: []byte("gem 'rails'\n")},
	})
	if !errors.Is(err, errors.ErrCodeUnsupportedFile) {
		t.Errorf("error code = %q, want UNSUPPORTED_FILE_TYPE", errors.GetCode(err))
	}
	if len(py.calls) != 0 {
		t.Errorf("resolver called %d times, want 0", len(py.calls))
	}
}

func TestCheckInvalidManifestAborts(t *testing.T) {
	js := &fakeResolver{}
	c := newTestChecker(nil, js)

	_, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "package.json", Data: []byte(`{"dependencies":`)},
	})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("error code = %q, want INVALID_MANIFEST", errors.GetCode(err))
	}
	if len(js.calls) != 0 {
		t.Errorf("resolver called %d times, want 0", len(js.calls))
	}
}

func TestCheckUnknownPolicyFallsBack(t *testing.T) {
	py := &fakeResolver{licenses: map[string]string{"flask": "MIT"}}
	c := newTestChecker(py, nil)

	records, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "requirements.txt", Data: []byte("flask\n")},
		Policy: "no-such-policy",
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	// Default policy applies: MIT is compliant.
	if records[0].Status != policy.StatusCompliant {
		t.Errorf("status = %q, want compliant", records[0].Status)
	}
}

// fakeArchive serves a canned zip for repository-mode tests.
type fakeArchive struct {
	data []byte
}

func (f *fakeArchive) Download(ctx context.Context, owner, repo string) ([]byte, error) {
	return f.data, nil
}

func buildZip(t *testing.T, entries [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(e[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCheckRepositoryMode(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"repo-main/requirements.txt", "flask\n"},
		{"repo-main/web/package.json", `{"dependencies":{"react":"18"}}`},
	})
	py := &fakeResolver{licenses: map[string]string{"flask": "MIT"}}
	js := &fakeResolver{licenses: map[string]string{"react": "MIT"}}

	c := newTestChecker(py, js, WithLocator(source.NewLocator(&fakeArchive{data: data})))

	records, err := c.Check(context.Background(), Request{RepoURL: "https://github.com/owner/repo"})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Records follow archive order: python manifest first, then node.
	if records[0].Dependency != "flask" || records[1].Dependency != "react" {
		t.Errorf("records = %+v", records)
	}
}

func TestCheckRepoURLTakesPrecedence(t *testing.T) {
	data := buildZip(t, [][2]string{{"repo-main/requirements.txt", "django\n"}})
	py := &fakeResolver{licenses: map[string]string{"django": "BSD-3-Clause"}}

	c := newTestChecker(py, nil, WithLocator(source.NewLocator(&fakeArchive{data: data})))

	records, err := c.Check(context.Background(), Request{
		RepoURL: "owner/repo",
		Upload:  &source.Upload{Filename: "requirements.txt", Data: []byte("flask\n")},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(records) != 1 || records[0].Dependency != "django" {
		t.Errorf("records = %+v, want the repository's dependency list", records)
	}
}

func TestCheckMissingResolverDegrades(t *testing.T) {
	// A manifest kind with no configured resolver yields sentinel records
	// rather than an error.
	c := newTestChecker(nil, nil)

	records, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "requirements.txt", Data: []byte("flask\n")},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if records[0].License != LicenseLookupFailed {
		t.Errorf("license = %q, want %q", records[0].License, LicenseLookupFailed)
	}
}

func TestCheckEmptyManifest(t *testing.T) {
	c := newTestChecker(&fakeResolver{}, nil)

	records, err := c.Check(context.Background(), Request{
		Upload: &source.Upload{Filename: "requirements.txt", Data: []byte("# only comments\n\n")},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
