package source

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/manifest"
)

func TestFromUpload(t *testing.T) {
	mf, err := FromUpload(Upload{
		Filename: "requirements.txt",
		Data:     []byte("flask==2.0.1\n"),
	})
	if err != nil {
		t.Fatalf("FromUpload failed: %v", err)
	}
	if mf.Kind != manifest.PythonRequirements {
		t.Errorf("Kind = %q", mf.Kind)
	}
	if mf.Content != "flask==2.0.1\n" {
		t.Errorf("Content = %q", mf.Content)
	}
}

func TestFromUploadUnsupportedType(t *testing.T) {
	_, err := FromUpload(Upload{Filename: "Gemfile", Data: []byte("gem 'rails'\n")})
	if !errors.Is(err, errors.ErrCodeUnsupportedFile) {
		t.Errorf("error code = %q, want UNSUPPORTED_FILE_TYPE", errors.GetCode(err))
	}
}

func TestFromUploadInvalidEncoding(t *testing.T) {
	_, err := FromUpload(Upload{Filename: "requirements.txt", Data: []byte{0xff, 0xfe, 0x00, 0x80}})
	if !errors.Is(err, errors.ErrCodeInvalidEncoding) {
		t.Errorf("error code = %q, want INVALID_ENCODING", errors.GetCode(err))
	}
}

func TestFromUploadUnsupportedBeforeEncoding(t *testing.T) {
	// An unsupported filename is rejected without inspecting the bytes.
	_, err := FromUpload(Upload{Filename: "binary.dat", Data: []byte{0xff, 0xfe}})
	if !errors.Is(err, errors.ErrCodeUnsupportedFile) {
		t.Errorf("error code = %q, want UNSUPPORTED_FILE_TYPE", errors.GetCode(err))
	}
}

// fakeArchive implements ArchiveDownloader with canned zip bytes.
type fakeArchive struct {
	data []byte
	err  error
}

func (f *fakeArchive) Download(ctx context.Context, owner, repo string) ([]byte, error) {
	return f.data, f.err
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFromRepository(t *testing.T) {
	data := buildZip(t, map[string]string{
		"repo-main/README.md":            "# readme",
		"repo-main/requirements.txt":     "flask\nrequests\n",
		"repo-main/web/package.json":     `{"dependencies":{"react":"18"}}`,
		"repo-main/docs/notes.txt":       "not a manifest",
		"repo-main/api/requirements.txt": "django\n",
	})

	loc := NewLocator(&fakeArchive{data: data})
	files, err := loc.FromRepository(context.Background(), "https://github.com/owner/repo")
	if err != nil {
		t.Fatalf("FromRepository failed: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("found %d manifests, want 3: %+v", len(files), files)
	}

	kinds := map[manifest.Kind]int{}
	for _, f := range files {
		kinds[f.Kind]++
	}
	if kinds[manifest.PythonRequirements] != 2 {
		t.Errorf("python manifests = %d, want 2", kinds[manifest.PythonRequirements])
	}
	if kinds[manifest.NodePackageJSON] != 1 {
		t.Errorf("node manifests = %d, want 1", kinds[manifest.NodePackageJSON])
	}
}

func TestFromRepositoryNoManifests(t *testing.T) {
	data := buildZip(t, map[string]string{"repo-main/README.md": "# readme"})

	loc := NewLocator(&fakeArchive{data: data})
	files, err := loc.FromRepository(context.Background(), "owner/repo")
	if err != nil {
		t.Fatalf("FromRepository failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("found %d manifests, want 0", len(files))
	}
}

func TestFromRepositoryInvalidArchive(t *testing.T) {
	loc := NewLocator(&fakeArchive{data: []byte("this is not a zip")})

	_, err := loc.FromRepository(context.Background(), "owner/repo")
	if !errors.Is(err, errors.ErrCodeInvalidArchive) {
		t.Errorf("error code = %q, want INVALID_ARCHIVE", errors.GetCode(err))
	}
}

func TestFromRepositoryDownloadError(t *testing.T) {
	wantErr := errors.New(errors.ErrCodeRepoUnavailable, "no reachable branch")
	loc := NewLocator(&fakeArchive{err: wantErr})

	_, err := loc.FromRepository(context.Background(), "owner/repo")
	if !stderrors.Is(err, wantErr) {
		t.Errorf("error = %v, want the downloader's error", err)
	}
}

func TestFromRepositoryInvalidRef(t *testing.T) {
	loc := NewLocator(&fakeArchive{data: nil})

	_, err := loc.FromRepository(context.Background(), "not a repo ref")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestScanArchivePathsRepoRelative(t *testing.T) {
	data := buildZip(t, map[string]string{
		"repo-main/backend/requirements.txt": "flask\n",
	})

	loc := NewLocator(&fakeArchive{data: data})
	files, err := loc.FromRepository(context.Background(), "owner/repo")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("found %d manifests", len(files))
	}
	if files[0].Path != "backend/requirements.txt" {
		t.Errorf("Path = %q, want backend/requirements.txt", files[0].Path)
	}
}
