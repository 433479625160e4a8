// Package source obtains manifest file contents for a compliance check.
//
// Two entry modes are supported: a direct upload (filename plus raw bytes)
// and a repository snapshot (download a zip archive of the repository and
// scan its entries for known manifest filenames). Both modes normalize to
// a sequence of [ManifestFile] values consumed by the checker.
package source

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/integrations/github"
	"github.com/matzehuels/licensegate/pkg/manifest"
)

// ManifestFile is a located manifest ready for parsing.
type ManifestFile struct {
	Kind    manifest.Kind // detected manifest format
	Path    string        // filename or archive entry path, for error context
	Content string        // UTF-8 decoded file content
}

// Upload is a directly supplied manifest file.
type Upload struct {
	Filename string
	Data     []byte
}

// FromUpload validates an uploaded file and returns it as a ManifestFile.
// The data must be valid UTF-8 (INVALID_ENCODING otherwise) and the
// filename must end in a known manifest suffix (UNSUPPORTED_FILE_TYPE
// otherwise). Kind detection happens before decoding so an unsupported
// file is rejected without touching its content.
func FromUpload(up Upload) (ManifestFile, error) {
	parser, err := manifest.Detect(up.Filename)
	if err != nil {
		return ManifestFile{}, err
	}
	if !utf8.Valid(up.Data) {
		return ManifestFile{}, errors.New(errors.ErrCodeInvalidEncoding,
			"file %s is not valid UTF-8", up.Filename)
	}
	return ManifestFile{
		Kind:    parser.Kind(),
		Path:    up.Filename,
		Content: string(up.Data),
	}, nil
}

// ArchiveDownloader fetches a repository snapshot as zip bytes.
// Implemented by [github.ArchiveClient].
type ArchiveDownloader interface {
	Download(ctx context.Context, owner, repo string) ([]byte, error)
}

// Locator finds manifest files inside repository snapshots.
type Locator struct {
	archive ArchiveDownloader
}

// NewLocator creates a Locator using the given archive downloader.
// Pass nil to use a default [github.ArchiveClient].
func NewLocator(archive ArchiveDownloader) *Locator {
	if archive == nil {
		archive = github.NewArchiveClient()
	}
	return &Locator{archive: archive}
}

// FromRepository downloads a snapshot of the referenced repository and
// returns every manifest file found in it, in archive order. A repository
// without any manifests yields an empty slice, not an error.
func (l *Locator) FromRepository(ctx context.Context, ref string) ([]ManifestFile, error) {
	owner, repo, err := github.ParseRepoRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := l.archive.Download(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return scanArchive(owner+"/"+repo, data)
}

// scanArchive walks the zip entries and extracts known manifest files.
func scanArchive(ref string, data []byte) ([]ManifestFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err,
			"snapshot of %s is not a valid zip archive", ref)
	}

	var files []ManifestFile
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !manifest.Supported(entry.Name) {
			continue
		}
		parser, err := manifest.Detect(entry.Name)
		if err != nil {
			continue
		}

		content, err := readEntry(entry)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err,
				"read %s from snapshot of %s", entry.Name, ref)
		}
		if !utf8.Valid(content) {
			return nil, errors.New(errors.ErrCodeInvalidEncoding,
				"%s in snapshot of %s is not valid UTF-8", entry.Name, ref)
		}

		files = append(files, ManifestFile{
			Kind:    parser.Kind(),
			Path:    strings.TrimPrefix(entry.Name, topLevelDir(entry.Name)),
			Content: string(content),
		})
	}
	return files, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// topLevelDir returns the "repo-branch/" prefix GitHub puts on every
// snapshot entry, so reported paths are repository-relative.
func topLevelDir(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i+1]
	}
	return ""
}
