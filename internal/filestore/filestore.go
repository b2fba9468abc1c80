// Package filestore persists uploaded binaries (ad photos, user avatars) on
// the local filesystem. The database keeps only metadata; bytes live here.
//
// Files are named with a fresh xid plus the original extension, so two
// uploads of "cat.jpg" never collide and names are unguessable enough to
// not enumerate. Callers store the returned path and fetch through Read.
package filestore

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// Store writes and reads blobs under a single base directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates the base directory if needed and returns a Store rooted there.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: creating directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save streams the blob to a new file and returns its path relative to the
// store root. The extension of originalName is preserved (lowercased) so the
// file stays recognizable on disk.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	name := xid.New().String() + normalizeExt(originalName)
	full := filepath.Join(s.dir, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("filestore: creating %s: %w", full, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("filestore: writing %s: %w", full, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("filestore: closing %s: %w", full, err)
	}

	return name, nil
}

// SaveBytes is Save for in-memory blobs (the embedded default avatar).
func (s *Store) SaveBytes(data []byte, originalName string) (string, error) {
	return s.Save(bytes.NewReader(data), originalName)
}

// Read returns the full contents of a stored blob.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("filestore: reading %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a stored blob. A file that is already gone is logged and
// forgiven: the metadata row is the source of truth, and re-running a
// cleanup must not fail.
func (s *Store) Delete(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("blob already absent on delete", "file", name)
			return nil
		}
		return fmt.Errorf("filestore: deleting %s: %w", name, err)
	}
	return nil
}

// Replace saves the new blob first, then deletes the old one. Ordering
// matters: if the save fails the old file is untouched, and a leaked old
// file is a better failure mode than a dangling metadata row.
func (s *Store) Replace(r io.Reader, originalName, oldName string) (string, error) {
	name, err := s.Save(r, originalName)
	if err != nil {
		return "", err
	}
	if err := s.Delete(oldName); err != nil {
		s.logger.Warn("could not remove replaced blob", "file", oldName, "error", err)
	}
	return name, nil
}

// normalizeExt extracts and lowercases the file extension, with a sanity
// cap so a crafted filename cannot smuggle a huge "extension" into the
// stored name.
func normalizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
