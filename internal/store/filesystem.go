package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mailorg/internal/mailorg"
)

// FileSystemStore keeps content as plain files, one directory per kind:
//
//	<root>/
//	  bodies/
//	    <id>.bod       (text bodies)
//	    <id>.hbod      (html bodies)
//	  attachments/<sha256>
//	  html-obj/<id>
//	  disclaimers/<sha256>
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates the directory layout under root.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	for _, dir := range kindDirs() {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	return &FileSystemStore{root: root}, nil
}

func kindDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, k := range mailorg.ContentKinds {
		d := layouts[k].dir
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (s *FileSystemStore) path(kind mailorg.ContentKind, id string) (string, error) {
	name, err := objectName(kind, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(name)), nil
}

// Put stores content under (kind, id).
// The operation is idempotent: an existing file is never rewritten.
func (s *FileSystemStore) Put(ctx context.Context, kind mailorg.ContentKind, id string, r io.Reader, size int64) (string, error) {
	destPath, err := s.path(kind, id)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(destPath); err == nil {
		// Consume the reader to maintain expected behavior
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return destPath, nil
	}

	if err := s.writeFile(destPath, r, size); err != nil {
		return "", err
	}
	return destPath, nil
}

// Get copies the file stored under (kind, id) to w.
func (s *FileSystemStore) Get(ctx context.Context, kind mailorg.ContentKind, id string, w io.Writer) error {
	srcPath, err := s.path(kind, id)
	if err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(kind, id)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

func (s *FileSystemStore) Exists(ctx context.Context, kind mailorg.ContentKind, id string) (bool, error) {
	p, err := s.path(kind, id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking %s: %w", p, err)
	}
}

// ValidateSetup verifies that the store directories are accessible.
func (s *FileSystemStore) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("store root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root is not a directory: %s", s.root)
	}

	for _, dir := range kindDirs() {
		p := filepath.Join(s.root, dir)
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("store directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", p)
		}
	}
	return nil
}

// writeFile writes r to destPath through a temp file in the same directory
// followed by a rename, so readers never observe a partial file.
func (s *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements mailorg.ContentStore interface
var _ mailorg.ContentStore = (*FileSystemStore)(nil)
