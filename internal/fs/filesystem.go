package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"mailorg/internal/mailorg"
)

// IgnoreFileName is read from the root of every scanned directory.
const IgnoreFileName = ".mailorgignore"

// OSFilesystemManager finds and opens raw message files on the real filesystem.
type OSFilesystemManager struct {
	ignore []string
}

// NewOSFilesystemManager creates a manager that skips files matching any of
// the ignore patterns in addition to those listed in IgnoreFileName.
func NewOSFilesystemManager(ignore []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: ignore}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*mailorg.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	if !mode.IsRegular() && !mode.IsDir() {
		return nil, fmt.Errorf("not a regular file or directory: %s (%s)", absPath, mode.Type())
	}

	return mailorg.NewPath(absPath, info.IsDir(), info), nil
}

// Open opens a message file for reading.
func (m *OSFilesystemManager) Open(path *mailorg.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// FindFiles lists regular files under dir in lexical order. Ignored
// directories are not descended.
func (m *OSFilesystemManager) FindFiles(dir *mailorg.Path, recursive bool) ([]*mailorg.Path, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	fromFile, err := ReadIgnoreFile(filepath.Join(dir.String(), IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns := append([]string{IgnoreFileName}, m.ignore...)
	matcher := NewIgnoreMatcher(append(patterns, fromFile...))

	var paths []*mailorg.Path
	root := dir.String()
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || matcher.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.Match(rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		paths = append(paths, mailorg.NewPath(p, false, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return paths, nil
}

// Compile-time check that OSFilesystemManager implements mailorg.FilesystemManager interface
var _ mailorg.FilesystemManager = (*OSFilesystemManager)(nil)
