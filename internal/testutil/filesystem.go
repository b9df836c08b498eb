package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"mailorg/internal/mailorg"
)

// MockFilesystemManager is an in-memory tree of message files for testing.
// Paths are slash separated and absolute.
type MockFilesystemManager struct {
	files map[string][]byte
	dirs  map[string]bool
	// Unreadable makes Open fail for the listed paths.
	Unreadable map[string]bool
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:      make(map[string][]byte),
		dirs:       map[string]bool{"/": true},
		Unreadable: make(map[string]bool),
	}
}

// AddFile adds a file and its parent directories.
func (m *MockFilesystemManager) AddFile(p string, content []byte) {
	p = path.Clean(p)
	m.files[p] = content
	m.AddDirectory(path.Dir(p))
}

// AddDirectory adds a directory and its parents.
func (m *MockFilesystemManager) AddDirectory(p string) {
	for p = path.Clean(p); !m.dirs[p]; p = path.Dir(p) {
		m.dirs[p] = true
	}
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*mailorg.Path, error) {
	p := path.Clean(rawPath)
	if m.dirs[p] {
		return mailorg.NewPath(p, true, &mockFileInfo{name: path.Base(p), isDir: true}), nil
	}
	content, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	return mailorg.NewPath(p, false, &mockFileInfo{name: path.Base(p), size: int64(len(content))}), nil
}

func (m *MockFilesystemManager) Open(p *mailorg.Path) (io.ReadCloser, error) {
	if m.Unreadable[p.String()] {
		return nil, fmt.Errorf("permission denied: %s", p.String())
	}
	content, ok := m.files[p.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p.String())
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// FindFiles returns the files below dir in lexical order.
func (m *MockFilesystemManager) FindFiles(dir *mailorg.Path, recursive bool) ([]*mailorg.Path, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	prefix := strings.TrimSuffix(dir.String(), "/") + "/"
	var names []string
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if !recursive && strings.Contains(strings.TrimPrefix(p, prefix), "/") {
			continue
		}
		names = append(names, p)
	}
	sort.Strings(names)

	paths := make([]*mailorg.Path, 0, len(names))
	for _, p := range names {
		paths = append(paths, mailorg.NewPath(p, false, &mockFileInfo{name: path.Base(p), size: int64(len(m.files[p]))}))
	}
	return paths, nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (m *mockFileInfo) Name() string { return m.name }
func (m *mockFileInfo) Size() int64  { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode {
	if m.isDir {
		return fs.ModeDir | 0755
	}
	return 0644
}
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ mailorg.FilesystemManager = (*MockFilesystemManager)(nil)
