package mailorg

import (
	"io"
	"io/fs"
	"path/filepath"
)

// FilesystemManager abstracts access to raw message files on disk so the
// batch ingestion path can be tested without touching the real filesystem.
type FilesystemManager interface {
	// Resolve converts a raw path into an absolute, stat'ed Path. Only regular
	// files and directories are accepted.
	Resolve(rawPath string) (*Path, error)

	// Open opens a message file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// FindFiles returns the message files below dir, skipping ignored names.
	// Subdirectories are only descended when recursive is true.
	FindFiles(dir *Path, recursive bool) ([]*Path, error)
}

// Path is a resolved location of a message file or a directory of them.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath is used by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{absPath: absPath, isDir: isDir, info: info}
}

func (p *Path) String() string { return p.absPath }

// Name returns the final element of the path, used as the source name in
// batch reports.
func (p *Path) Name() string { return filepath.Base(p.absPath) }

func (p *Path) IsDir() bool { return p.isDir }

// Size returns the cached size, or -1 when no stat info is attached.
func (p *Path) Size() int64 {
	if p.info == nil {
		return -1
	}
	return p.info.Size()
}
