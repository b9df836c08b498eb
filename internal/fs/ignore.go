package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// rule is one line of an ignore list.
type rule struct {
	glob     string
	anchored bool // contains '/', matched against the whole relative path
	dirOnly  bool // trailing '/', applies to directories only
	negate   bool // leading '!', re-includes an earlier match
}

// IgnoreMatcher decides which entries of a mail directory are not messages.
//
// The syntax is a small subset of gitignore. "*.tmp" matches a basename at
// any depth, "archive/2019" matches a path relative to the scanned
// directory, "tmp/" matches directories only (maildir delivery folders) and
// "!keep.eml" re-includes a file an earlier rule excluded. The last matching
// rule wins.
type IgnoreMatcher struct {
	rules []rule
}

// NewIgnoreMatcher compiles lines into a matcher. Blank lines, comments and
// malformed globs are dropped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}

		var r rule
		if line[0] == '!' {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}
		if _, err := path.Match(line, ""); err != nil {
			continue
		}
		r.glob = line
		r.anchored = strings.Contains(line, "/")
		m.rules = append(m.rules, r)
	}
	return m
}

// Match reports whether rel, a path relative to the scanned directory, is
// ignored.
func (m *IgnoreMatcher) Match(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		subject := base
		if r.anchored {
			subject = rel
		}
		if ok, _ := path.Match(r.glob, subject); ok {
			ignored = !r.negate
		}
	}
	return ignored
}

// ReadIgnoreFile returns the lines of an ignore file. A missing file yields
// no lines.
func ReadIgnoreFile(name string) ([]string, error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
