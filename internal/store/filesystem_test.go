package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mailorg/internal/mailorg"
)

func TestFileSystemStore(t *testing.T) {
	contentStoreContract(t, func(t *testing.T) mailorg.ContentStore {
		s, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		return s
	})
}

func TestNewFileSystemStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "content")
	if _, err := NewFileSystemStore(root); err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	for _, dir := range []string{"bodies", "attachments", "html-obj", "disclaimers"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			t.Errorf("%s directory not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestFileSystemStore_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	ref, err := s.Put(context.Background(), mailorg.KindBodyHTML, "body-1", strings.NewReader("<p>hi</p>"), 9)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	want := filepath.Join(root, "bodies", "body-1.hbod")
	if ref != want {
		t.Errorf("ref = %q, want %q", ref, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading stored body: %v", err)
	}
	if string(data) != "<p>hi</p>" {
		t.Errorf("stored body = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "bodies"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("bodies dir has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFileSystemStore_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "attachments")); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if err := s.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for missing attachments directory")
	}
}
