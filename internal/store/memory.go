package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"mailorg/internal/mailorg"
)

// MemoryStore is an in-memory implementation of the ContentStore interface.
// It is useful for testing and for throwaway ingestion runs.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	content map[string][]byte // object name -> bytes
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		content: make(map[string][]byte),
	}
}

// Put stores content under (kind, id). Existing keys are left untouched.
func (m *MemoryStore) Put(ctx context.Context, kind mailorg.ContentKind, id string, r io.Reader, size int64) (string, error) {
	name, err := objectName(kind, id)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.content[name]; !ok {
		m.content[name] = data
	}
	return "memory:" + name, nil
}

// Get writes the content stored under (kind, id) to w.
func (m *MemoryStore) Get(ctx context.Context, kind mailorg.ContentKind, id string, w io.Writer) error {
	name, err := objectName(kind, id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	data, ok := m.content[name]
	m.mu.RUnlock()
	if !ok {
		return notFound(kind, id)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, kind mailorg.ContentKind, id string) (bool, error) {
	name, err := objectName(kind, id)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.content[name]
	return ok, nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.content)
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup(ctx context.Context) error {
	return nil
}

// Compile-time check that MemoryStore implements mailorg.ContentStore interface
var _ mailorg.ContentStore = (*MemoryStore)(nil)
