package testutil

import (
	"context"
	"errors"
	"io"
	"sync"

	"mailorg/internal/mailorg"
	"mailorg/internal/store"
)

// ErrInjected is returned by FailingStore for failing kinds.
var ErrInjected = errors.New("injected store failure")

// FailingStore wraps a MemoryStore and fails every Put of the kinds listed
// in Fail. It counts successful puts per kind.
type FailingStore struct {
	*store.MemoryStore

	mu   sync.Mutex
	Fail map[mailorg.ContentKind]bool
	puts map[mailorg.ContentKind]int
}

// NewFailingStore creates a store failing puts of the given kinds.
func NewFailingStore(kinds ...mailorg.ContentKind) *FailingStore {
	fail := make(map[mailorg.ContentKind]bool)
	for _, k := range kinds {
		fail[k] = true
	}
	return &FailingStore{
		MemoryStore: store.NewMemoryStore(),
		Fail:        fail,
		puts:        make(map[mailorg.ContentKind]int),
	}
}

func (s *FailingStore) Put(ctx context.Context, kind mailorg.ContentKind, id string, r io.Reader, size int64) (string, error) {
	s.mu.Lock()
	fail := s.Fail[kind]
	s.mu.Unlock()
	if fail {
		return "", ErrInjected
	}

	ref, err := s.MemoryStore.Put(ctx, kind, id, r, size)
	if err == nil {
		s.mu.Lock()
		s.puts[kind]++
		s.mu.Unlock()
	}
	return ref, err
}

// Puts returns how many successful puts of kind were made.
func (s *FailingStore) Puts(kind mailorg.ContentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[kind]
}

// SetFailing toggles failure injection for kind.
func (s *FailingStore) SetFailing(kind mailorg.ContentKind, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fail[kind] = fail
}
