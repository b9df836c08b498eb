package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"mailorg/internal/mailorg"
)

// ErrLocked is returned by EncryptedStore.Get before Unlock succeeded.
var ErrLocked = errors.New("content store is locked")

// EncryptedStore encrypts content before handing it to another store.
// Writing only needs the public key; reading requires Unlock.
type EncryptedStore struct {
	inner     mailorg.ContentStore
	encryptor mailorg.Encryptor

	mu  sync.RWMutex
	dec mailorg.DecryptionContext
}

// NewEncryptedStore wraps inner with encryptor.
func NewEncryptedStore(inner mailorg.ContentStore, encryptor mailorg.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, encryptor: encryptor}
}

// Unlock decrypts the private key for the rest of the session.
func (s *EncryptedStore) Unlock(passphrase string) error {
	dec, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking content store: %w", err)
	}
	s.mu.Lock()
	s.dec = dec
	s.mu.Unlock()
	return nil
}

func (s *EncryptedStore) Put(ctx context.Context, kind mailorg.ContentKind, id string, r io.Reader, size int64) (string, error) {
	exists, err := s.inner.Exists(ctx, kind, id)
	if err != nil {
		return "", err
	}

	var ciphertext bytes.Buffer
	counter := &countingReader{r: r}
	if exists {
		if _, err := io.Copy(io.Discard, counter); err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
	} else if err := s.encryptor.Encrypt(counter, &ciphertext); err != nil {
		return "", fmt.Errorf("encrypting %s/%s: %w", kind, id, err)
	}
	if counter.n != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}

	return s.inner.Put(ctx, kind, id, &ciphertext, int64(ciphertext.Len()))
}

func (s *EncryptedStore) Get(ctx context.Context, kind mailorg.ContentKind, id string, w io.Writer) error {
	s.mu.RLock()
	dec := s.dec
	s.mu.RUnlock()
	if dec == nil {
		return ErrLocked
	}

	var ciphertext bytes.Buffer
	if err := s.inner.Get(ctx, kind, id, &ciphertext); err != nil {
		return err
	}
	if err := dec.Decrypt(&ciphertext, w); err != nil {
		return fmt.Errorf("decrypting %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *EncryptedStore) Exists(ctx context.Context, kind mailorg.ContentKind, id string) (bool, error) {
	return s.inner.Exists(ctx, kind, id)
}

// ValidateSetup checks the wrapped store and that encryption keys exist.
func (s *EncryptedStore) ValidateSetup(ctx context.Context) error {
	if !s.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys not configured (run 'mailorg config encryption init')")
	}
	return s.inner.ValidateSetup(ctx)
}

// Compile-time check that EncryptedStore implements mailorg.ContentStore interface
var _ mailorg.ContentStore = (*EncryptedStore)(nil)
