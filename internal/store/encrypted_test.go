package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"mailorg/internal/encryption"
	"mailorg/internal/mailorg"
)

func TestEncryptedStore(t *testing.T) {
	contentStoreContract(t, func(t *testing.T) mailorg.ContentStore {
		s := NewEncryptedStore(NewMemoryStore(), encryption.NewMarkerEncryptor())
		if err := s.Unlock("passphrase"); err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		return s
	})
}

func TestEncryptedStore_StoresCiphertext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s := NewEncryptedStore(inner, encryption.NewMarkerEncryptor())

	if _, err := s.Put(ctx, mailorg.KindDisclaimer, "d1", strings.NewReader("DISCLAIMER: x"), 13); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var raw bytes.Buffer
	if err := inner.Get(ctx, mailorg.KindDisclaimer, "d1", &raw); err != nil {
		t.Fatalf("inner Get() error = %v", err)
	}
	if raw.String() == "DISCLAIMER: x" {
		t.Error("inner store holds plaintext")
	}

	var out bytes.Buffer
	if err := s.Get(ctx, mailorg.KindDisclaimer, "d1", &out); !errors.Is(err, ErrLocked) {
		t.Errorf("Get() before Unlock error = %v, want ErrLocked", err)
	}

	if err := s.Unlock("wrong"); err == nil {
		t.Fatal("Unlock(wrong) expected error")
	}
	if err := s.Unlock("right"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := s.Get(ctx, mailorg.KindDisclaimer, "d1", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out.String() != "DISCLAIMER: x" {
		t.Errorf("Get() = %q", out.String())
	}
}

func TestEncryptedStore_ValidateSetup(t *testing.T) {
	enc := encryption.NewMarkerEncryptor()
	enc.Configured = false
	s := NewEncryptedStore(NewMemoryStore(), enc)

	if err := s.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error when keys are not configured")
	}
}
