package store

import (
	"context"
	"path/filepath"
	"testing"

	"mailorg/internal/config"
	"mailorg/internal/encryption"
)

func TestNewStoreFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		got, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "memory"}, nil)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := got.(*MemoryStore); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *MemoryStore", got)
		}
	})

	t.Run("filesystem store", func(t *testing.T) {
		cfg := config.StoreConfig{Type: "filesystem", Root: filepath.Join(t.TempDir(), "content")}
		got, err := NewStoreFromConfig(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := got.(*FileSystemStore); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *FileSystemStore", got)
		}
	})

	t.Run("encrypted store", func(t *testing.T) {
		got, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "memory"}, encryption.NewMarkerEncryptor())
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := got.(*EncryptedStore); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *EncryptedStore", got)
		}
	})

	errorCases := []struct {
		name string
		cfg  config.StoreConfig
	}{
		{"filesystem without root", config.StoreConfig{Type: "filesystem"}},
		{"s3 without bucket", config.StoreConfig{Type: "s3"}},
		{"unknown type", config.StoreConfig{Type: "tape"}},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStoreFromConfig(ctx, tt.cfg, nil)
			if err == nil {
				t.Error("NewStoreFromConfig() expected error, got nil")
			}
			if got != nil {
				t.Errorf("NewStoreFromConfig() = %v, want nil on error", got)
			}
		})
	}
}
