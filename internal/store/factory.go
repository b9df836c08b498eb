package store

import (
	"context"
	"fmt"

	"mailorg/internal/config"
	"mailorg/internal/mailorg"
)

// NewStoreFromConfig creates the configured ContentStore. When encryptor is
// non-nil the store is wrapped in an EncryptedStore.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig, encryptor mailorg.Encryptor) (mailorg.ContentStore, error) {
	var inner mailorg.ContentStore
	switch cfg.Type {
	case "memory":
		inner = NewMemoryStore()
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem store requires root to be set")
		}
		fs, err := NewFileSystemStore(cfg.Root)
		if err != nil {
			return nil, err
		}
		inner = fs
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
		}
		s3Store, err := NewS3StoreFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		inner = s3Store
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}

	if encryptor == nil {
		return inner, nil
	}
	return NewEncryptedStore(inner, encryptor), nil
}
