package encryption

import (
	"fmt"

	"mailorg/internal/config"
	"mailorg/internal/mailorg"
)

// NewEncryptorFromConfig returns the configured Encryptor, or nil when
// content is stored in plaintext.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (mailorg.Encryptor, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewMarkerEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
