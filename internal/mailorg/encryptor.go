package mailorg

import "io"

// Encryptor handles encryption of stored content and unlocking for decryption.
// Encryption uses the public key only, so ingestion never needs a passphrase.
// Reading content back requires unlocking the private key.
type Encryptor interface {
	// Setup performs one-time key generation. Called by `mailorg config encryption init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// DecryptionContext for the session.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist at configured paths.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory. The unlocked key
// is never written to disk.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
