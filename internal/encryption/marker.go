package encryption

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"mailorg/internal/mailorg"
)

// markerPrefix tags content written by MarkerEncryptor.
var markerPrefix = []byte("MAILORG-MARKER\n")

// MarkerEncryptor is a reversible stand-in for tests. It prefixes content
// with a marker line so stored bytes differ from the plaintext, and it accepts
// any passphrase except "wrong".
type MarkerEncryptor struct {
	Configured bool
}

var _ mailorg.Encryptor = (*MarkerEncryptor)(nil)

// NewMarkerEncryptor creates a MarkerEncryptor that reports itself configured.
func NewMarkerEncryptor() *MarkerEncryptor {
	return &MarkerEncryptor{Configured: true}
}

func (e *MarkerEncryptor) Setup(passphrase string) error {
	e.Configured = true
	return nil
}

func (e *MarkerEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(markerPrefix); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *MarkerEncryptor) Unlock(passphrase string) (mailorg.DecryptionContext, error) {
	if passphrase == "wrong" {
		return nil, fmt.Errorf("incorrect passphrase")
	}
	return markerDecryptor{}, nil
}

func (e *MarkerEncryptor) IsConfigured() bool {
	return e.Configured
}

type markerDecryptor struct{}

func (markerDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil || !bytes.Equal(line, markerPrefix) {
		return fmt.Errorf("content was not written by MarkerEncryptor")
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
