package mailorg

import (
	"context"
	"io"
)

// ContentKind names a key space in the ContentStore.
type ContentKind string

const (
	KindBodyText   ContentKind = "body-text"
	KindBodyHTML   ContentKind = "body-html"
	KindAttachment ContentKind = "attachment"
	KindObject     ContentKind = "object"
	KindDisclaimer ContentKind = "disclaimer"
)

// ContentKinds lists every kind a ContentStore must accept.
var ContentKinds = []ContentKind{KindBodyText, KindBodyHTML, KindAttachment, KindObject, KindDisclaimer}

// ParseContentKind converts a user supplied name into a ContentKind.
func ParseContentKind(name string) (ContentKind, bool) {
	for _, k := range ContentKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// ContentStore persists raw bytes by (kind, id).
// All operations stream through io.Reader/io.Writer so large attachments are
// never required to sit in memory twice.
type ContentStore interface {
	// Put stores the bytes read from r under (kind, id) and returns a
	// backend-specific reference. Storing an existing key is a no-op.
	// size is the number of bytes that will be read from r.
	Put(ctx context.Context, kind ContentKind, id string, r io.Reader, size int64) (string, error)

	// Get writes the bytes stored under (kind, id) to w.
	// Returns ErrContentNotFound when nothing is stored under the key.
	Get(ctx context.Context, kind ContentKind, id string, w io.Writer) error

	// Exists reports whether bytes are stored under (kind, id).
	Exists(ctx context.Context, kind ContentKind, id string) (bool, error)

	// ValidateSetup verifies that the store is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
