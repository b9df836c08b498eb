package mailorg

import "errors"

var (
	// ErrDecode marks a message whose raw bytes could not be parsed.
	ErrDecode = errors.New("message could not be decoded")

	// ErrMissingMessageID marks a message without a Message-ID header.
	ErrMissingMessageID = errors.New("message has no Message-ID")

	// ErrDuplicateMessage marks a message whose Message-ID was already ingested.
	// It is reported as a skip, not as a failure.
	ErrDuplicateMessage = errors.New("duplicate message")

	// ErrStoreWrite marks a failure to persist bytes in the ContentStore.
	ErrStoreWrite = errors.New("content store write failed")

	// ErrContentNotFound is returned by ContentStore.Get for unknown keys.
	ErrContentNotFound = errors.New("content not found")

	// ErrNotFound is returned by read APIs for unknown entity ids.
	ErrNotFound = errors.New("not found")
)
