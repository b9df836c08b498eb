package mailorg

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"mailorg/internal/database/sqlc"
)

// ContentHash is the id of content-addressed entities (attachments and
// disclaimers): the lower-case hex SHA-256 of the bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AttachmentRegistrar stores attachment bytes at most once per content hash.
type AttachmentRegistrar struct {
	database Database
	store    ContentStore
	logger   Logger
	clock    Clock
	locks    *keyedMutex
}

func NewAttachmentRegistrar(database Database, store ContentStore, logger Logger, clock Clock) *AttachmentRegistrar {
	return &AttachmentRegistrar{
		database: database,
		store:    store,
		logger:   logger,
		clock:    clock,
		locks:    newKeyedMutex(),
	}
}

// Register returns the attachment record for data. A known attachment is
// returned unchanged and nothing is written. Otherwise the bytes are stored
// and a new record is returned for the caller to commit; inserting it is
// idempotent, so registering the same bytes again before the commit is safe.
func (r *AttachmentRegistrar) Register(ctx context.Context, data []byte, filename, contentType string) (*sqlc.Attachment, error) {
	id := ContentHash(data)

	unlock := r.locks.Lock(id)
	defer unlock()

	existing, err := r.database.FindAttachment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checking for existing attachment: %w", err)
	}
	if existing != nil {
		r.logger.Debug("attachment deduplicated", "id", id, "filename", filename)
		return existing, nil
	}

	ref, err := r.store.Put(ctx, KindAttachment, id, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: attachment %s: %w", ErrStoreWrite, id, err)
	}

	return &sqlc.Attachment{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		ContentRef:  ref,
		CreatedAt:   r.clock.Now(),
	}, nil
}

// keyedMutex serializes work per key. Entries are dropped once no goroutine
// holds or waits for them.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free and returns the function releasing it.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
