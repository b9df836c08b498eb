package mailorg

import (
	"context"
	"time"
)

// MessageIngestedEvent is published after a message is committed.
type MessageIngestedEvent struct {
	MessageRef   string    `json:"message_ref"`
	MessageID    string    `json:"message_id"`
	AccountID    string    `json:"account_id"`
	ThreadID     string    `json:"thread_id"`
	Subject      string    `json:"subject"`
	Attachments  int       `json:"attachments"`
	HasForwarded bool      `json:"has_forwarded"`
	IngestedAt   time.Time `json:"ingested_at"`
}

// BatchIngestedEvent is published when a batch for an account finishes.
type BatchIngestedEvent struct {
	AccountID  string      `json:"account_id"`
	Report     BatchReport `json:"report"`
	FinishedAt time.Time   `json:"finished_at"`
}

// Notifier announces ingestion results to downstream consumers such as the
// categorization workers. Failures are logged by the caller and never undo
// a commit.
type Notifier interface {
	MessageIngested(ctx context.Context, event *MessageIngestedEvent) error
	BatchIngested(ctx context.Context, event *BatchIngestedEvent) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) MessageIngested(context.Context, *MessageIngestedEvent) error { return nil }
func (NopNotifier) BatchIngested(context.Context, *BatchIngestedEvent) error     { return nil }
