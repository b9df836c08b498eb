package mailorg

import (
	"context"
	"time"

	"mailorg/internal/database/sqlc"
)

// Database provides the entity storage used by the ingestion pipeline.
// Find methods return (nil, nil) when nothing matches.
type Database interface {
	// Account operations

	// EnsureAccount registers an account reference if it is not known yet.
	EnsureAccount(ctx context.Context, accountID string, at time.Time) error

	// MarkAccountSynced records the end of a batch for an account.
	MarkAccountSynced(ctx context.Context, accountID string, at time.Time) error

	FindAccount(ctx context.Context, accountID string) (*sqlc.Account, error)

	// Message operations

	FindMessageByID(ctx context.Context, id string) (*sqlc.Message, error)

	// FindMessageByMessageID looks a message up by its transport Message-ID.
	FindMessageByMessageID(ctx context.Context, messageID string) (*sqlc.Message, error)

	// CommitMessage writes the whole entity graph of one message in a single
	// transaction, resolving graph.Thread inside it. It returns the thread
	// the message joined. A Message-ID collision yields ErrDuplicateMessage
	// and nothing is written.
	CommitMessage(ctx context.Context, graph *MessageGraph) (*sqlc.Thread, error)

	ListMessagesByThread(ctx context.Context, threadID string) ([]*sqlc.Message, error)

	// Content operations

	FindBody(ctx context.Context, id string) (*sqlc.Body, error)
	FindAttachment(ctx context.Context, id string) (*sqlc.Attachment, error)
	FindDisclaimer(ctx context.Context, id string) (*sqlc.Disclaimer, error)
	ListAttachmentsForMessage(ctx context.Context, messageID string) ([]*sqlc.Attachment, error)
	ListDisclaimersForBody(ctx context.Context, bodyID string) ([]*sqlc.Disclaimer, error)
	ListObjectsForBody(ctx context.Context, bodyID string) ([]*sqlc.HtmlObject, error)

	// Thread operations

	// ResolveThread applies the thread rules to req in its own transaction.
	ResolveThread(ctx context.Context, req ThreadRequest) (*sqlc.Thread, error)

	FindThread(ctx context.Context, id string) (*sqlc.Thread, error)
	ListThreads(ctx context.Context, limit int) ([]*sqlc.Thread, error)

	// Aggregate operations

	FindContact(ctx context.Context, email string) (*sqlc.Contact, error)
	FindDomain(ctx context.Context, name string) (*sqlc.Domain, error)
	ListContacts(ctx context.Context, limit int) ([]*sqlc.Contact, error)
	ListDomains(ctx context.Context, limit int) ([]*sqlc.Domain, error)

	// Ingest run operations

	CreateIngestRun(ctx context.Context, operation, parameters string, startedAt time.Time) (int64, error)
	FinishIngestRun(ctx context.Context, id int64, status string, finishedAt time.Time, report BatchReport) error
	ListIngestRuns(ctx context.Context, limit int) ([]*sqlc.IngestRun, error)

	// Close closes the database connection.
	Close() error
}

// ThreadRequest asks for the thread a message with Subject sent at SentAt
// belongs to. Only threads whose last_date is after Since are candidates;
// NewID names the thread if one has to be created.
type ThreadRequest struct {
	NewID   string
	Subject string
	SentAt  time.Time
	Since   time.Time
}

// ContactDelta is the counter change for one address within one message.
type ContactDelta struct {
	Email     string
	FirstName string
	LastName  string
	Sent      int64
	Received  int64
}

// DomainDelta is the counter change for one domain within one message.
type DomainDelta struct {
	Name     string
	Sent     int64
	Received int64
}

// MessageGraph is everything CommitMessage writes for one message. Entities
// reference each other by id; Message.ThreadID is filled in by the commit.
type MessageGraph struct {
	Message     sqlc.Message
	Body        sqlc.Body
	Disclaimers []sqlc.Disclaimer
	Attachments []sqlc.Attachment
	Objects     []sqlc.HtmlObject
	Thread      ThreadRequest
	Contacts    []ContactDelta
	Domains     []DomainDelta
}
