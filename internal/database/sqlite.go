package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"mailorg/internal/database/migrations"
	"mailorg/internal/database/sqlc"
	"mailorg/internal/mailorg"
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens and configures a SQLite database connection.
// The pool is limited to one connection: SQLite has a single writer, and an
// in-memory database only exists on the connection that created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Migrate applies pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// Account operations

func (s *SQLiteDatabase) EnsureAccount(ctx context.Context, accountID string, at time.Time) error {
	err := s.queries.InsertAccountIfMissing(ctx, sqlc.InsertAccountIfMissingParams{
		ID:        accountID,
		CreatedAt: at.UTC(),
	})
	if err != nil {
		return fmt.Errorf("registering account: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) MarkAccountSynced(ctx context.Context, accountID string, at time.Time) error {
	err := s.queries.UpdateAccountLastSync(ctx, sqlc.UpdateAccountLastSyncParams{
		LastSync: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:       accountID,
	})
	if err != nil {
		return fmt.Errorf("updating account last sync: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindAccount(ctx context.Context, accountID string) (*sqlc.Account, error) {
	v, err := s.queries.GetAccount(ctx, accountID)
	return found(&v, err, "account")
}

// Message operations

func (s *SQLiteDatabase) FindMessageByID(ctx context.Context, id string) (*sqlc.Message, error) {
	v, err := s.queries.GetMessage(ctx, id)
	return found(&v, err, "message")
}

func (s *SQLiteDatabase) FindMessageByMessageID(ctx context.Context, messageID string) (*sqlc.Message, error) {
	v, err := s.queries.GetMessageByMessageID(ctx, messageID)
	return found(&v, err, "message by Message-ID")
}

func (s *SQLiteDatabase) ListMessagesByThread(ctx context.Context, threadID string) ([]*sqlc.Message, error) {
	msgs, err := s.queries.ListMessagesByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing messages for thread: %w", err)
	}
	return pointers(msgs), nil
}

// CommitMessage writes the message graph in one transaction. Content bytes
// are already in the content store; if this fails the worst outcome is
// orphaned content, which is harmless.
func (s *SQLiteDatabase) CommitMessage(ctx context.Context, graph *mailorg.MessageGraph) (*sqlc.Thread, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	msg := &graph.Message

	if _, err := qtx.GetMessageByMessageID(ctx, msg.MessageID); err == nil {
		return nil, mailorg.ErrDuplicateMessage
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking for existing message: %w", err)
	}

	err = qtx.InsertAccountIfMissing(ctx, sqlc.InsertAccountIfMissingParams{
		ID:        msg.AccountID,
		CreatedAt: msg.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("registering account: %w", err)
	}

	body := graph.Body
	err = qtx.InsertBody(ctx, sqlc.InsertBodyParams{
		ID:         body.ID,
		Format:     body.Format,
		ContentRef: body.ContentRef,
		Size:       body.Size,
		CreatedAt:  body.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting body: %w", err)
	}

	for _, d := range graph.Disclaimers {
		err := qtx.InsertDisclaimer(ctx, sqlc.InsertDisclaimerParams{
			ID:        d.ID,
			Text:      d.Text,
			CreatedAt: d.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting disclaimer %s: %w", d.ID, err)
		}
		err = qtx.InsertBodyDisclaimer(ctx, sqlc.InsertBodyDisclaimerParams{BodyID: body.ID, DisclaimerID: d.ID})
		if err != nil {
			return nil, fmt.Errorf("linking disclaimer %s: %w", d.ID, err)
		}
	}

	thread, err := resolveThread(ctx, qtx, graph.Thread)
	if err != nil {
		return nil, err
	}
	msg.ThreadID = thread.ID

	err = qtx.InsertMessage(ctx, sqlc.InsertMessageParams{
		ID:           msg.ID,
		AccountID:    msg.AccountID,
		MessageID:    msg.MessageID,
		Sender:       msg.Sender,
		Recipients:   msg.Recipients,
		Cc:           msg.Cc,
		Bcc:          msg.Bcc,
		Subject:      msg.Subject,
		DateSent:     msg.DateSent.UTC(),
		Format:       msg.Format,
		BodyID:       body.ID,
		ThreadID:     thread.ID,
		HasForwarded: msg.HasForwarded,
		CreatedAt:    msg.CreatedAt.UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, mailorg.ErrDuplicateMessage
		}
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	for _, a := range graph.Attachments {
		err := qtx.InsertAttachment(ctx, sqlc.InsertAttachmentParams{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			ContentRef:  a.ContentRef,
			CreatedAt:   a.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting attachment %s: %w", a.ID, err)
		}
		err = qtx.InsertMessageAttachment(ctx, sqlc.InsertMessageAttachmentParams{MessageID: msg.ID, AttachmentID: a.ID})
		if err != nil {
			return nil, fmt.Errorf("linking attachment %s: %w", a.ID, err)
		}
	}

	for _, o := range graph.Objects {
		err := qtx.InsertHtmlObject(ctx, sqlc.InsertHtmlObjectParams{
			ID:          o.ID,
			BodyID:      body.ID,
			ContentType: o.ContentType,
			Size:        o.Size,
			ContentRef:  o.ContentRef,
			CreatedAt:   o.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting object %s: %w", o.ID, err)
		}
	}

	for _, c := range graph.Contacts {
		err := qtx.IncrementContact(ctx, sqlc.IncrementContactParams{
			Email:         c.Email,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			SentCount:     c.Sent,
			ReceivedCount: c.Received,
			CreatedAt:     msg.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("updating contact %s: %w", c.Email, err)
		}
	}

	for _, d := range graph.Domains {
		err := qtx.IncrementDomain(ctx, sqlc.IncrementDomainParams{
			Name:          d.Name,
			SentCount:     d.Sent,
			ReceivedCount: d.Received,
			CreatedAt:     msg.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("updating domain %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return thread, nil
}

// Thread operations

func (s *SQLiteDatabase) ResolveThread(ctx context.Context, req mailorg.ThreadRequest) (*sqlc.Thread, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	thread, err := resolveThread(ctx, s.queries.WithTx(tx), req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return thread, nil
}

// resolveThread extends the most recently active thread with the same
// subject, or creates one when none was active after req.Since.
func resolveThread(ctx context.Context, q *sqlc.Queries, req mailorg.ThreadRequest) (*sqlc.Thread, error) {
	sentAt := req.SentAt.UTC()

	active, err := q.GetActiveThreadBySubject(ctx, sqlc.GetActiveThreadBySubjectParams{
		Subject:  req.Subject,
		LastDate: req.Since.UTC(),
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding active thread: %w", err)
	}

	if err == nil {
		if err := q.ExtendThread(ctx, sqlc.ExtendThreadParams{LastDate: sentAt, ID: active.ID}); err != nil {
			return nil, fmt.Errorf("extending thread %s: %w", active.ID, err)
		}
		thread, err := q.GetThread(ctx, active.ID)
		if err != nil {
			return nil, fmt.Errorf("reloading thread %s: %w", active.ID, err)
		}
		return &thread, nil
	}

	thread := sqlc.Thread{
		ID:          req.NewID,
		Subject:     req.Subject,
		DateStarted: sentAt,
		LastDate:    sentAt,
	}
	err = q.InsertThread(ctx, sqlc.InsertThreadParams{
		ID:          thread.ID,
		Subject:     thread.Subject,
		DateStarted: thread.DateStarted,
		LastDate:    thread.LastDate,
	})
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	return &thread, nil
}

func (s *SQLiteDatabase) FindThread(ctx context.Context, id string) (*sqlc.Thread, error) {
	v, err := s.queries.GetThread(ctx, id)
	return found(&v, err, "thread")
}

func (s *SQLiteDatabase) ListThreads(ctx context.Context, limit int) ([]*sqlc.Thread, error) {
	threads, err := s.queries.ListThreads(ctx, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	return pointers(threads), nil
}

// Content operations

func (s *SQLiteDatabase) FindBody(ctx context.Context, id string) (*sqlc.Body, error) {
	v, err := s.queries.GetBody(ctx, id)
	return found(&v, err, "body")
}

func (s *SQLiteDatabase) FindAttachment(ctx context.Context, id string) (*sqlc.Attachment, error) {
	v, err := s.queries.GetAttachment(ctx, id)
	return found(&v, err, "attachment")
}

func (s *SQLiteDatabase) FindDisclaimer(ctx context.Context, id string) (*sqlc.Disclaimer, error) {
	v, err := s.queries.GetDisclaimer(ctx, id)
	return found(&v, err, "disclaimer")
}

func (s *SQLiteDatabase) ListAttachmentsForMessage(ctx context.Context, messageID string) ([]*sqlc.Attachment, error) {
	atts, err := s.queries.ListAttachmentsForMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	return pointers(atts), nil
}

// CountAttachmentLinks returns how many messages reference an attachment.
func (s *SQLiteDatabase) CountAttachmentLinks(ctx context.Context, attachmentID string) (int64, error) {
	n, err := s.queries.CountAttachmentLinks(ctx, attachmentID)
	if err != nil {
		return 0, fmt.Errorf("counting attachment links: %w", err)
	}
	return n, nil
}

func (s *SQLiteDatabase) ListDisclaimersForBody(ctx context.Context, bodyID string) ([]*sqlc.Disclaimer, error) {
	ds, err := s.queries.ListDisclaimersForBody(ctx, bodyID)
	if err != nil {
		return nil, fmt.Errorf("listing disclaimers: %w", err)
	}
	return pointers(ds), nil
}

func (s *SQLiteDatabase) ListObjectsForBody(ctx context.Context, bodyID string) ([]*sqlc.HtmlObject, error) {
	objs, err := s.queries.ListHtmlObjectsForBody(ctx, bodyID)
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}
	return pointers(objs), nil
}

// Aggregate operations

func (s *SQLiteDatabase) FindContact(ctx context.Context, email string) (*sqlc.Contact, error) {
	v, err := s.queries.GetContact(ctx, email)
	return found(&v, err, "contact")
}

func (s *SQLiteDatabase) FindDomain(ctx context.Context, name string) (*sqlc.Domain, error) {
	v, err := s.queries.GetDomain(ctx, name)
	return found(&v, err, "domain")
}

func (s *SQLiteDatabase) ListContacts(ctx context.Context, limit int) ([]*sqlc.Contact, error) {
	contacts, err := s.queries.ListContacts(ctx, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return pointers(contacts), nil
}

func (s *SQLiteDatabase) ListDomains(ctx context.Context, limit int) ([]*sqlc.Domain, error) {
	domains, err := s.queries.ListDomains(ctx, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	return pointers(domains), nil
}

// Ingest run tracking

func (s *SQLiteDatabase) CreateIngestRun(ctx context.Context, operation, parameters string, startedAt time.Time) (int64, error) {
	id, err := s.queries.InsertIngestRun(ctx, sqlc.InsertIngestRunParams{
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  startedAt.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("creating ingest run: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) FinishIngestRun(ctx context.Context, id int64, status string, finishedAt time.Time, report mailorg.BatchReport) error {
	err := s.queries.FinishIngestRun(ctx, sqlc.FinishIngestRunParams{
		Status:     status,
		FinishedAt: sql.NullTime{Time: finishedAt.UTC(), Valid: true},
		Processed:  int64(report.Processed),
		Created:    int64(report.Created),
		Duplicates: int64(report.Duplicates),
		Failed:     int64(report.Failed),
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing ingest run: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindIngestRun(ctx context.Context, id int64) (*sqlc.IngestRun, error) {
	v, err := s.queries.GetIngestRun(ctx, id)
	return found(&v, err, "ingest run")
}

func (s *SQLiteDatabase) ListIngestRuns(ctx context.Context, limit int) ([]*sqlc.IngestRun, error) {
	runs, err := s.queries.ListIngestRuns(ctx, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing ingest runs: %w", err)
	}
	return pointers(runs), nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// found adapts a sqlc :one result so that a missing row is (nil, nil).
func found[T any](v *T, err error, what string) (*T, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding %s: %w", what, err)
	}
	return v, nil
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Compile-time check that SQLiteDatabase implements mailorg.Database interface
var _ mailorg.Database = (*SQLiteDatabase)(nil)
