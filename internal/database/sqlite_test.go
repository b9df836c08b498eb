package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"mailorg/internal/database/sqlc"
	"mailorg/internal/mailorg"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// newGraph builds a minimal message graph for messageID with a fresh body
// and thread request.
func newGraph(messageID, subject string, sentAt time.Time) *mailorg.MessageGraph {
	bodyID := uuid.New().String()
	return &mailorg.MessageGraph{
		Message: sqlc.Message{
			ID:         uuid.New().String(),
			AccountID:  "acct-1",
			MessageID:  messageID,
			Sender:     "alice@example.com",
			Recipients: "bob@example.org",
			Subject:    subject,
			DateSent:   sentAt,
			Format:     "text",
			BodyID:     bodyID,
			CreatedAt:  baseTime,
		},
		Body: sqlc.Body{
			ID:         bodyID,
			Format:     "text",
			ContentRef: "body-text/" + bodyID,
			Size:       5,
			CreatedAt:  baseTime,
		},
		Thread: mailorg.ThreadRequest{
			NewID:   uuid.New().String(),
			Subject: subject,
			SentAt:  sentAt,
			Since:   sentAt.Add(-mailorg.DefaultThreadWindow),
		},
	}
}

func commit(t *testing.T, db *SQLiteDatabase, graph *mailorg.MessageGraph) *sqlc.Thread {
	t.Helper()

	thread, err := db.CommitMessage(context.Background(), graph)
	if err != nil {
		t.Fatalf("CommitMessage(%s) error = %v", graph.Message.MessageID, err)
	}
	return thread
}

func TestSQLiteDatabase_FindMessageByMessageID(t *testing.T) {
	t.Run("returns nil when message not found", func(t *testing.T) {
		db := newTestDB(t)

		msg, err := db.FindMessageByMessageID(context.Background(), "missing@example.com")
		if err != nil {
			t.Fatalf("FindMessageByMessageID() error = %v", err)
		}
		if msg != nil {
			t.Errorf("FindMessageByMessageID() = %v, want nil", msg)
		}
	})

	t.Run("finds committed message", func(t *testing.T) {
		db := newTestDB(t)
		graph := newGraph("m1@example.com", "Hello", baseTime)
		commit(t, db, graph)

		msg, err := db.FindMessageByMessageID(context.Background(), "m1@example.com")
		if err != nil {
			t.Fatalf("FindMessageByMessageID() error = %v", err)
		}
		if msg == nil {
			t.Fatal("FindMessageByMessageID() returned nil, want message")
		}
		if msg.ID != graph.Message.ID {
			t.Errorf("ID = %v, want %v", msg.ID, graph.Message.ID)
		}
		if !msg.DateSent.Equal(baseTime) {
			t.Errorf("DateSent = %v, want %v", msg.DateSent, baseTime)
		}
	})
}

func TestSQLiteDatabase_CommitMessage(t *testing.T) {
	t.Run("writes the whole graph", func(t *testing.T) {
		db := newTestDB(t)
		ctx := context.Background()

		graph := newGraph("m1@example.com", "Quarterly numbers", baseTime)
		graph.Disclaimers = []sqlc.Disclaimer{{ID: "d-hash", Text: "CONFIDENTIALITY NOTICE: private", CreatedAt: baseTime}}
		graph.Attachments = []sqlc.Attachment{{
			ID: "a-hash", Filename: "report.pdf", ContentType: "application/pdf",
			Size: 9, ContentRef: "attachment/a-hash", CreatedAt: baseTime,
		}}
		graph.Objects = []sqlc.HtmlObject{{
			ID: "obj-1", BodyID: graph.Body.ID, ContentType: "image/png",
			Size: 4, ContentRef: "object/obj-1", CreatedAt: baseTime,
		}}
		graph.Contacts = []mailorg.ContactDelta{
			{Email: "alice@example.com", Sent: 1},
			{Email: "bob@example.org", Received: 1},
		}
		graph.Domains = []mailorg.DomainDelta{
			{Name: "example.com", Sent: 1},
			{Name: "example.org", Received: 1},
		}

		thread := commit(t, db, graph)
		if thread.ID != graph.Thread.NewID {
			t.Errorf("thread ID = %v, want new thread %v", thread.ID, graph.Thread.NewID)
		}

		msg, err := db.FindMessageByID(ctx, graph.Message.ID)
		if err != nil || msg == nil {
			t.Fatalf("FindMessageByID() = %v, %v", msg, err)
		}
		if msg.ThreadID != thread.ID {
			t.Errorf("ThreadID = %v, want %v", msg.ThreadID, thread.ID)
		}

		atts, err := db.ListAttachmentsForMessage(ctx, msg.ID)
		if err != nil {
			t.Fatalf("ListAttachmentsForMessage() error = %v", err)
		}
		if len(atts) != 1 || atts[0].Filename != "report.pdf" {
			t.Errorf("attachments = %v, want report.pdf", atts)
		}

		ds, err := db.ListDisclaimersForBody(ctx, graph.Body.ID)
		if err != nil {
			t.Fatalf("ListDisclaimersForBody() error = %v", err)
		}
		if len(ds) != 1 || ds[0].ID != "d-hash" {
			t.Errorf("disclaimers = %v, want d-hash", ds)
		}

		objs, err := db.ListObjectsForBody(ctx, graph.Body.ID)
		if err != nil {
			t.Fatalf("ListObjectsForBody() error = %v", err)
		}
		if len(objs) != 1 {
			t.Errorf("len(objects) = %d, want 1", len(objs))
		}

		account, err := db.FindAccount(ctx, "acct-1")
		if err != nil || account == nil {
			t.Fatalf("FindAccount() = %v, %v", account, err)
		}
	})

	t.Run("rejects duplicate Message-ID and writes nothing", func(t *testing.T) {
		db := newTestDB(t)
		ctx := context.Background()

		commit(t, db, newGraph("dup@example.com", "Hello", baseTime))

		second := newGraph("dup@example.com", "Hello", baseTime)
		second.Contacts = []mailorg.ContactDelta{{Email: "alice@example.com", Sent: 1}}
		_, err := db.CommitMessage(ctx, second)
		if !errors.Is(err, mailorg.ErrDuplicateMessage) {
			t.Fatalf("CommitMessage() error = %v, want ErrDuplicateMessage", err)
		}

		body, err := db.FindBody(ctx, second.Body.ID)
		if err != nil {
			t.Fatalf("FindBody() error = %v", err)
		}
		if body != nil {
			t.Error("body of rejected duplicate was written")
		}
		contact, err := db.FindContact(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("FindContact() error = %v", err)
		}
		if contact != nil {
			t.Error("contact counters of rejected duplicate were written")
		}
	})

	t.Run("shares attachments and disclaimers between messages", func(t *testing.T) {
		db := newTestDB(t)
		ctx := context.Background()

		att := sqlc.Attachment{
			ID: "a-hash", Filename: "logo.png", ContentType: "image/png",
			Size: 3, ContentRef: "attachment/a-hash", CreatedAt: baseTime,
		}
		disc := sqlc.Disclaimer{ID: "d-hash", Text: "DISCLAIMER: none", CreatedAt: baseTime}

		for _, id := range []string{"m1@example.com", "m2@example.com"} {
			graph := newGraph(id, "Logo", baseTime)
			graph.Attachments = []sqlc.Attachment{att}
			graph.Disclaimers = []sqlc.Disclaimer{disc}
			commit(t, db, graph)
		}

		n, err := db.CountAttachmentLinks(ctx, "a-hash")
		if err != nil {
			t.Fatalf("CountAttachmentLinks() error = %v", err)
		}
		if n != 2 {
			t.Errorf("CountAttachmentLinks() = %d, want 2", n)
		}
	})

	t.Run("accumulates contact and domain counters", func(t *testing.T) {
		db := newTestDB(t)
		ctx := context.Background()

		for i, id := range []string{"m1@example.com", "m2@example.com", "m3@example.com"} {
			graph := newGraph(id, "Status", baseTime.Add(time.Duration(i)*time.Hour))
			graph.Contacts = []mailorg.ContactDelta{
				{Email: "john.smith@example.com", FirstName: "John", LastName: "Smith", Sent: 1},
				{Email: "bob@example.org", Received: 2},
			}
			graph.Domains = []mailorg.DomainDelta{{Name: "example.com", Sent: 1, Received: 2}}
			commit(t, db, graph)
		}

		john, err := db.FindContact(ctx, "john.smith@example.com")
		if err != nil || john == nil {
			t.Fatalf("FindContact() = %v, %v", john, err)
		}
		if john.SentCount != 3 || john.ReceivedCount != 0 {
			t.Errorf("john counters = %d/%d, want 3/0", john.SentCount, john.ReceivedCount)
		}
		if john.FirstName != "John" || john.LastName != "Smith" {
			t.Errorf("john name = %q %q, want John Smith", john.FirstName, john.LastName)
		}

		bob, err := db.FindContact(ctx, "bob@example.org")
		if err != nil || bob == nil {
			t.Fatalf("FindContact() = %v, %v", bob, err)
		}
		if bob.ReceivedCount != 6 {
			t.Errorf("bob received = %d, want 6", bob.ReceivedCount)
		}

		domain, err := db.FindDomain(ctx, "example.com")
		if err != nil || domain == nil {
			t.Fatalf("FindDomain() = %v, %v", domain, err)
		}
		if domain.SentCount != 3 || domain.ReceivedCount != 6 {
			t.Errorf("domain counters = %d/%d, want 3/6", domain.SentCount, domain.ReceivedCount)
		}

		contacts, err := db.ListContacts(ctx, 0)
		if err != nil {
			t.Fatalf("ListContacts() error = %v", err)
		}
		if len(contacts) != 2 || contacts[0].Email != "bob@example.org" {
			t.Errorf("ListContacts() order = %v, want bob first", contacts)
		}
	})
}

func TestSQLiteDatabase_ResolveThread(t *testing.T) {
	ctx := context.Background()

	request := func(subject string, sentAt time.Time) mailorg.ThreadRequest {
		return mailorg.ThreadRequest{
			NewID:   uuid.New().String(),
			Subject: subject,
			SentAt:  sentAt,
			Since:   sentAt.Add(-mailorg.DefaultThreadWindow),
		}
	}

	t.Run("joins thread within the window", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.ResolveThread(ctx, request("Budget", baseTime))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}
		second, err := db.ResolveThread(ctx, request("Budget", baseTime.Add(2*time.Hour)))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("second thread = %v, want %v", second.ID, first.ID)
		}
		if !second.LastDate.Equal(baseTime.Add(2 * time.Hour)) {
			t.Errorf("LastDate = %v, want %v", second.LastDate, baseTime.Add(2*time.Hour))
		}
		if !second.DateStarted.Equal(baseTime) {
			t.Errorf("DateStarted = %v, want %v", second.DateStarted, baseTime)
		}
	})

	t.Run("starts new thread outside the window", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.ResolveThread(ctx, request("Budget", baseTime))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}
		later, err := db.ResolveThread(ctx, request("Budget", baseTime.Add(30*24*time.Hour)))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}

		if later.ID == first.ID {
			t.Error("message 30 days later joined the old thread")
		}
	})

	t.Run("never moves last date backwards", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.ResolveThread(ctx, request("Budget", baseTime.Add(3*time.Hour)))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}

		req := request("Budget", baseTime)
		req.Since = baseTime.Add(-time.Hour)
		got, err := db.ResolveThread(ctx, req)
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}

		if got.ID != first.ID {
			t.Fatalf("thread = %v, want %v", got.ID, first.ID)
		}
		if !got.LastDate.Equal(baseTime.Add(3 * time.Hour)) {
			t.Errorf("LastDate = %v, want %v", got.LastDate, baseTime.Add(3*time.Hour))
		}
	})

	t.Run("different subjects never share a thread", func(t *testing.T) {
		db := newTestDB(t)

		a, err := db.ResolveThread(ctx, request("Budget", baseTime))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}
		b, err := db.ResolveThread(ctx, request("Offsite", baseTime))
		if err != nil {
			t.Fatalf("ResolveThread() error = %v", err)
		}

		if a.ID == b.ID {
			t.Error("different subjects resolved to the same thread")
		}

		threads, err := db.ListThreads(ctx, 10)
		if err != nil {
			t.Fatalf("ListThreads() error = %v", err)
		}
		if len(threads) != 2 {
			t.Errorf("len(ListThreads()) = %d, want 2", len(threads))
		}
	})
}

func TestSQLiteDatabase_ListMessagesByThread(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	later := newGraph("m2@example.com", "Plans", baseTime.Add(time.Hour))
	earlier := newGraph("m1@example.com", "Plans", baseTime)
	thread := commit(t, db, later)
	commit(t, db, earlier)

	msgs, err := db.ListMessagesByThread(ctx, thread.ID)
	if err != nil {
		t.Fatalf("ListMessagesByThread() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].MessageID != "m1@example.com" {
		t.Errorf("first message = %v, want m1@example.com", msgs[0].MessageID)
	}
}

func TestSQLiteDatabase_IngestRuns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.CreateIngestRun(ctx, "ingest", `{"paths":["/mail"]}`, baseTime)
	if err != nil {
		t.Fatalf("CreateIngestRun() error = %v", err)
	}

	run, err := db.FindIngestRun(ctx, id)
	if err != nil || run == nil {
		t.Fatalf("FindIngestRun() = %v, %v", run, err)
	}
	if run.Status != "running" || run.FinishedAt.Valid {
		t.Errorf("new run = %+v, want running and unfinished", run)
	}

	report := mailorg.BatchReport{Processed: 4, Created: 2, Duplicates: 1, Failed: 1}
	if err := db.FinishIngestRun(ctx, id, "failed", baseTime.Add(time.Minute), report); err != nil {
		t.Fatalf("FinishIngestRun() error = %v", err)
	}

	runs, err := db.ListIngestRuns(ctx, 5)
	if err != nil {
		t.Fatalf("ListIngestRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(ListIngestRuns()) = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.Status != "failed" || !got.FinishedAt.Valid {
		t.Errorf("finished run = %+v", got)
	}
	if got.Processed != 4 || got.Created != 2 || got.Duplicates != 1 || got.Failed != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 4/2/1/1", got.Processed, got.Created, got.Duplicates, got.Failed)
	}
}

func TestSQLiteDatabase_MarkAccountSynced(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.EnsureAccount(ctx, "acct-1", baseTime); err != nil {
		t.Fatalf("EnsureAccount() error = %v", err)
	}
	if err := db.EnsureAccount(ctx, "acct-1", baseTime.Add(time.Hour)); err != nil {
		t.Fatalf("second EnsureAccount() error = %v", err)
	}
	if err := db.MarkAccountSynced(ctx, "acct-1", baseTime.Add(2*time.Hour)); err != nil {
		t.Fatalf("MarkAccountSynced() error = %v", err)
	}

	account, err := db.FindAccount(ctx, "acct-1")
	if err != nil || account == nil {
		t.Fatalf("FindAccount() = %v, %v", account, err)
	}
	if !account.CreatedAt.Equal(baseTime) {
		t.Errorf("CreatedAt = %v, want %v", account.CreatedAt, baseTime)
	}
	if !account.LastSync.Valid || !account.LastSync.Time.Equal(baseTime.Add(2*time.Hour)) {
		t.Errorf("LastSync = %v, want %v", account.LastSync, baseTime.Add(2*time.Hour))
	}
}

func TestSQLiteDatabase_Migrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mail.db")
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() error = %v", err)
	}
	defer db.Close()

	if err := db.CheckMigrations(); err == nil {
		t.Error("CheckMigrations() on fresh database expected error")
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() after Migrate() error = %v", err)
	}
}
