package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mailorg/internal/config"
	"mailorg/internal/store"
	"mailorg/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig("work", t.TempDir())
	cfg.Store = config.StoreConfig{Type: "memory"}
	return cfg
}

func writeMailDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	date := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	files := map[string][]byte{
		"a.eml": testutil.Message{MessageID: "a@example.com", From: "alice@example.com", To: "bob@corp.example", Subject: "Budget", Date: date, Text: "first"}.Bytes(),
		"b.eml": testutil.Message{MessageID: "b@example.com", From: "bob@corp.example", To: "alice@example.com", Subject: "Re: Budget", Date: date.Add(time.Hour), Text: "second"}.Bytes(),
		// Ignored by the default patterns.
		"scratch.tmp": []byte("not a message"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	return dir
}

func TestNewMailApp(t *testing.T) {
	t.Run("wires a memory configuration", func(t *testing.T) {
		a, err := NewMailApp(context.Background(), testConfig(t), "ListThreads")
		if err != nil {
			t.Fatalf("NewMailApp() error = %v", err)
		}
		if err := a.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("rejects an invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Account = ""

		if _, err := NewMailApp(context.Background(), cfg, "ListThreads"); err == nil {
			t.Error("NewMailApp() expected error for missing account")
		}
	})

	t.Run("fails when encryption keys are missing", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Encryption.Type = "age"

		if _, err := NewMailApp(context.Background(), cfg, "Ingest"); err == nil {
			t.Error("NewMailApp() expected error for missing keys")
		}
	})
}

func TestMailApp_Ingest(t *testing.T) {
	cfg := testConfig(t)
	dir := writeMailDir(t)
	ctx := context.Background()

	a, err := NewMailApp(ctx, cfg, "Ingest")
	if err != nil {
		t.Fatalf("NewMailApp() error = %v", err)
	}

	report, err := a.Ingest(ctx, []string{dir}, "", false)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if report.Processed != 2 || report.Created != 2 {
		t.Errorf("report = %+v, want 2 created", report)
	}

	threads, err := a.ListThreads(ctx, 0)
	if err != nil {
		t.Fatalf("ListThreads() error = %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("got %d threads, want 1", len(threads))
	}
	msgs, err := a.ListThreadMessages(ctx, threads[0].ID)
	if err != nil {
		t.Fatalf("ListThreadMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("got %d thread messages, want 2", len(msgs))
	}
	if msgs[0].AccountID != "work" {
		t.Errorf("AccountID = %q, want the configured account", msgs[0].AccountID)
	}

	view, err := a.GetMessage(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetMessage() error = %v", err)
	}
	var buf bytes.Buffer
	if err := a.LoadContent(ctx, "body-text", view.Body.ID, &buf); err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if buf.String() != "first" {
		t.Errorf("body = %q, want %q", buf.String(), "first")
	}
	if err := a.LoadContent(ctx, "thumbnail", view.Body.ID, &buf); err == nil {
		t.Error("LoadContent() expected error for unknown kind")
	}

	contacts, err := a.ListContacts(ctx, 0)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("got %d contacts, want 2", len(contacts))
	}
	domains, err := a.ListDomains(ctx, 0)
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}
	if len(domains) != 2 {
		t.Errorf("got %d domains, want 2", len(domains))
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The run is recorded in the on-disk database.
	b, err := NewMailApp(ctx, cfg, "GetHistory")
	if err != nil {
		t.Fatalf("NewMailApp() error = %v", err)
	}
	defer b.Close()

	runs, err := b.GetHistory(ctx, 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.Operation != "Ingest" || run.Status != StatusSuccess || run.Created != 2 || !run.FinishedAt.Valid {
		t.Errorf("run = %+v", run)
	}
	if run.Parameters != dir {
		t.Errorf("Parameters = %q, want %q", run.Parameters, dir)
	}
}

func TestMailApp_Ingest_MissingPath(t *testing.T) {
	ctx := context.Background()
	a, err := NewMailApp(ctx, testConfig(t), "Ingest")
	if err != nil {
		t.Fatalf("NewMailApp() error = %v", err)
	}
	defer a.Close()

	if _, err := a.Ingest(ctx, []string{filepath.Join(t.TempDir(), "missing")}, "", false); err == nil {
		t.Error("Ingest() expected error for missing path")
	}
	if a.op.Status != StatusError {
		t.Errorf("Status = %q, want %q", a.op.Status, StatusError)
	}
}

func TestMailApp_ResolveThread(t *testing.T) {
	ctx := context.Background()
	a, err := NewMailApp(ctx, testConfig(t), "ResolveThread")
	if err != nil {
		t.Fatalf("NewMailApp() error = %v", err)
	}
	defer a.Close()

	at := time.Now().UTC()
	first, err := a.ResolveThread(ctx, "Budget", at)
	if err != nil {
		t.Fatalf("ResolveThread() error = %v", err)
	}
	second, err := a.ResolveThread(ctx, "RE: Budget", at.Add(time.Minute))
	if err != nil {
		t.Fatalf("ResolveThread() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("threads %s and %s, want one", first.ID, second.ID)
	}
}

func TestMailApp_Unlock(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Encryption.Type = "test"
	dir := writeMailDir(t)

	a, err := NewMailApp(ctx, cfg, "Ingest")
	if err != nil {
		t.Fatalf("NewMailApp() error = %v", err)
	}
	defer a.Close()

	if !a.NeedsUnlock() {
		t.Fatal("NeedsUnlock() = false with encryption enabled")
	}
	if _, err := a.Ingest(ctx, []string{dir}, "", false); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	view, err := a.GetMessage(ctx, "b@example.com")
	if err != nil {
		t.Fatalf("GetMessage() error = %v", err)
	}

	var buf bytes.Buffer
	if err := a.LoadContent(ctx, "body-text", view.Body.ID, &buf); !errors.Is(err, store.ErrLocked) {
		t.Fatalf("LoadContent() error = %v, want ErrLocked", err)
	}
	if err := a.Unlock("wrong"); err == nil {
		t.Error("Unlock() expected error for wrong passphrase")
	}
	if err := a.Unlock("secret"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := a.LoadContent(ctx, "body-text", view.Body.ID, &buf); err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if buf.String() != "second" {
		t.Errorf("body = %q, want %q", buf.String(), "second")
	}
}
