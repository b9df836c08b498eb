package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mailorg/internal/config"
	"mailorg/internal/database"
	"mailorg/internal/database/sqlc"
	"mailorg/internal/encryption"
	"mailorg/internal/fs"
	"mailorg/internal/mailorg"
	"mailorg/internal/notify"
	"mailorg/internal/store"
)

// MailApp is the application layer between the CLI and the ingestion Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages the DB lifecycle on Close.
type MailApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	store     mailorg.ContentStore
	fsmgr     mailorg.FilesystemManager
	encryptor mailorg.Encryptor
	amqp      *notify.Client
	clock     mailorg.Clock
	logger    mailorg.Logger
	service   *mailorg.Service
	op        *IngestOperation
	logFile   *os.File
}

// NewMailApp creates a fully wired MailApp from the given config.
// operation identifies the CLI command being run (e.g. "Ingest", "ListThreads").
// The caller must call Close when done.
func NewMailApp(ctx context.Context, cfg *config.Config, operation string) (*MailApp, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	l, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &logrusAdapter{l: l}

	a := &MailApp{
		cfg:     cfg,
		fsmgr:   fs.NewOSFilesystemManager(cfg.Ingest.Ignore),
		clock:   mailorg.RealClock{},
		logger:  logger,
		op:      NewIngestOperation(operation, ""),
		logFile: logFile,
	}
	if err := a.wire(ctx); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *MailApp) wire(ctx context.Context) error {
	var err error
	cfg := a.cfg

	a.encryptor, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}

	a.store, err = store.NewStoreFromConfig(ctx, cfg.Store, a.encryptor)
	if err != nil {
		return fmt.Errorf("creating content store: %w", err)
	}
	if err := a.store.ValidateSetup(ctx); err != nil {
		return fmt.Errorf("content store not ready: %w", err)
	}

	a.db, err = database.NewDatabaseFromConfig(cfg.Database, cfg.Account)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := a.db.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date: %w", err)
	}

	var notifier mailorg.Notifier = mailorg.NopNotifier{}
	if cfg.Notify.Type == "amqp" {
		a.amqp, err = notify.Dial(cfg.Notify.AMQPURL, a.logger)
		if err != nil {
			return fmt.Errorf("connecting notifier: %w", err)
		}
		exchange := cfg.Notify.Exchange
		if exchange == "" {
			exchange = notify.DefaultExchange
		}
		publisher, err := notify.NewAMQPPublisher(a.amqp.Channel(), exchange)
		if err != nil {
			return fmt.Errorf("creating publisher: %w", err)
		}
		notifier = notify.NewAMQPNotifier(publisher)
	}

	opts := mailorg.Options{
		ThreadWindow:   time.Duration(cfg.Ingest.ThreadWindowDays) * 24 * time.Hour,
		MaxMessageSize: cfg.Ingest.MaxMessageSize,
	}
	a.service = mailorg.NewService(a.db, a.store, a.fsmgr, notifier, a.logger, a.clock, mailorg.UUIDGenerator{}, opts)
	return nil
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *MailApp) persistOperation(ctx context.Context, parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	id, err := a.db.CreateIngestRun(ctx, a.op.Operation, parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting ingest run: %w", err)
	}
	a.op.ID = id
	return nil
}

// Ingest resolves each raw path and ingests the message file, or the message
// files of the directory, for accountID. An empty accountID selects the
// configured account. Reports of all paths are merged.
func (a *MailApp) Ingest(ctx context.Context, rawPaths []string, accountID string, recursive bool) (*mailorg.BatchReport, error) {
	if accountID == "" {
		accountID = a.cfg.Account
	}
	if err := a.persistOperation(ctx, strings.Join(rawPaths, " ")); err != nil {
		return nil, err
	}

	total := &mailorg.BatchReport{}
	for _, raw := range rawPaths {
		p, err := a.fsmgr.Resolve(raw)
		if err != nil {
			a.op.Fail()
			return total, fmt.Errorf("resolving path: %w", err)
		}
		report, err := a.service.IngestPath(ctx, accountID, p, recursive)
		if report != nil {
			a.op.Record(report)
			total.Merge(report)
		}
		if err != nil {
			a.op.Fail()
			return total, fmt.Errorf("ingesting %s: %w", p, err)
		}
	}
	return total, nil
}

// ResolveThread finds or creates the thread for subject at the given time.
func (a *MailApp) ResolveThread(ctx context.Context, subject string, at time.Time) (*sqlc.Thread, error) {
	if err := a.persistOperation(ctx, subject); err != nil {
		return nil, err
	}
	thread, err := a.service.ResolveThread(ctx, subject, at)
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	return thread, nil
}

func (a *MailApp) ListThreads(ctx context.Context, limit int) ([]*sqlc.Thread, error) {
	return a.service.ListThreads(ctx, limit)
}

func (a *MailApp) ListThreadMessages(ctx context.Context, threadID string) ([]*sqlc.Message, error) {
	return a.service.ListThreadMessages(ctx, threadID)
}

func (a *MailApp) ListContacts(ctx context.Context, limit int) ([]*sqlc.Contact, error) {
	return a.service.ListContacts(ctx, limit)
}

func (a *MailApp) ListDomains(ctx context.Context, limit int) ([]*sqlc.Domain, error) {
	return a.service.ListDomains(ctx, limit)
}

// GetMessage loads a message by internal id or Message-ID.
func (a *MailApp) GetMessage(ctx context.Context, ref string) (*mailorg.MessageView, error) {
	return a.service.GetMessage(ctx, ref)
}

// LoadContent writes the stored bytes of kind/id to w. kindName is one of
// the ContentKinds names.
func (a *MailApp) LoadContent(ctx context.Context, kindName, id string, w io.Writer) error {
	kind, ok := mailorg.ParseContentKind(kindName)
	if !ok {
		return fmt.Errorf("unknown content kind %q", kindName)
	}
	return a.service.LoadContent(ctx, kind, id, w)
}

// GetHistory returns the most recent ingest runs.
func (a *MailApp) GetHistory(ctx context.Context, limit int) ([]*sqlc.IngestRun, error) {
	return a.service.GetHistory(ctx, limit)
}

// NeedsUnlock reports whether reading content requires a passphrase.
func (a *MailApp) NeedsUnlock() bool {
	_, ok := a.store.(*store.EncryptedStore)
	return ok
}

// Unlock unlocks the private key so encrypted content can be read.
func (a *MailApp) Unlock(passphrase string) error {
	es, ok := a.store.(*store.EncryptedStore)
	if !ok {
		return nil
	}
	return es.Unlock(passphrase)
}

// Close finalizes the operation and closes all resources.
// Persisted operations get their status and counters recorded first.
func (a *MailApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		ctx := context.Background()
		if err := a.db.FinishIngestRun(ctx, a.op.ID, a.op.Status, a.clock.Now(), a.op.Report); err != nil {
			firstErr = fmt.Errorf("finishing ingest run: %w", err)
		}
	}

	if err := a.closeResources(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *MailApp) closeResources() error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing notifier: %w", err))
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}
