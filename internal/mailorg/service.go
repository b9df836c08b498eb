package mailorg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"mailorg/internal/database/sqlc"
	"mailorg/internal/mime"
	"mailorg/internal/sanitize"
)

// Options tunes the ingestion pipeline. Zero values select the defaults.
type Options struct {
	ThreadWindow   time.Duration
	MaxMessageSize int64
}

// Service is the ingestion orchestrator. It runs each raw message through
// decomposition, sanitizing, attachment registration, thread resolution and
// aggregation, and commits the result atomically.
type Service struct {
	database     Database
	store        ContentStore
	fsmgr        FilesystemManager
	notifier     Notifier
	logger       Logger
	clock        Clock
	idgen        IDGenerator
	decomposer   *mime.Decomposer
	sanitizer    *sanitize.Sanitizer
	registrar    *AttachmentRegistrar
	threadWindow time.Duration

	// threadMu serializes thread resolution so that two messages with the
	// same subject cannot both create a thread.
	threadMu sync.Mutex
}

// NewService creates a Service with the provided dependencies.
func NewService(database Database, store ContentStore, fsmgr FilesystemManager, notifier Notifier, logger Logger, clock Clock, idgen IDGenerator, opts Options) *Service {
	if opts.ThreadWindow <= 0 {
		opts.ThreadWindow = DefaultThreadWindow
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		database:     database,
		store:        store,
		fsmgr:        fsmgr,
		notifier:     notifier,
		logger:       logger,
		clock:        clock,
		idgen:        idgen,
		decomposer:   mime.NewDecomposer(opts.MaxMessageSize),
		sanitizer:    sanitize.New(idgen.New),
		registrar:    NewAttachmentRegistrar(database, store, logger, clock),
		threadWindow: opts.ThreadWindow,
	}
}

// Source is one raw message of a batch.
type Source struct {
	Name string
	Data []byte
}

// Ingest runs one raw message through the pipeline for an account.
// Duplicates are reported through the Outcome with a nil error; every other
// skip returns the reason as error as well.
func (s *Service) Ingest(ctx context.Context, raw []byte, accountID string) (*Outcome, error) {
	out := &Outcome{LastState: StateReceived}
	if err := s.ingest(ctx, raw, accountID, out); err != nil {
		out.State = StateSkipped
		out.Reason = err
		if errors.Is(err, ErrDuplicateMessage) {
			s.logger.Info("duplicate message skipped", "message_id", out.MessageID, "existing", out.MessageRef)
			return out, nil
		}
		s.logger.Warn("message skipped", "message_id", out.MessageID, "state", string(out.LastState), "error", err)
		return out, err
	}
	out.State = StateCommitted
	return out, nil
}

func (s *Service) ingest(ctx context.Context, raw []byte, accountID string, out *Outcome) error {
	if accountID == "" {
		return errors.New("account reference is required")
	}

	msg, err := s.decomposer.Decompose(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	out.MessageID = msg.MessageID
	out.LastState = StateDecomposed
	for _, w := range msg.Warnings {
		s.logger.Warn("tolerated decode problem", "message_id", msg.MessageID, "problem", w)
	}

	if msg.MessageID == "" {
		return ErrMissingMessageID
	}
	existing, err := s.database.FindMessageByMessageID(ctx, msg.MessageID)
	if err != nil {
		return fmt.Errorf("checking for existing message: %w", err)
	}
	if existing != nil {
		out.MessageRef = existing.ID
		return ErrDuplicateMessage
	}
	out.LastState = StateDedupChecked

	graph, err := s.extractContent(ctx, msg)
	if err != nil {
		return err
	}
	out.LastState = StateContentExtracted

	sentAt := msg.Date
	if sentAt.IsZero() {
		sentAt = s.clock.Now()
	}
	graph.Thread = s.threadRequest(msg.Subject, sentAt)
	out.LastState = StateThreaded

	graph.Contacts, graph.Domains = Aggregate(msg.From, msg.To, msg.Cc, msg.Bcc)
	out.LastState = StateAggregated

	graph.Message = sqlc.Message{
		ID:           s.idgen.New(),
		AccountID:    accountID,
		MessageID:    msg.MessageID,
		Sender:       msg.From,
		Recipients:   msg.To,
		Cc:           msg.Cc,
		Bcc:          msg.Bcc,
		Subject:      msg.Subject,
		DateSent:     sentAt.UTC(),
		Format:       graph.Body.Format,
		BodyID:       graph.Body.ID,
		HasForwarded: graph.forwarded,
		CreatedAt:    s.clock.Now(),
	}

	s.threadMu.Lock()
	thread, err := s.database.CommitMessage(ctx, &graph.MessageGraph)
	s.threadMu.Unlock()
	if err != nil {
		if errors.Is(err, ErrDuplicateMessage) {
			return err
		}
		return fmt.Errorf("committing message: %w", err)
	}

	out.Created = true
	out.MessageRef = graph.Message.ID
	out.ThreadID = thread.ID
	out.LastState = StateCommitted

	s.logger.Info("message ingested",
		"message_id", msg.MessageID,
		"ref", graph.Message.ID,
		"thread", thread.ID,
		"attachments", len(graph.Attachments),
		"objects", len(graph.Objects),
		"disclaimers", len(graph.Disclaimers))

	event := &MessageIngestedEvent{
		MessageRef:   graph.Message.ID,
		MessageID:    msg.MessageID,
		AccountID:    accountID,
		ThreadID:     thread.ID,
		Subject:      msg.Subject,
		Attachments:  len(graph.Attachments),
		HasForwarded: graph.forwarded,
		IngestedAt:   s.clock.Now(),
	}
	if err := s.notifier.MessageIngested(ctx, event); err != nil {
		s.logger.Warn("publishing message event failed", "message_id", msg.MessageID, "error", err)
	}
	return nil
}

// extractedGraph carries the sanitizer's forwarded flag alongside the graph.
type extractedGraph struct {
	MessageGraph
	forwarded bool
}

// extractContent sanitizes the body and writes body, object, disclaimer and
// attachment bytes to the content store. Store writes are idempotent, so
// bytes left behind by a later failure are harmless.
func (s *Service) extractContent(ctx context.Context, msg *mime.Message) (*extractedGraph, error) {
	now := s.clock.Now()
	graph := &extractedGraph{}

	text, format := "", sanitize.FormatText
	if msg.Body != nil {
		text = string(msg.Body.Data)
		if msg.Body.IsHTML() {
			format = sanitize.FormatHTML
		}
	}

	res, err := s.sanitizer.Sanitize(text, format)
	if err != nil {
		return nil, fmt.Errorf("sanitizing body: %w", err)
	}
	for _, w := range res.Warnings {
		s.logger.Warn("body sanitizer problem", "message_id", msg.MessageID, "problem", w)
	}
	if res.HasForwarded {
		graph.forwarded = true
		s.logger.Info("forwarded content detected", "message_id", msg.MessageID, "size", len(res.Forwarded))
	}

	bodyID := s.idgen.New()
	kind := BodyKind(string(res.Format))
	ref, err := s.store.Put(ctx, kind, bodyID, strings.NewReader(res.Body), int64(len(res.Body)))
	if err != nil {
		return nil, fmt.Errorf("%w: body %s: %w", ErrStoreWrite, bodyID, err)
	}
	graph.Body = sqlc.Body{
		ID:         bodyID,
		Format:     string(res.Format),
		ContentRef: ref,
		Size:       int64(len(res.Body)),
		CreatedAt:  now,
	}

	for _, obj := range res.Objects {
		ref, err := s.store.Put(ctx, KindObject, obj.ID, bytes.NewReader(obj.Data), int64(len(obj.Data)))
		if err != nil {
			return nil, fmt.Errorf("%w: object %s: %w", ErrStoreWrite, obj.ID, err)
		}
		graph.Objects = append(graph.Objects, sqlc.HtmlObject{
			ID:          obj.ID,
			BodyID:      bodyID,
			ContentType: obj.ContentType,
			Size:        int64(len(obj.Data)),
			ContentRef:  ref,
			CreatedAt:   now,
		})
	}

	for _, disclaimer := range res.Disclaimers {
		id := ContentHash([]byte(disclaimer))
		if _, err := s.store.Put(ctx, KindDisclaimer, id, strings.NewReader(disclaimer), int64(len(disclaimer))); err != nil {
			return nil, fmt.Errorf("%w: disclaimer %s: %w", ErrStoreWrite, id, err)
		}
		graph.Disclaimers = append(graph.Disclaimers, sqlc.Disclaimer{ID: id, Text: disclaimer, CreatedAt: now})
	}

	linked := make(map[string]bool)
	for _, part := range msg.Attachments() {
		att, err := s.registrar.Register(ctx, part.Data, part.Filename, part.ContentType)
		if err != nil {
			return nil, fmt.Errorf("registering attachment %q: %w", part.Filename, err)
		}
		if linked[att.ID] {
			continue
		}
		linked[att.ID] = true
		graph.Attachments = append(graph.Attachments, *att)
	}

	return graph, nil
}

// BodyKind maps a body format to its content kind.
func BodyKind(format string) ContentKind {
	if format == string(sanitize.FormatHTML) {
		return KindBodyHTML
	}
	return KindBodyText
}

// IngestBatch ingests sources in order for one account. A failing message
// never stops the batch; only cancellation of ctx does.
func (s *Service) IngestBatch(ctx context.Context, accountID string, sources []Source) (*BatchReport, error) {
	return s.runBatch(ctx, accountID, len(sources), func(i int) (string, []byte, error) {
		return sources[i].Name, sources[i].Data, nil
	})
}

// IngestPath ingests a single message file, or every message file in a
// directory (descending into subdirectories when recursive is true).
func (s *Service) IngestPath(ctx context.Context, accountID string, path *Path, recursive bool) (*BatchReport, error) {
	files := []*Path{path}
	if path.IsDir() {
		found, err := s.fsmgr.FindFiles(path, recursive)
		if err != nil {
			return nil, fmt.Errorf("finding message files: %w", err)
		}
		files = found
	}

	return s.runBatch(ctx, accountID, len(files), func(i int) (string, []byte, error) {
		raw, err := s.readFile(files[i])
		return files[i].String(), raw, err
	})
}

func (s *Service) readFile(path *Path) ([]byte, error) {
	f, err := s.fsmgr.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening message file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading message file: %w", err)
	}
	return raw, nil
}

func (s *Service) runBatch(ctx context.Context, accountID string, n int, next func(int) (string, []byte, error)) (*BatchReport, error) {
	if err := s.database.EnsureAccount(ctx, accountID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("registering account: %w", err)
	}

	report := &BatchReport{}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name, raw, err := next(i)
		if err != nil {
			s.logger.Warn("message source unreadable", "source", name, "error", err)
			report.Add(name, &Outcome{State: StateSkipped, LastState: StateReceived, Reason: err})
			continue
		}

		out, _ := s.Ingest(ctx, raw, accountID)
		report.Add(name, out)
	}

	now := s.clock.Now()
	if err := s.database.MarkAccountSynced(ctx, accountID, now); err != nil {
		return report, fmt.Errorf("recording account sync: %w", err)
	}

	s.logger.Info("batch complete",
		"account", accountID,
		"processed", report.Processed,
		"created", report.Created,
		"duplicates", report.Duplicates,
		"failed", report.Failed)

	event := &BatchIngestedEvent{AccountID: accountID, Report: *report, FinishedAt: now}
	if err := s.notifier.BatchIngested(ctx, event); err != nil {
		s.logger.Warn("publishing batch event failed", "account", accountID, "error", err)
	}
	return report, nil
}

// IngestAccounts ingests the batches of several accounts concurrently, one
// goroutine per account. Messages within an account stay sequential.
func (s *Service) IngestAccounts(ctx context.Context, batches map[string][]Source) (map[string]*BatchReport, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		reports = make(map[string]*BatchReport, len(batches))
	)

	for accountID, sources := range batches {
		wg.Add(1)
		go func(accountID string, sources []Source) {
			defer wg.Done()
			report, err := s.IngestBatch(ctx, accountID, sources)

			mu.Lock()
			defer mu.Unlock()
			if report != nil {
				reports[accountID] = report
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("account %s: %w", accountID, err))
			}
		}(accountID, sources)
	}
	wg.Wait()

	return reports, errors.Join(errs...)
}
