package mailorg

import (
	"context"
	"fmt"
	"io"

	"mailorg/internal/database/sqlc"
)

// MessageView is a committed message with its linked entities.
type MessageView struct {
	Message     *sqlc.Message
	Body        *sqlc.Body
	Thread      *sqlc.Thread
	Attachments []*sqlc.Attachment
	Objects     []*sqlc.HtmlObject
	Disclaimers []*sqlc.Disclaimer
}

// GetMessage loads a message by internal id or, failing that, by Message-ID.
func (s *Service) GetMessage(ctx context.Context, ref string) (*MessageView, error) {
	msg, err := s.database.FindMessageByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("finding message: %w", err)
	}
	if msg == nil {
		msg, err = s.database.FindMessageByMessageID(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("finding message by Message-ID: %w", err)
		}
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s: %w", ref, ErrNotFound)
	}

	view := &MessageView{Message: msg}
	if view.Body, err = s.database.FindBody(ctx, msg.BodyID); err != nil {
		return nil, fmt.Errorf("finding body: %w", err)
	}
	if view.Thread, err = s.database.FindThread(ctx, msg.ThreadID); err != nil {
		return nil, fmt.Errorf("finding thread: %w", err)
	}
	if view.Attachments, err = s.database.ListAttachmentsForMessage(ctx, msg.ID); err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	if view.Objects, err = s.database.ListObjectsForBody(ctx, msg.BodyID); err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}
	if view.Disclaimers, err = s.database.ListDisclaimersForBody(ctx, msg.BodyID); err != nil {
		return nil, fmt.Errorf("listing disclaimers: %w", err)
	}
	return view, nil
}

// LoadContent writes stored bytes to w.
func (s *Service) LoadContent(ctx context.Context, kind ContentKind, id string, w io.Writer) error {
	if err := s.store.Get(ctx, kind, id, w); err != nil {
		return fmt.Errorf("loading %s %s: %w", kind, id, err)
	}
	return nil
}

// LoadBody writes the sanitized body of a message to w.
func (s *Service) LoadBody(ctx context.Context, body *sqlc.Body, w io.Writer) error {
	return s.LoadContent(ctx, BodyKind(body.Format), body.ID, w)
}

func (s *Service) ListThreads(ctx context.Context, limit int) ([]*sqlc.Thread, error) {
	return s.database.ListThreads(ctx, limit)
}

func (s *Service) ListThreadMessages(ctx context.Context, threadID string) ([]*sqlc.Message, error) {
	return s.database.ListMessagesByThread(ctx, threadID)
}

func (s *Service) ListContacts(ctx context.Context, limit int) ([]*sqlc.Contact, error) {
	return s.database.ListContacts(ctx, limit)
}

func (s *Service) ListDomains(ctx context.Context, limit int) ([]*sqlc.Domain, error) {
	return s.database.ListDomains(ctx, limit)
}

// GetHistory returns the most recent ingest runs, newest first.
func (s *Service) GetHistory(ctx context.Context, limit int) ([]*sqlc.IngestRun, error) {
	runs, err := s.database.ListIngestRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing ingest runs: %w", err)
	}
	return runs, nil
}
