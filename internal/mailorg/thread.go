package mailorg

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"mailorg/internal/database/sqlc"
)

// DefaultThreadWindow is how long after its last message a thread still
// accepts new messages with the same normalized subject.
const DefaultThreadWindow = 7 * 24 * time.Hour

// NoSubject is the normalized subject of messages without one.
const NoSubject = "(No Subject)"

var replyPrefix = regexp.MustCompile(`(?i)^(?:re|fwd|fw):\s*`)

// NormalizeSubject strips a single leading reply or forward marker. A
// subject that is nothing but a marker is kept as is.
func NormalizeSubject(subject string) string {
	if subject == "" {
		return NoSubject
	}
	stripped := strings.TrimSpace(replyPrefix.ReplaceAllString(strings.TrimSpace(subject), ""))
	if stripped == "" {
		return subject
	}
	return stripped
}

// ResolveThread returns the thread a message with subject sent at sentAt
// belongs to, extending or creating it.
func (s *Service) ResolveThread(ctx context.Context, subject string, sentAt time.Time) (*sqlc.Thread, error) {
	req := s.threadRequest(subject, sentAt)

	s.threadMu.Lock()
	defer s.threadMu.Unlock()

	thread, err := s.database.ResolveThread(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resolving thread: %w", err)
	}

	s.logger.Info("thread resolved", "thread", thread.ID, "subject", thread.Subject, "created", thread.ID == req.NewID)
	return thread, nil
}

func (s *Service) threadRequest(subject string, sentAt time.Time) ThreadRequest {
	return ThreadRequest{
		NewID:   s.idgen.New(),
		Subject: NormalizeSubject(subject),
		SentAt:  sentAt.UTC(),
		Since:   s.clock.Now().Add(-s.threadWindow).UTC(),
	}
}
