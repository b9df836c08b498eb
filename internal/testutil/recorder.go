package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mailorg/internal/mailorg"
)

// RecordingNotifier keeps every published event.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []*mailorg.MessageIngestedEvent
	Batches  []*mailorg.BatchIngestedEvent
	// Err is returned from every call when set.
	Err error
}

func (n *RecordingNotifier) MessageIngested(ctx context.Context, e *mailorg.MessageIngestedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, e)
	return n.Err
}

func (n *RecordingNotifier) BatchIngested(ctx context.Context, e *mailorg.BatchIngestedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Batches = append(n.Batches, e)
	return n.Err
}

var _ mailorg.Notifier = (*RecordingNotifier)(nil)

// RecordingLogger keeps formatted log lines ("LEVEL msg k=v ...").
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	var b strings.Builder
	b.WriteString(level + " " + msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	l.mu.Lock()
	l.Lines = append(l.Lines, b.String())
	l.mu.Unlock()
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

// Contains reports whether any line contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.Lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

var _ mailorg.Logger = (*RecordingLogger)(nil)
