package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// lineFormatter formats log entries as:
//
//	<timestamp>\t<LEVEL>\t<opID>\t<message>\t<key=value ...>
//
// Fields are written in key order.
type lineFormatter struct {
	opID string
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	ts := e.Time.UTC().Format("2006-01-02T15:04:05Z")
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", ts, strings.ToUpper(e.Level.String()), f.opID, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// newLogger creates a logger that writes to both logDir/mailorg.log and stderr.
// It returns the logger, the open log file (for cleanup), and any error.
func newLogger(logDir string, opID string) (*logrus.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "mailorg.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(io.MultiWriter(f, os.Stderr))
	l.SetFormatter(&lineFormatter{opID: opID})
	l.SetLevel(logrus.DebugLevel)
	return l, f, nil
}

// logrusAdapter wraps a logrus logger to satisfy the mailorg.Logger interface.
type logrusAdapter struct {
	l logrus.FieldLogger
}

func (a *logrusAdapter) Debug(msg string, args ...any) { a.with(args).Debug(msg) }
func (a *logrusAdapter) Info(msg string, args ...any)  { a.with(args).Info(msg) }
func (a *logrusAdapter) Warn(msg string, args ...any)  { a.with(args).Warn(msg) }
func (a *logrusAdapter) Error(msg string, args ...any) { a.with(args).Error(msg) }

// with turns alternating key/value args into fields. A trailing key without
// a value is logged under "!BADKEY", as slog does.
func (a *logrusAdapter) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return a.l.WithFields(fields)
}
