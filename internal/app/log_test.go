package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLineFormatter_Format(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   logrus.Level
		message string
		fields  logrus.Fields
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   logrus.InfoLevel,
			message: "message ingested",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tmessage ingested\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   logrus.DebugLevel,
			message: "attachment deduplicated",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tattachment deduplicated\n",
		},
		{
			name:    "fields in key order",
			opID:    "op-789",
			level:   logrus.WarnLevel,
			message: "message skipped",
			fields:  logrus.Fields{"state": "DECOMPOSED", "message_id": "a@b"},
			want:    "2024-06-15T14:30:45Z\tWARNING\top-789\tmessage skipped\tmessage_id=a@b\tstate=DECOMPOSED\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &lineFormatter{opID: tt.opID}
			e := &logrus.Entry{Time: ts, Level: tt.level, Message: tt.message, Data: tt.fields}

			got, err := f.Format(e)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Format() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&lineFormatter{opID: "op-1"})
	l.SetLevel(logrus.DebugLevel)

	a := &logrusAdapter{l: l}
	a.Info("thread resolved", "thread", "t-1", "created", true)
	a.Debug("odd args", "dangling")

	got := buf.String()
	if !strings.Contains(got, "INFO\top-1\tthread resolved\tcreated=true\tthread=t-1\n") {
		t.Errorf("info line missing fields, got: %q", got)
	}
	if !strings.Contains(got, "!BADKEY=dangling") {
		t.Errorf("expected dangling key to be kept, got: %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-op")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
	if !strings.HasSuffix(f.Name(), "mailorg.log") {
		t.Errorf("log file = %s, want mailorg.log", f.Name())
	}
}
