package mailorg

import (
	"errors"
)

// State is a step of the per-message ingestion state machine.
type State string

const (
	StateReceived         State = "RECEIVED"
	StateDecomposed       State = "DECOMPOSED"
	StateDedupChecked     State = "DEDUP_CHECKED"
	StateContentExtracted State = "CONTENT_EXTRACTED"
	StateThreaded         State = "THREADED"
	StateAggregated       State = "AGGREGATED"
	StateCommitted        State = "COMMITTED"
	StateSkipped          State = "SKIPPED"
)

// Outcome describes what happened to one message.
type Outcome struct {
	// Created is true only when a new message was committed.
	Created bool
	// MessageRef is the internal id of the committed message, or of the
	// already stored message for duplicates.
	MessageRef string
	MessageID  string
	ThreadID   string
	// State is StateCommitted or StateSkipped.
	State State
	// LastState is the last step reached before a skip.
	LastState State
	// Reason explains a skip.
	Reason error
}

// Duplicate reports whether the message was skipped as already ingested.
func (o *Outcome) Duplicate() bool {
	return errors.Is(o.Reason, ErrDuplicateMessage)
}

// BatchReport aggregates outcomes over a batch. Skipped counts every message
// that was not created; Duplicates is the subset skipped as already ingested
// and Failed the subset skipped because of an error.
type BatchReport struct {
	Processed  int `json:"processed"`
	Created    int `json:"created"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
	// Failures maps a source name to its failure reason.
	Failures map[string]string `json:"failures,omitempty"`
}

// Success reports whether no message failed.
func (r *BatchReport) Success() bool { return r.Failed == 0 }

// Add records one outcome.
func (r *BatchReport) Add(source string, o *Outcome) {
	r.Processed++
	switch {
	case o.Created:
		r.Created++
	case o.Duplicate():
		r.Skipped++
		r.Duplicates++
	default:
		r.Skipped++
		r.Failed++
		if r.Failures == nil {
			r.Failures = make(map[string]string)
		}
		if o.Reason != nil {
			r.Failures[source] = o.Reason.Error()
		}
	}
}

// Merge adds the counts of other to r.
func (r *BatchReport) Merge(other *BatchReport) {
	r.Processed += other.Processed
	r.Created += other.Created
	r.Skipped += other.Skipped
	r.Duplicates += other.Duplicates
	r.Failed += other.Failed
	for k, v := range other.Failures {
		if r.Failures == nil {
			r.Failures = make(map[string]string)
		}
		r.Failures[k] = v
	}
}
