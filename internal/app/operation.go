package app

import "mailorg/internal/mailorg"

// Run statuses recorded in the ingest_runs table.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// IngestOperation tracks a CLI operation that may mutate the database.
// Operations are created in memory with ID=0. Only DB-mutating commands
// persist them (giving them an auto-increment ID from the database).
type IngestOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	Report     mailorg.BatchReport
}

// NewIngestOperation creates a new in-memory operation.
func NewIngestOperation(operation, parameters string) *IngestOperation {
	return &IngestOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *IngestOperation) Persisted() bool {
	return op.ID != 0
}

// Record adds a batch report to the operation. Any failed message turns a
// successful operation into a partial one.
func (op *IngestOperation) Record(r *mailorg.BatchReport) {
	op.Report.Merge(r)
	if !r.Success() && op.Status == StatusSuccess {
		op.Status = StatusPartial
	}
}

// Fail marks the operation as aborted.
func (op *IngestOperation) Fail() {
	op.Status = StatusError
}
