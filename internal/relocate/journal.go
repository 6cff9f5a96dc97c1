package relocate

import (
	"context"
	"time"
)

// Run statuses recorded by a Journal.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// RunInfo identifies a run when it begins.
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Request   Request
}

// Journal persists runs so rewritten files can be audited and restored.
type Journal interface {
	BeginRun(ctx context.Context, run RunInfo) error
	// RecordFile stores a file result. original is non-nil only for a file
	// about to be overwritten.
	RecordFile(ctx context.Context, runID string, res FileResult, original []byte) error
	FinishRun(ctx context.Context, report Report, status string) error
}
