package relocate

import (
	"time"

	"rtmodify/internal/field"
)

// Outcome is the per-file result of a run.
type Outcome string

const (
	OutcomeRewritten Outcome = "rewritten"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
	// OutcomeSkipped marks files never processed because the run stopped.
	OutcomeSkipped Outcome = "skipped"
)

// FileResult records what happened to one session file.
type FileResult struct {
	Path    string
	Outcome Outcome
	// Fields is the number of fields rewritten.
	Fields  int
	Edits   []field.Edit
	OldSize int
	NewSize int
	Err     error
}

// ErrorKind classifies the result's error, or returns "" when there is none.
func (r FileResult) ErrorKind() string {
	if r.Err == nil {
		return ""
	}
	return ErrorKind(r.Err)
}

// Report summarises a run.
type Report struct {
	RunID      string
	Request    Request
	StartedAt  time.Time
	FinishedAt time.Time
	// Staged lists every file copied into the output directory.
	Staged   []string
	Files    []FileResult
	Warnings []string
}

func (r Report) filter(outcome Outcome) []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Outcome == outcome {
			out = append(out, f)
		}
	}
	return out
}

// Rewritten returns results whose content changed (or would, in a dry run).
func (r Report) Rewritten() []FileResult { return r.filter(OutcomeRewritten) }

// Unchanged returns results where no value contained the search string.
func (r Report) Unchanged() []FileResult { return r.filter(OutcomeUnchanged) }

// Failed returns results that ended in an error.
func (r Report) Failed() []FileResult { return r.filter(OutcomeFailed) }

// Skipped returns results never processed because the run stopped early.
func (r Report) Skipped() []FileResult { return r.filter(OutcomeSkipped) }

// NoMatches reports whether files were processed and none of them matched.
func (r Report) NoMatches() bool {
	if len(r.Files) == 0 {
		return false
	}
	for _, f := range r.Files {
		if f.Outcome != OutcomeUnchanged {
			return false
		}
	}
	return true
}

// Duration returns the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
