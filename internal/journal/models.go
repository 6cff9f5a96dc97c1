package journal

import (
	"time"
)

// Run is one journaled rewrite run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	Key        string
	Search     string
	Replace    string
	DryRun     bool
	Status     string
	Rewritten  int
	Unchanged  int
	Failed     int
}

// Finished reports whether the run recorded a final status.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// File is one journaled session file result.
type File struct {
	RunID     string
	Path      string
	Outcome   string
	Fields    int
	ErrorKind string
	Error     string
	// HasOriginal reports whether the pre-write bytes were stored.
	HasOriginal bool
}

const runColumns = "id, started_at, finished_at, input_dir, output_dir, field_key, search, replace, dry_run, status, rewritten, unchanged, failed"

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
