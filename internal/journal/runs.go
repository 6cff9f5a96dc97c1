package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rtmodify/internal/relocate"
)

var _ relocate.Journal = (*Store)(nil)

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, run relocate.RunInfo) error {
	req := run.Request
	_, err := s.exec(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir, field_key, search, replace, dry_run, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		req.InputDir,
		req.OutputDir,
		req.Key,
		req.Search,
		req.Replace,
		boolToInt(req.DryRun),
		relocate.StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordFile upserts a file result. A nil original keeps any bytes stored by
// an earlier call for the same file.
func (s *Store) RecordFile(ctx context.Context, runID string, res relocate.FileResult, original []byte) error {
	var errMsg string
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	_, err := s.exec(ctx,
		`INSERT INTO files (run_id, path, outcome, fields, error_kind, error, original)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, path) DO UPDATE SET
		   outcome = excluded.outcome,
		   fields = excluded.fields,
		   error_kind = excluded.error_kind,
		   error = excluded.error,
		   original = COALESCE(excluded.original, files.original)`,
		runID,
		res.Path,
		string(res.Outcome),
		res.Fields,
		res.ErrorKind(),
		errMsg,
		nullableBlob(original),
	)
	if err != nil {
		return fmt.Errorf("record file %s: %w", res.Path, err)
	}
	return nil
}

// FinishRun stores the run's final status and outcome counts.
func (s *Store) FinishRun(ctx context.Context, report relocate.Report, status string) error {
	res, err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, rewritten = ?, unchanged = ?, failed = ? WHERE id = ?`,
		formatTime(report.FinishedAt),
		status,
		len(report.Rewritten()),
		len(report.Unchanged()),
		len(report.Failed()),
		report.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", report.RunID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", report.RunID, ErrRunNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// Files returns the file results of a run ordered by path.
func (s *Store) Files(ctx context.Context, runID string) ([]File, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, outcome, fields, error_kind, error, original IS NOT NULL
		 FROM files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("list files for run %s: %w", runID, err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var (
			f           File
			hasOriginal int
		)
		if err := rows.Scan(&f.RunID, &f.Path, &f.Outcome, &f.Fields, &f.ErrorKind, &f.Error, &hasOriginal); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		f.HasOriginal = hasOriginal != 0
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		dryRun      int
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.InputDir,
		&run.OutputDir,
		&run.Key,
		&run.Search,
		&run.Replace,
		&dryRun,
		&run.Status,
		&run.Rewritten,
		&run.Unchanged,
		&run.Failed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run row: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.DryRun = dryRun != 0
	return run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableBlob(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
