package journal

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"rtmodify/internal/sessionfile"
)

// Restore writes the journaled original bytes of every file the run
// overwrote back through source, and returns the restored paths. Files whose
// write failed are restored too, since a failed write may have left partial
// content behind. Every file is attempted; failures are aggregated.
func (s *Store) Restore(ctx context.Context, runID string, source sessionfile.Source) ([]string, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.DryRun {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, original FROM files WHERE run_id = ? AND original IS NOT NULL ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("load originals for run %s: %w", runID, err)
	}
	type pending struct {
		path     string
		original []byte
	}
	var files []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.path, &p.original); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan original: %w", err)
		}
		files = append(files, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate originals: %w", err)
	}
	rows.Close()

	var (
		restored []string
		merr     *multierror.Error
	)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		if err := source.WriteAll(f.path, f.original); err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		restored = append(restored, f.path)
	}
	return restored, merr.ErrorOrNil()
}
