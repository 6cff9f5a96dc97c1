package relocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"rtmodify/internal/logging"
	"rtmodify/internal/sessiondir"
	"rtmodify/internal/sessionfile"
)

// Runner executes rewrite runs.
type Runner struct {
	logger   *slog.Logger
	source   sessionfile.Source
	journal  Journal
	lockPath string
	now      func() time.Time
	newID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSource replaces the filesystem used to read and write session files.
func WithSource(source sessionfile.Source) Option {
	return func(r *Runner) {
		if source != nil {
			r.source = source
		}
	}
}

// WithJournal records every run in j.
func WithJournal(j Journal) Option {
	return func(r *Runner) { r.journal = j }
}

// WithLockPath serialises runs through an advisory lock on path.
func WithLockPath(path string) Option {
	return func(r *Runner) { r.lockPath = path }
}

// NewRunner constructs a Runner that uses the local filesystem by default.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.NewNop(),
		source: sessionfile.Disk{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "relocate")
	return r
}

// Run executes req. The returned Report is populated even when an error is
// returned. With FailFast the first file failure stops the run and is
// returned; otherwise every failure is collected into a multierror.
func (r *Runner) Run(ctx context.Context, req Request) (Report, error) {
	if err := req.Validate(); err != nil {
		return Report{Request: req}, err
	}
	req = req.normalized()

	unlock, err := r.acquireLock()
	if err != nil {
		return Report{Request: req}, err
	}
	defer unlock()

	report := Report{
		RunID:     r.newID(),
		Request:   req,
		StartedAt: r.now(),
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, report.RunID))

	if r.journal != nil {
		if err := r.journal.BeginRun(ctx, RunInfo{ID: report.RunID, StartedAt: report.StartedAt, Request: req}); err != nil {
			return report, fmt.Errorf("begin journal run: %w", err)
		}
	}

	logger.Info("rewrite run started",
		logging.String("input_dir", req.InputDir),
		logging.String("output_dir", req.OutputDir),
		logging.String("key", req.Key),
		logging.Bool("dry_run", req.DryRun),
		logging.Int("workers", req.Workers),
	)

	runErr := r.execute(ctx, logger, req, &report)
	report.FinishedAt = r.now()

	status := StatusCompleted
	switch {
	case runErr != nil && (errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)):
		status = StatusCancelled
	case runErr != nil:
		status = StatusFailed
	}

	if r.journal != nil {
		// The caller's context may already be cancelled; the run row still
		// needs its final status.
		finishCtx := context.WithoutCancel(ctx)
		if err := r.journal.FinishRun(finishCtx, report, status); err != nil {
			logger.Warn("failed to finish journal run", logging.Error(err))
			if runErr == nil {
				runErr = fmt.Errorf("finish journal run: %w", err)
			}
		}
	}

	logger.Info("rewrite run finished",
		logging.String("status", status),
		logging.Int(string(OutcomeRewritten), len(report.Rewritten())),
		logging.Int(string(OutcomeUnchanged), len(report.Unchanged())),
		logging.Int(string(OutcomeFailed), len(report.Failed())),
		logging.Int(string(OutcomeSkipped), len(report.Skipped())),
		logging.Any("duration", report.Duration()),
	)
	return report, runErr
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, req Request, report *Report) error {
	targets, err := r.collectTargets(ctx, logger, req, report)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		msg := fmt.Sprintf("no session files matching %v in %s", req.RewritePatterns, req.InputDir)
		report.Warnings = append(report.Warnings, msg)
		logger.Warn("no session files to rewrite", logging.String("input_dir", req.InputDir), logging.Any("patterns", req.RewritePatterns))
		return nil
	}

	runErr := r.processAll(ctx, logger, req, report, targets)

	if report.NoMatches() {
		msg := fmt.Sprintf("no %q field in %d file(s) contained %q", req.Key, len(report.Files), req.Search)
		report.Warnings = append(report.Warnings, msg)
		logger.Warn("search string matched nothing",
			logging.String("key", req.Key),
			logging.String("search", req.Search),
			logging.Int("files", len(report.Files)),
		)
	}
	return runErr
}

func (r *Runner) collectTargets(ctx context.Context, logger *slog.Logger, req Request, report *Report) ([]string, error) {
	rewriteMatcher, err := sessiondir.NewMatcher(req.RewritePatterns...)
	if err != nil {
		return nil, err
	}

	if !req.Staging() {
		if req.OutputDir != "" {
			logger.Info("dry run reads the input directory; nothing is staged", logging.String("output_dir", req.OutputDir))
		}
		return sessiondir.List(req.InputDir, rewriteMatcher)
	}

	patterns := append(append([]string(nil), req.StagePatterns...), req.RewritePatterns...)
	stageMatcher, err := sessiondir.NewMatcher(patterns...)
	if err != nil {
		return nil, err
	}
	files, err := sessiondir.List(req.InputDir, stageMatcher)
	if err != nil {
		return nil, err
	}
	staged, err := sessiondir.Stage(ctx, files, req.OutputDir)
	report.Staged = staged
	if err != nil {
		return nil, fmt.Errorf("stage session files: %w", err)
	}
	logger.Info("session files staged", logging.String("output_dir", req.OutputDir), logging.Int("files", len(staged)))

	var targets []string
	for _, path := range staged {
		if rewriteMatcher.Match(path) {
			targets = append(targets, path)
		}
	}
	return targets, nil
}

func (r *Runner) processAll(ctx context.Context, logger *slog.Logger, req Request, report *Report, targets []string) error {
	results := make([]FileResult, len(targets))
	for i, path := range targets {
		results[i] = FileResult{Path: path, Outcome: OutcomeSkipped}
	}

	var (
		g    *errgroup.Group
		gctx = ctx
	)
	if req.FailFast {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = new(errgroup.Group)
	}
	g.SetLimit(req.Workers)

	for i, path := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := r.processOne(gctx, logger, req, report.RunID, path)
			results[i] = res
			if res.Err != nil && req.FailFast {
				return res.Err
			}
			return nil
		})
	}
	firstErr := g.Wait()
	report.Files = results

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var merr *multierror.Error
	for _, res := range results {
		if res.Err != nil {
			merr = multierror.Append(merr, res.Err)
		}
	}
	return merr.ErrorOrNil()
}

func (r *Runner) processOne(ctx context.Context, logger *slog.Logger, req Request, runID, path string) FileResult {
	// A file already read is finished even if the run is cancelled meanwhile.
	ctx = context.WithoutCancel(ctx)

	var hook beforeWrite
	if r.journal != nil {
		hook = func(res FileResult, original []byte) error {
			return r.journal.RecordFile(ctx, runID, res, original)
		}
	}

	res := processFile(r.source, path, req, hook)
	fileLogger := logger.With(
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldOutcome, string(res.Outcome)),
	)
	if res.Err != nil {
		fileLogger.Error("session file failed",
			logging.String(logging.FieldErrorKind, res.ErrorKind()),
			logging.Error(res.Err),
		)
	} else {
		fileLogger.Debug("session file processed",
			logging.Int(logging.FieldFields, res.Fields),
			logging.Int("old_size", res.OldSize),
			logging.Int("new_size", res.NewSize),
		)
	}

	if r.journal != nil {
		if err := r.journal.RecordFile(ctx, runID, res, nil); err != nil {
			fileLogger.Warn("failed to journal file result", logging.Error(err))
		}
	}
	return res
}

func (r *Runner) acquireLock() (func(), error) {
	if r.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, r.lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.String("lock", r.lockPath), logging.Error(err))
		}
	}, nil
}
