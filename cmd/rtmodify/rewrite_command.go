package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rtmodify/internal/config"
	"rtmodify/internal/preflight"
	"rtmodify/internal/relocate"
)

type rewriteOptions struct {
	outputDir string
	key       string
	verbosity int
	workers   int
	failFast  bool
	keepGoing bool
	dryRun    bool
	force     bool
}

func newRewriteCommand(ctx *commandContext) *cobra.Command {
	var opts rewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite <input-dir> <search> <replace>",
		Short: "Replace a path prefix inside session file fields",
		Long: "Rewrite the first occurrence of <search> in every keyed field of the session\n" +
			"files in <input-dir>, correcting each field's length prefix. With --output the\n" +
			"session files are copied there first and only the copies are modified.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, ctx, opts, args[0], args[1], args[2])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Stage session files into this directory and rewrite the copies")
	flags.StringVarP(&opts.key, "key", "k", "", "Field key to rewrite (default from config, \"directory\")")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.IntVar(&opts.workers, "workers", 0, "Number of files processed concurrently (default from config)")
	flags.BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first failing file")
	flags.BoolVar(&opts.keepGoing, "keep-going", false, "Process every file and report all failures")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without writing anything")
	flags.BoolVar(&opts.force, "force", false, "Continue even if rtorrent appears to be running")
	cmd.MarkFlagsMutuallyExclusive("fail-fast", "keep-going")

	return cmd
}

func runRewrite(cmd *cobra.Command, ctx *commandContext, opts rewriteOptions, input, search, replace string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	req, err := buildRequest(cfg, opts, input, search, replace)
	if err != nil {
		return err
	}

	logger, err := ctx.logger(cmd.ErrOrStderr(), opts.verbosity)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if err := checkPreflight(out, req, opts.force, colorize); err != nil {
		return err
	}

	runnerOpts := []relocate.Option{
		relocate.WithLogger(logger),
		relocate.WithLockPath(cfg.LockPath()),
	}
	return ctx.withOptionalJournal(func(j relocate.Journal) error {
		if j != nil {
			runnerOpts = append(runnerOpts, relocate.WithJournal(j))
		}
		report, runErr := relocate.NewRunner(runnerOpts...).Run(cmd.Context(), req)
		if errors.Is(runErr, relocate.ErrRunInProgress) || errors.Is(runErr, relocate.ErrInvalidRequest) {
			return runErr
		}
		printReport(out, report, colorize)
		if runErr != nil {
			if failed := len(report.Failed()); failed > 0 {
				return fmt.Errorf("%d session file(s) failed: %w", failed, runErr)
			}
			return runErr
		}
		return nil
	})
}

func buildRequest(cfg *config.Config, opts rewriteOptions, input, search, replace string) (relocate.Request, error) {
	key := cfg.Rewrite.Key
	if strings.TrimSpace(opts.key) != "" {
		key = strings.TrimSpace(opts.key)
		if err := config.ValidateKey(key); err != nil {
			return relocate.Request{}, fmt.Errorf("--key: %w", err)
		}
	}
	if search == "" {
		return relocate.Request{}, errors.New("search string must not be empty")
	}

	inputDir, err := config.ExpandPath(input)
	if err != nil {
		return relocate.Request{}, fmt.Errorf("resolve input directory: %w", err)
	}
	var outputDir string
	if strings.TrimSpace(opts.outputDir) != "" {
		outputDir, err = config.ExpandPath(opts.outputDir)
		if err != nil {
			return relocate.Request{}, fmt.Errorf("resolve output directory: %w", err)
		}
	}

	workers := cfg.Run.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	failFast := cfg.Run.FailFast
	switch {
	case opts.failFast:
		failFast = true
	case opts.keepGoing:
		failFast = false
	}

	return relocate.Request{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		Key:             key,
		Search:          search,
		Replace:         replace,
		StagePatterns:   cfg.Rewrite.StagePatterns,
		RewritePatterns: cfg.Rewrite.RewritePatterns,
		Workers:         workers,
		FailFast:        failFast,
		DryRun:          opts.dryRun,
	}, nil
}

func checkPreflight(out io.Writer, req relocate.Request, force, colorize bool) error {
	results := preflight.RunAll(preflight.Request{
		InputDir:  req.InputDir,
		OutputDir: req.OutputDir,
		DryRun:    req.DryRun,
	})
	failed := preflight.Failed(results)
	warnings := preflight.Warnings(results)
	for _, r := range append(failed, warnings...) {
		fmt.Fprintln(out, renderStatusLine(r.Name, preflightStatus(r), r.Detail, colorize))
	}

	if len(failed) > 0 {
		return fmt.Errorf("preflight failed: %s", failed[0].Detail)
	}
	// A dry run never writes, so a running client cannot undo anything.
	if len(warnings) > 0 && !force && !req.DryRun && !req.Staging() {
		return errors.New("rtorrent appears to be running; stop it or pass --force")
	}
	return nil
}

func printReport(out io.Writer, report relocate.Report, colorize bool) {
	if len(report.Files) > 0 {
		rows := make([][]string, 0, len(report.Files))
		for _, f := range report.Files {
			rows = append(rows, []string{
				filepath.Base(f.Path),
				titleLabel(string(f.Outcome)),
				strconv.Itoa(f.Fields),
				sizeChange(f),
				titleLabel(f.ErrorKind()),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Outcome", "Fields", "Size", "Error"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		))
	}

	verb := "Rewritten"
	if report.Request.DryRun {
		verb = "Would rewrite"
	}
	summaryKind := statusOK
	if len(report.Failed()) > 0 {
		summaryKind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, report.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine(verb, summaryKind,
		fmt.Sprintf("%d of %d file(s), %d unchanged, %d failed, %d skipped",
			len(report.Rewritten()), len(report.Files), len(report.Unchanged()), len(report.Failed()), len(report.Skipped())),
		colorize))
	if report.Request.Staging() {
		fmt.Fprintln(out, renderStatusLine("Staged", statusInfo,
			fmt.Sprintf("%d file(s) into %s", len(report.Staged), report.Request.OutputDir), colorize))
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(out, renderStatusLine("Warning", statusWarn, w, colorize))
	}
}

func sizeChange(f relocate.FileResult) string {
	if f.Outcome != relocate.OutcomeRewritten {
		return ""
	}
	delta := f.NewSize - f.OldSize
	if delta >= 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return strconv.Itoa(delta)
}
