package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rtmodify/internal/journal"
	"rtmodify/internal/sessionfile"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled rewrite runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				if strings.TrimSpace(runID) != "" {
					return printRunFiles(cmd, store, strings.TrimSpace(runID))
				}
				return printRuns(cmd, store, limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-file results of one run")
	return cmd
}

func printRuns(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			formatLocal(run.StartedAt),
			titleLabel(run.Status),
			yesNo(run.DryRun),
			strconv.Itoa(run.Rewritten),
			strconv.Itoa(run.Unchanged),
			strconv.Itoa(run.Failed),
			fmt.Sprintf("%s: %s -> %s", run.Key, run.Search, run.Replace),
			run.InputDir,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Status", "Dry Run", "Rewritten", "Unchanged", "Failed", "Change", "Input"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func printRunFiles(cmd *cobra.Command, store *journal.Store, runID string) error {
	files, err := store.Files(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "Run %s recorded no files\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.Path,
			titleLabel(f.Outcome),
			strconv.Itoa(f.Fields),
			yesNo(f.HasOriginal),
			f.Error,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Outcome", "Fields", "Restorable", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <run-id>",
		Short: "Write back the original content of files a run rewrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				restored, err := store.Restore(cmd.Context(), strings.TrimSpace(args[0]), sessionfile.Disk{})
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, path := range restored {
					fmt.Fprintln(out, renderStatusLine("Restored", statusOK, path, colorize))
				}
				if err != nil {
					return fmt.Errorf("restore run %s: %w", args[0], err)
				}
				if len(restored) == 0 {
					fmt.Fprintln(out, renderStatusLine("Restore", statusInfo, "nothing to restore", colorize))
				}
				return nil
			})
		},
	}
}

func formatLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(historyTimeLayout)
}
