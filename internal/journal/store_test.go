package journal_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"rtmodify/internal/journal"
	"rtmodify/internal/relocate"
	"rtmodify/internal/sessionfile"
	"rtmodify/internal/testsupport"
)

func runRewrite(t *testing.T, store *journal.Store, input string, dryRun bool) relocate.Report {
	t.Helper()

	runner := relocate.NewRunner(relocate.WithJournal(store))
	report, err := runner.Run(context.Background(), relocate.Request{
		InputDir:        input,
		Key:             "directory",
		Search:          "/old",
		Replace:         "/new/root",
		RewritePatterns: []string{"*.torrent.rtorrent"},
		Workers:         2,
		DryRun:          dryRun,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return report
}

func TestJournalRecordsRunAndFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	input := t.TempDir()
	testsupport.WriteSession(t, input, "a.torrent.rtorrent", testsupport.SessionContent("directory", "/old/a"))
	testsupport.WriteSession(t, input, "b.torrent.rtorrent", testsupport.SessionContent("directory", "/srv/b"))

	report := runRewrite(t, store, input, false)

	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != report.RunID || run.Status != relocate.StatusCompleted {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.Rewritten != 1 || run.Unchanged != 1 || run.Failed != 0 {
		t.Fatalf("unexpected counts %+v", run)
	}
	if !run.Finished() || run.Key != "directory" || run.Search != "/old" || run.Replace != "/new/root" {
		t.Fatalf("unexpected run fields %+v", run)
	}

	files, err := store.Files(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 file rows, got %d", len(files))
	}
	if files[0].Outcome != "rewritten" || !files[0].HasOriginal || files[0].Fields != 1 {
		t.Fatalf("unexpected rewritten row %+v", files[0])
	}
	if files[1].Outcome != "unchanged" || files[1].HasOriginal {
		t.Fatalf("unexpected unchanged row %+v", files[1])
	}
}

func TestJournalRestoreWritesOriginalsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	input := t.TempDir()
	original := testsupport.SessionContent("directory", "/old/a", "/old/b")
	path := testsupport.WriteSession(t, input, "a.torrent.rtorrent", original)

	report := runRewrite(t, store, input, false)
	if bytes.Equal(testsupport.ReadFile(t, path), original) {
		t.Fatal("expected file to be rewritten before restore")
	}

	restored, err := store.Restore(context.Background(), report.RunID, sessionfile.Disk{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(restored) != 1 || restored[0] != path {
		t.Fatalf("unexpected restored paths %v", restored)
	}
	if got := testsupport.ReadFile(t, path); !bytes.Equal(got, original) {
		t.Fatalf("restore did not bring back original content: %q", got)
	}
}

func TestJournalRestoreDryRunIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	input := t.TempDir()
	testsupport.WriteSession(t, input, "a.torrent.rtorrent", testsupport.SessionContent("directory", "/old/a"))
	report := runRewrite(t, store, input, true)

	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || !runs[0].DryRun {
		t.Fatalf("expected one dry run, got %+v", runs)
	}
	restored, err := store.Restore(context.Background(), report.RunID, sessionfile.Disk{})
	if err != nil || len(restored) != 0 {
		t.Fatalf("expected no-op restore, got %v, %v", restored, err)
	}
}

func TestJournalUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if _, err := store.Files(context.Background(), "missing"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("Files: expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.Restore(context.Background(), "missing", sessionfile.Disk{}); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("Restore: expected ErrRunNotFound, got %v", err)
	}
	report := relocate.Report{RunID: "missing", FinishedAt: time.Now()}
	if err := store.FinishRun(context.Background(), report, relocate.StatusCompleted); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("FinishRun: expected ErrRunNotFound, got %v", err)
	}
}

func TestJournalListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		err := store.BeginRun(ctx, relocate.RunInfo{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Request:   relocate.Request{InputDir: "/in", Key: "directory", Search: "/a", Replace: "/b"},
		})
		if err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "third" || runs[1].ID != "second" {
		t.Fatalf("unexpected order %+v", runs)
	}
	if runs[0].Status != relocate.StatusRunning || runs[0].Finished() {
		t.Fatalf("expected unfinished running run, got %+v", runs[0])
	}
	if !runs[1].StartedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected started_at %v", runs[1].StartedAt)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := journal.Open(path); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
