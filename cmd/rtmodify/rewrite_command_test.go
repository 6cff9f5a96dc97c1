package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rtmodify/internal/journal"
)

func TestRewriteInPlaceThenRestore(t *testing.T) {
	env := setupCLITestEnv(t, "")
	session := filepath.Join(env.inputDir, "AAAA.torrent.rtorrent")
	writeFile(t, session, "d9:completei1e:directory9:/old/pathXe")
	other := filepath.Join(env.inputDir, "BBBB.torrent.rtorrent")
	writeFile(t, other, "d:directory7:/srv/tve")

	out, _, err := runCLI(t, []string{"rewrite", env.inputDir, "/old", "/new/root"}, env.configPath)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	requireContains(t, out, "AAAA.torrent.rtorrent")
	requireContains(t, out, "Rewritten")
	requireContains(t, out, "Unchanged")
	requireContains(t, out, "1 of 2 file(s), 1 unchanged, 0 failed")

	if got := readFile(t, session); got != "d9:completei1e:directory14:/new/root/pathXe" {
		t.Fatalf("unexpected rewritten session %q", got)
	}

	store, err := journal.Open(filepath.Join(env.stateDir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 1)
	_ = store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one journaled run, got %v, %v", runs, err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "Completed")

	out, _, err = runCLI(t, []string{"history", "--run", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, session)

	out, _, err = runCLI(t, []string{"restore", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	requireContains(t, out, session)
	if got := readFile(t, session); got != "d9:completei1e:directory9:/old/pathXe" {
		t.Fatalf("restore did not bring back original, got %q", got)
	}
}

func TestRewriteStagesIntoOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")
	session := filepath.Join(env.inputDir, "HASH.torrent.rtorrent")
	writeFile(t, session, ":directory9:/old/pathX")
	writeFile(t, filepath.Join(env.inputDir, "HASH.torrent"), "d4:infoe")
	output := filepath.Join(env.baseDir, "out")

	out, _, err := runCLI(t, []string{"rewrite", "-o", output, env.inputDir, "/old", "/new/root"}, env.configPath)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	requireContains(t, out, "Staged")
	if got := readFile(t, session); got != ":directory9:/old/pathX" {
		t.Fatalf("input session modified: %q", got)
	}
	if got := readFile(t, filepath.Join(output, "HASH.torrent.rtorrent")); got != ":directory14:/new/root/pathX" {
		t.Fatalf("unexpected staged session %q", got)
	}
	if got := readFile(t, filepath.Join(output, "HASH.torrent")); got != "d4:infoe" {
		t.Fatalf("unexpected staged torrent %q", got)
	}
}

func TestRewriteDryRun(t *testing.T) {
	env := setupCLITestEnv(t, "")
	session := filepath.Join(env.inputDir, "A.torrent.rtorrent")
	writeFile(t, session, ":directory9:/old/pathX")

	out, _, err := runCLI(t, []string{"rewrite", "--dry-run", env.inputDir, "/old", "/new"}, env.configPath)
	if err != nil {
		t.Fatalf("rewrite --dry-run: %v", err)
	}
	requireContains(t, out, "Would rewrite")
	if got := readFile(t, session); got != ":directory9:/old/pathX" {
		t.Fatalf("dry run modified session: %q", got)
	}
}

func TestRewriteRefusesWhileClientRuns(t *testing.T) {
	env := setupCLITestEnv(t, "")
	session := filepath.Join(env.inputDir, "A.torrent.rtorrent")
	writeFile(t, session, ":directory9:/old/pathX")
	writeFile(t, filepath.Join(env.inputDir, "rtorrent.lock"), "seedbox:+4242")

	out, _, err := runCLI(t, []string{"rewrite", env.inputDir, "/old", "/new"}, env.configPath)
	if err == nil {
		t.Fatal("expected refusal while rtorrent.lock is present")
	}
	requireContains(t, err.Error(), "--force")
	requireContains(t, out, "seedbox:+4242")
	if got := readFile(t, session); got != ":directory9:/old/pathX" {
		t.Fatalf("session modified despite refusal: %q", got)
	}

	if _, _, err := runCLI(t, []string{"rewrite", "--force", env.inputDir, "/old", "/new"}, env.configPath); err != nil {
		t.Fatalf("rewrite --force: %v", err)
	}
	if got := readFile(t, session); got != ":directory9:/new/pathX" {
		t.Fatalf("unexpected forced rewrite %q", got)
	}
}

func TestRewriteKeepGoingReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeFile(t, filepath.Join(env.inputDir, "a.torrent.rtorrent"), "d5:othere")
	good := filepath.Join(env.inputDir, "b.torrent.rtorrent")
	writeFile(t, good, ":directory9:/old/pathX")

	out, _, err := runCLI(t, []string{"rewrite", "--keep-going", env.inputDir, "/old", "/new"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure exit")
	}
	requireContains(t, err.Error(), "1 session file(s) failed")
	requireContains(t, out, "No Such Field")
	if got := readFile(t, good); got != ":directory9:/new/pathX" {
		t.Fatalf("healthy session not rewritten: %q", got)
	}
}

func TestRewriteWarnsOnNoMatches(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeFile(t, filepath.Join(env.inputDir, "a.torrent.rtorrent"), ":directory7:/srv/tv")

	out, stderr, err := runCLI(t, []string{"rewrite", env.inputDir, "/old", "/new"}, env.configPath)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	requireContains(t, out, "[WARN]")
	requireContains(t, stderr, "search string matched nothing")
}

func TestRewriteRejectsInvalidKey(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"rewrite", "-k", "dir:ectory", env.inputDir, "/old", "/new"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid key error")
	}
	requireContains(t, err.Error(), "--key")
}

func TestRewriteMissingInputDir(t *testing.T) {
	env := setupCLITestEnv(t, "")
	missing := filepath.Join(env.baseDir, "missing")
	_, _, err := runCLI(t, []string{"rewrite", missing, "/old", "/new"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "does not exist")
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Fatalf("missing dir should not be created: %v", statErr)
	}
}

func TestRewriteWithoutJournal(t *testing.T) {
	env := setupCLITestEnv(t, "\n[journal]\nenabled = false\n")
	writeFile(t, filepath.Join(env.inputDir, "a.torrent.rtorrent"), ":directory9:/old/pathX")

	if _, _, err := runCLI(t, []string{"rewrite", env.inputDir, "/old", "/new"}, env.configPath); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.stateDir, "journal.db")); !os.IsNotExist(err) {
		t.Fatalf("journal should not be created when disabled: %v", err)
	}
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected history to fail with journal disabled")
	}
	requireContains(t, err.Error(), "journal is disabled")
}
