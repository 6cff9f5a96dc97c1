package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_ReadOnlyRequest(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), false)
	if !result.Passed || !strings.Contains(result.Detail, "(read ok)") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f, false); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckOutputDirectory("out", path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckClientIdle(t *testing.T) {
	dir := t.TempDir()
	result := CheckClientIdle(dir)
	if !result.Passed || result.Warning {
		t.Fatalf("expected clean pass without lock, got %+v", result)
	}

	if err := os.WriteFile(filepath.Join(dir, ClientLockName), []byte("seedbox:+4242\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckClientIdle(dir)
	if !result.Passed || !result.Warning {
		t.Fatalf("expected warning with lock present, got %+v", result)
	}
	if !strings.Contains(result.Detail, "seedbox:+4242") {
		t.Fatalf("expected lock owner in detail, got %q", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")

	results := RunAll(Request{InputDir: input, OutputDir: output})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	if len(Failed(results)) != 0 || len(Warnings(results)) != 0 {
		t.Fatalf("unexpected failures or warnings %+v", results)
	}

	results = RunAll(Request{InputDir: filepath.Join(input, "missing"), DryRun: true})
	if len(results) != 2 {
		t.Fatalf("expected 2 results for dry run without output, got %+v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Session directory" {
		t.Fatalf("expected session directory failure, got %+v", failed)
	}
}
