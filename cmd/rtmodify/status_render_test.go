package main

import (
	"bytes"
	"strings"
	"testing"

	"rtmodify/internal/preflight"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Run", statusWarn, "nothing matched", false)
	if !strings.Contains(line, "Run:") || !strings.Contains(line, "[WARN] nothing matched") {
		t.Fatalf("unexpected status line %q", line)
	}
	colored := renderStatusLine("Run", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red status line, got %q", colored)
	}
}

func TestTitleLabel(t *testing.T) {
	tests := map[string]string{
		"rewritten":         "Rewritten",
		"no_such_field":     "No Such Field",
		"permission_denied": "Permission Denied",
		"":                  "",
	}
	for in, want := range tests {
		if got := titleLabel(in); got != want {
			t.Fatalf("titleLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreflightStatus(t *testing.T) {
	if preflightStatus(preflight.Result{}) != statusError {
		t.Fatal("failed result should map to error")
	}
	if preflightStatus(preflight.Result{Passed: true, Warning: true}) != statusWarn {
		t.Fatal("warning result should map to warn")
	}
	if preflightStatus(preflight.Result{Passed: true}) != statusOK {
		t.Fatal("passed result should map to ok")
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
