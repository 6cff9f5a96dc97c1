package preflight

import (
	"strings"
)

// Result reports the outcome of a single preflight check. A check can pass
// with a warning.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// Request names the directories a run touches.
type Request struct {
	InputDir  string
	OutputDir string
	DryRun    bool
}

// RunAll executes the checks applicable to req: the input directory, the
// output directory when set, and the torrent client lock.
func RunAll(req Request) []Result {
	var results []Result

	staging := strings.TrimSpace(req.OutputDir) != ""
	// The input directory is only written to by in-place, non-dry runs.
	results = append(results, CheckDirectoryAccess("Session directory", req.InputDir, !staging && !req.DryRun))

	if staging && !req.DryRun {
		results = append(results, CheckOutputDirectory("Output directory", req.OutputDir))
	}

	results = append(results, CheckClientIdle(req.InputDir))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns the results that passed with a warning.
func Warnings(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Passed && r.Warning {
			out = append(out, r)
		}
	}
	return out
}
