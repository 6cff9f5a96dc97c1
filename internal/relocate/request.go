package relocate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultRewritePatterns selects the files whose fields are rewritten when a
// request does not name any.
var DefaultRewritePatterns = []string{"*.torrent.rtorrent"}

// Request describes one rewrite run.
type Request struct {
	InputDir  string
	OutputDir string
	Key       string
	Search    string
	Replace   string
	// StagePatterns select the extra files copied alongside the rewrite
	// targets when OutputDir is set.
	StagePatterns   []string
	RewritePatterns []string
	Workers         int
	FailFast        bool
	DryRun          bool
}

// Staging reports whether the run copies files into OutputDir before
// rewriting. Dry runs never stage.
func (r Request) Staging() bool {
	return strings.TrimSpace(r.OutputDir) != "" && !r.DryRun
}

func (r Request) normalized() Request {
	r.InputDir = strings.TrimSpace(r.InputDir)
	r.OutputDir = strings.TrimSpace(r.OutputDir)
	r.Key = strings.TrimSpace(r.Key)
	if r.Workers < 1 {
		r.Workers = 1
	}
	if len(r.RewritePatterns) == 0 {
		r.RewritePatterns = append([]string(nil), DefaultRewritePatterns...)
	}
	return r
}

// Validate checks the request for values that cannot produce a meaningful run.
func (r Request) Validate() error {
	var problems []string
	if strings.TrimSpace(r.InputDir) == "" {
		problems = append(problems, "input directory is required")
	}
	if strings.TrimSpace(r.Key) == "" {
		problems = append(problems, "field key is required")
	}
	if r.Search == "" {
		problems = append(problems, "search string must not be empty")
	}
	in := strings.TrimSpace(r.InputDir)
	out := strings.TrimSpace(r.OutputDir)
	if in != "" && out != "" && filepath.Clean(in) == filepath.Clean(out) {
		problems = append(problems, "output directory must differ from input directory")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

var (
	// ErrInvalidRequest reports a Request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRunInProgress reports that another run holds the run lock.
	ErrRunInProgress = errors.New("another rtmodify run is in progress")
)
