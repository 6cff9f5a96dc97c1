package relocate

import (
	"context"
	"errors"
	"fmt"

	"rtmodify/internal/field"
	"rtmodify/internal/sessionfile"
)

// ErrorClassifier is implemented by errors that carry a reporting kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// ErrorKind classifies err for reporting: no_such_field, invalid_length,
// malformed_field, not_found, permission_denied, io, cancelled or unknown.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "unknown"
}

// ProcessFile reads path, rewrites the request's field and, unless the request
// is a dry run, writes the new content back in place. The returned error is
// the result's Err.
func ProcessFile(source sessionfile.Source, path string, req Request) (FileResult, error) {
	res := processFile(source, path, req, nil)
	return res, res.Err
}

// beforeWrite is called with the original content once a file is known to
// change and before it is overwritten. A non-nil error aborts the write.
type beforeWrite func(res FileResult, original []byte) error

func processFile(source sessionfile.Source, path string, req Request, hook beforeWrite) FileResult {
	res := FileResult{Path: path}

	content, err := source.ReadAll(path)
	if err != nil {
		return res.failed(err)
	}
	res.OldSize = len(content)
	res.NewSize = len(content)

	out, err := field.Rewrite(content, req.Key, req.Search, req.Replace)
	if err != nil {
		return res.failed(fmt.Errorf("rewrite %s: %w", path, err))
	}
	if !out.Matched {
		res.Outcome = OutcomeUnchanged
		return res
	}

	res.Outcome = OutcomeRewritten
	res.Fields = len(out.Edits)
	res.Edits = out.Edits
	res.NewSize = len(out.Content)
	if req.DryRun {
		return res
	}

	if hook != nil {
		if err := hook(res, content); err != nil {
			return res.failed(fmt.Errorf("journal %s: %w", path, err))
		}
	}
	if err := source.WriteAll(path, out.Content); err != nil {
		return res.failed(err)
	}
	return res
}

func (r FileResult) failed(err error) FileResult {
	r.Outcome = OutcomeFailed
	r.Err = err
	return r
}
