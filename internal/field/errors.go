package field

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchField reports that the record holds no field for the key.
	ErrNoSuchField = errors.New("no such field")
	// ErrInvalidLength reports an unparsable or negative length marker.
	ErrInvalidLength = errors.New("invalid length")
	// ErrMalformedField reports a field whose value cannot be delimited.
	ErrMalformedField = errors.New("malformed field")
)

// Error carries the location of a field failure. It unwraps to one of the
// package sentinels so callers can match with errors.Is.
type Error struct {
	Err    error
	Key    string
	Offset int
	Detail string
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("field %q: %v: %s", e.Key, e.Err, e.Detail)
	}
	return fmt.Sprintf("field %q at offset %d: %v: %s", e.Key, e.Offset, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for reporting.
func (e *Error) ErrorKind() string {
	switch {
	case errors.Is(e.Err, ErrNoSuchField):
		return "no_such_field"
	case errors.Is(e.Err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(e.Err, ErrMalformedField):
		return "malformed_field"
	default:
		return "unknown"
	}
}

func newError(marker error, key string, offset int, format string, args ...any) error {
	return &Error{Err: marker, Key: key, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
