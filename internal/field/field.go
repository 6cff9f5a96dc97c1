package field

import (
	"bytes"
	"strconv"
)

const delimiter = ':'

// Field is one located `:<key><N>:<value>` occurrence.
type Field struct {
	Key string
	// Offset is the index of the leading colon in the scanned record.
	Offset int
	// Length is the declared value length N.
	Length int
	// ValueStart is the index of the first value byte.
	ValueStart int
	// Value aliases the scanned record; copy it before mutating.
	Value []byte
}

// End returns the index one past the last value byte.
func (f Field) End() int {
	return f.ValueStart + f.Length
}

// Size returns the encoded size of the field in bytes.
func (f Field) Size() int {
	return f.End() - f.Offset
}

// Encode renders a field with a length marker that matches value.
func Encode(key string, value []byte) []byte {
	length := strconv.Itoa(len(value))
	out := make([]byte, 0, 2+len(key)+len(length)+len(value))
	out = append(out, delimiter)
	out = append(out, key...)
	out = append(out, length...)
	out = append(out, delimiter)
	out = append(out, value...)
	return out
}

// Scan returns every non-overlapping field keyed by key, left to right.
//
// An occurrence of `:<key>` that is not followed by a digit is not a field and
// is skipped. Once digits follow the key, the occurrence must be a complete
// field: a missing second colon or a value running past the end of content is
// ErrMalformedField, and a length with a leading zero or that overflows is
// ErrInvalidLength. A record without any field is ErrNoSuchField.
func Scan(content []byte, key string) ([]Field, error) {
	if key == "" {
		return nil, newError(ErrNoSuchField, key, -1, "empty key")
	}

	marker := make([]byte, 0, len(key)+1)
	marker = append(marker, delimiter)
	marker = append(marker, key...)

	var fields []Field
	pos := 0
	for pos < len(content) {
		idx := bytes.Index(content[pos:], marker)
		if idx < 0 {
			break
		}
		start := pos + idx
		f, ok, err := parseAt(content, key, start, len(marker))
		if err != nil {
			return nil, err
		}
		if !ok {
			pos = start + 1
			continue
		}
		fields = append(fields, f)
		pos = f.End()
	}

	if len(fields) == 0 {
		return nil, newError(ErrNoSuchField, key, -1, "no %q field in %d bytes", string(marker), len(content))
	}
	return fields, nil
}

func parseAt(content []byte, key string, start, markerLen int) (Field, bool, error) {
	digitsStart := start + markerLen
	digitsEnd := digitsStart
	for digitsEnd < len(content) && isDigit(content[digitsEnd]) {
		digitsEnd++
	}
	if digitsEnd == digitsStart {
		return Field{}, false, nil
	}
	if digitsEnd == len(content) {
		return Field{}, false, newError(ErrMalformedField, key, start, "length marker truncated at end of content")
	}
	if content[digitsEnd] != delimiter {
		return Field{}, false, newError(ErrMalformedField, key, start, "expected ':' after length, found %q", content[digitsEnd])
	}

	digits := content[digitsStart:digitsEnd]
	if len(digits) > 1 && digits[0] == '0' {
		return Field{}, false, newError(ErrInvalidLength, key, start, "length %q has a leading zero", digits)
	}
	length, err := strconv.Atoi(string(digits))
	if err != nil {
		return Field{}, false, newError(ErrInvalidLength, key, start, "parse length %q: %v", digits, err)
	}

	valueStart := digitsEnd + 1
	if length > len(content)-valueStart {
		return Field{}, false, newError(ErrMalformedField, key, start,
			"declared length %d exceeds remaining %d bytes", length, len(content)-valueStart)
	}

	return Field{
		Key:        key,
		Offset:     start,
		Length:     length,
		ValueStart: valueStart,
		Value:      content[valueStart : valueStart+length],
	}, true, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
