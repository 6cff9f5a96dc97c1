package field

import (
	"bytes"
)

// Edit describes one rewritten field.
type Edit struct {
	// Field is the occurrence as found in the original record.
	Field Field
	// NewOffset is the index of the field's leading colon in the new record.
	NewOffset int
	NewLength int
	NewValue  []byte
}

// Delta returns the change in encoded field size.
func (e Edit) Delta() int {
	return len(Encode(e.Field.Key, e.NewValue)) - e.Field.Size()
}

// Result is the outcome of Rewrite. Content is nil unless Matched.
type Result struct {
	Matched bool
	Content []byte
	Edits   []Edit
}

// Rewrite replaces the first occurrence of search inside every value keyed by
// key and re-encodes those fields with corrected lengths. Content is never
// modified in place.
//
// Fields are located once; edits are applied in a single pass over the
// original offsets, so byte-identical fields are each rewritten at their own
// position and never twice.
func Rewrite(content []byte, key, search, replace string) (Result, error) {
	fields, err := Scan(content, key)
	if err != nil {
		return Result{}, err
	}

	needle := []byte(search)
	substitute := []byte(replace)
	delta := len(substitute) - len(needle)

	var edits []Edit
	for _, f := range fields {
		if !bytes.Contains(f.Value, needle) {
			continue
		}
		newLength := f.Length + delta
		if newLength < 0 {
			return Result{}, newError(ErrInvalidLength, key, f.Offset,
				"rewritten length %d is negative (declared %d, delta %d)", newLength, f.Length, delta)
		}
		newValue := bytes.Replace(f.Value, needle, substitute, 1)
		if len(newValue) != newLength {
			return Result{}, newError(ErrInvalidLength, key, f.Offset,
				"rewritten value is %d bytes, expected %d", len(newValue), newLength)
		}
		edits = append(edits, Edit{Field: f, NewLength: newLength, NewValue: newValue})
	}

	if len(edits) == 0 {
		return Result{Matched: false}, nil
	}

	return Result{
		Matched: true,
		Content: apply(content, edits),
		Edits:   edits,
	}, nil
}

// apply splices edits, which must be ordered by offset and non-overlapping,
// into a copy of content. It fills in each edit's NewOffset.
func apply(content []byte, edits []Edit) []byte {
	growth := 0
	for _, e := range edits {
		growth += e.Delta()
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + max(growth, 0))

	prev := 0
	shift := 0
	for i := range edits {
		f := edits[i].Field
		buf.Write(content[prev:f.Offset])
		edits[i].NewOffset = f.Offset + shift
		encoded := Encode(f.Key, edits[i].NewValue)
		buf.Write(encoded)
		shift += len(encoded) - f.Size()
		prev = f.End()
	}
	buf.Write(content[prev:])
	return buf.Bytes()
}
