package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"rtmodify/internal/field"
)

// SessionContent builds a bencode-like session record containing one field
// per value for key, interleaved with unrelated fields so tests exercise
// offsets that are not at the start of the record.
func SessionContent(key string, values ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("d8:complete")
	buf.WriteString("i1e")
	for i, value := range values {
		buf.Write(field.Encode(key, []byte(value)))
		buf.WriteString(":state")
		buf.WriteByte(byte('0' + i%10))
		buf.WriteString("i1e")
	}
	buf.WriteString("e")
	return buf.Bytes()
}

// WriteSession writes content to dir/name, creating dir, and returns the path.
func WriteSession(t testing.TB, dir, name string, content []byte) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
