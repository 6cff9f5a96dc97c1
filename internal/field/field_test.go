package field_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rtmodify/internal/field"
)

func TestScanFindsFieldsInOrder(t *testing.T) {
	content := []byte("d9:directory5:/data3:foo:directory7:/backup1:xe")

	fields, err := field.Scan(content, "directory")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if got := string(fields[0].Value); got != "/data" {
		t.Fatalf("unexpected first value %q", got)
	}
	if fields[0].Offset != 2 {
		t.Fatalf("unexpected first offset %d", fields[0].Offset)
	}
	if got := string(fields[1].Value); got != "/backup" {
		t.Fatalf("unexpected second value %q", got)
	}
	if fields[1].Length != 7 {
		t.Fatalf("unexpected second length %d", fields[1].Length)
	}
}

func TestScanDelimitsByDeclaredLength(t *testing.T) {
	content := []byte(`:directory14:C:\torrents\xy5:other`)

	fields, err := field.Scan(content, "directory")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if got := string(fields[0].Value); got != `C:\torrents\xy` {
		t.Fatalf("expected value with colon, got %q", got)
	}
}

func TestScanSkipsKeyWithoutLength(t *testing.T) {
	content := []byte(":directory_base:x:directory3:abc")

	fields, err := field.Scan(content, "directory")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(fields) != 1 || string(fields[0].Value) != "abc" {
		t.Fatalf("unexpected fields %+v", fields)
	}
}

func TestScanDoesNotRescanInsideValue(t *testing.T) {
	// The second marker lives inside the first value.
	content := []byte(":directory14::directory2:ab")

	fields, err := field.Scan(content, "directory")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected nested marker to be ignored, got %d fields", len(fields))
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		want    error
		kind    string
	}{
		{name: "missing key", content: "d4:name3:fooe", key: "directory", want: field.ErrNoSuchField, kind: "no_such_field"},
		{name: "empty content", content: "", key: "directory", want: field.ErrNoSuchField, kind: "no_such_field"},
		{name: "empty key", content: ":3:abc", key: "", want: field.ErrNoSuchField, kind: "no_such_field"},
		{name: "truncated value", content: ":directory20:/short", key: "directory", want: field.ErrMalformedField, kind: "malformed_field"},
		{name: "truncated length", content: "xx:directory12", key: "directory", want: field.ErrMalformedField, kind: "malformed_field"},
		{name: "missing second colon", content: ":directory12x/abc", key: "directory", want: field.ErrMalformedField, kind: "malformed_field"},
		{name: "leading zero", content: ":directory05:/abcd", key: "directory", want: field.ErrInvalidLength, kind: "invalid_length"},
		{name: "overflow", content: ":directory99999999999999999999999:/a", key: "directory", want: field.ErrInvalidLength, kind: "invalid_length"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := field.Scan([]byte(tc.content), tc.key)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var fieldErr *field.Error
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected *field.Error, got %T", err)
			}
			if fieldErr.ErrorKind() != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, fieldErr.ErrorKind())
			}
		})
	}
}

func TestScanAcceptsZeroLength(t *testing.T) {
	fields, err := field.Scan([]byte(":directory0:"), "directory")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if fields[0].Length != 0 || len(fields[0].Value) != 0 {
		t.Fatalf("unexpected field %+v", fields[0])
	}
}

func TestEncode(t *testing.T) {
	got := field.Encode("directory", []byte("/new/root/pathX"))
	if string(got) != ":directory15:/new/root/pathX" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if !strings.HasPrefix(string(field.Encode("k", nil)), ":k0:") {
		t.Fatalf("expected empty value to encode with zero length")
	}
	if !bytes.Equal(field.Encode("k", []byte("a:b")), []byte(":k3:a:b")) {
		t.Fatalf("unexpected encoding for value with colon")
	}
}
