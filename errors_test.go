package nosqlite

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindNames(t *testing.T) {
	// Every kind has a distinct name and message; the names are written to
	// the diagnostics log and must not change.
	want := []string{
		"DatabaseNotFound", "DatabaseAlreadyExists", "InvalidDatabaseFormat",
		"CollectionAlreadyExists", "CollectionNotFound", "InvalidCollectionStructure",
		"DocumentInvalid", "DocumentNotFound", "IoError", "SerializationError",
		"DeserializationError", "EncryptionError", "HexDecodeError", "Base64DecodeError",
	}
	seen := map[string]bool{}
	for i, name := range want {
		k := Kind(i + 1)
		if k.String() != name {
			t.Errorf("Kind(%d).String() = %q, want %q", i+1, k.String(), name)
		}
		msg := kindMessages[k]
		if msg == "" {
			t.Errorf("%s has no message", name)
		}
		if seen[msg] {
			t.Errorf("%s shares message %q", name, msg)
		}
		seen[msg] = true
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("unknown kind = %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := errorf(KindDocumentNotFound, "no document with id %q", "abc")
	if got := err.Error(); got != `document not found: no document with id "abc"` {
		t.Errorf("Error() = %q", got)
	}
	if got := (&Error{Kind: KindIoError}).Error(); got != "io error" {
		t.Errorf("Error() without detail = %q", got)
	}
}

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same kind", errorf(KindDocumentNotFound, "x"), ErrDocumentNotFound, true},
		{"other kind", errorf(KindDocumentNotFound, "x"), ErrDocumentInvalid, false},
		{"wrapped", fmt.Errorf("op: %w", errorf(KindCollectionNotFound, "users")), ErrCollectionNotFound, true},
		{"empty name detail", ErrEmptyName, ErrEmptyName, true},
		{"empty name kind", ErrEmptyName, ErrInvalidCollectionStructure, true},
		{"structure is not empty name", errorf(KindInvalidCollectionStructure, "not an object"), ErrEmptyName, false},
		{"plain error", errors.New("x"), ErrIO, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := wrap(KindIoError, cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable")
	}
	if err.Detail != "disk full" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestAsError(t *testing.T) {
	e := errorf(KindHexDecodeError, "bad")
	if asError(fmt.Errorf("ctx: %w", e)) != e {
		t.Error("asError did not unwrap engine error")
	}
	if got := asError(errors.New("boom")); got.Kind != KindIoError {
		t.Errorf("foreign error kind = %s, want IoError", got.Kind)
	}
}
