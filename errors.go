// Package nosqlite provides an embedded, schema-checked document store whose
// entire catalog is held in memory and persisted as a single encrypted file.
//
// A store file contains the catalog serialised as indented JSON, sealed with
// AES-256-GCM under a 32-byte key, and base64 encoded together with its
// nonce. Every save rewrites the whole file through a temporary sibling and
// an atomic rename. There is no journal, no index and no partial save: the
// catalog is the unit of persistence.
//
// Collections carry a schema of expected field types. Writes that replace a
// document's payload are validated against it; field patches are not.
// Every error the engine raises is also appended to a per-store log file.
package nosqlite

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error. The set is closed.
type Kind int

const (
	KindDatabaseNotFound Kind = iota + 1
	KindDatabaseAlreadyExists
	KindInvalidDatabaseFormat
	KindCollectionAlreadyExists
	KindCollectionNotFound
	KindInvalidCollectionStructure
	KindDocumentInvalid
	KindDocumentNotFound
	KindIoError
	KindSerializationError
	KindDeserializationError
	KindEncryptionError
	KindHexDecodeError
	KindBase64DecodeError
)

var kindNames = map[Kind]string{
	KindDatabaseNotFound:           "DatabaseNotFound",
	KindDatabaseAlreadyExists:      "DatabaseAlreadyExists",
	KindInvalidDatabaseFormat:      "InvalidDatabaseFormat",
	KindCollectionAlreadyExists:    "CollectionAlreadyExists",
	KindCollectionNotFound:         "CollectionNotFound",
	KindInvalidCollectionStructure: "InvalidCollectionStructure",
	KindDocumentInvalid:            "DocumentInvalid",
	KindDocumentNotFound:           "DocumentNotFound",
	KindIoError:                    "IoError",
	KindSerializationError:         "SerializationError",
	KindDeserializationError:       "DeserializationError",
	KindEncryptionError:            "EncryptionError",
	KindHexDecodeError:             "HexDecodeError",
	KindBase64DecodeError:          "Base64DecodeError",
}

// Human-readable prefixes used by Error.Error.
var kindMessages = map[Kind]string{
	KindDatabaseNotFound:           "database not found",
	KindDatabaseAlreadyExists:      "database already exists",
	KindInvalidDatabaseFormat:      "invalid database format",
	KindCollectionAlreadyExists:    "collection already exists",
	KindCollectionNotFound:         "collection not found",
	KindInvalidCollectionStructure: "invalid collection structure",
	KindDocumentInvalid:            "document invalid",
	KindDocumentNotFound:           "document not found",
	KindIoError:                    "io error",
	KindSerializationError:         "serialization error",
	KindDeserializationError:       "deserialization error",
	KindEncryptionError:            "encryption error",
	KindHexDecodeError:             "hex decode error",
	KindBase64DecodeError:          "base64 decode error",
}

// String returns the kind name as written to the diagnostics log.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type returned by the engine. Detail is the
// human-readable explanation; Err, when set, is the underlying cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := kindMessages[e.Kind]
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Detail == "" {
		return msg
	}
	return msg + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with a
// non-empty Detail must also match the detail exactly, which lets callers
// test for specific sentinels such as ErrEmptyName.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Detail == "" || t.Detail == e.Detail
}

// Sentinel errors for programmatic handling with errors.Is. Each matches
// any engine error of the same kind regardless of its detail.
var (
	ErrDatabaseNotFound           = &Error{Kind: KindDatabaseNotFound}
	ErrDatabaseAlreadyExists      = &Error{Kind: KindDatabaseAlreadyExists}
	ErrInvalidDatabaseFormat      = &Error{Kind: KindInvalidDatabaseFormat}
	ErrCollectionAlreadyExists    = &Error{Kind: KindCollectionAlreadyExists}
	ErrCollectionNotFound         = &Error{Kind: KindCollectionNotFound}
	ErrInvalidCollectionStructure = &Error{Kind: KindInvalidCollectionStructure}
	ErrDocumentInvalid            = &Error{Kind: KindDocumentInvalid}
	ErrDocumentNotFound           = &Error{Kind: KindDocumentNotFound}
	ErrIO                         = &Error{Kind: KindIoError}
	ErrSerialization              = &Error{Kind: KindSerializationError}
	ErrDeserialization            = &Error{Kind: KindDeserializationError}
	ErrEncryption                 = &Error{Kind: KindEncryptionError}
	ErrHexDecode                  = &Error{Kind: KindHexDecodeError}
	ErrBase64Decode               = &Error{Kind: KindBase64DecodeError}

	// ErrEmptyName is returned when a collection is added without a name.
	ErrEmptyName = &Error{Kind: KindInvalidCollectionStructure, Detail: "collection name is empty"}
)

// errorf builds an *Error with a formatted detail.
func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// wrap builds an *Error whose detail is the text of cause.
func wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Detail: cause.Error(), Err: cause}
}

// asError converts any error into an *Error, keeping engine errors as is.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrap(KindIoError, err)
}
