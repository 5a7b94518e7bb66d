// Package dossier provides an embedded document store backed by plain
// directories. Each collection is a directory holding one compressed JSON
// file per document, mirrored by an in-memory cache. Reads are served
// entirely from the cache; every mutation writes disk first and the cache
// second, so after any completed operation the cache equals the decoded
// contents of the directory.
//
// Documents are schema-less: string fields mapped to JSON-compatible
// values, plus the reserved string field "id". The id is never written
// into a document file — it is the filename, reattached at load time.
//
// A background task periodically removes content-duplicate documents,
// keeping the first occurrence in ascending id order. The same pass runs
// synchronously when an insert is flagged as a duplicate.
//
// A directory must be opened by at most one process. Concurrent access
// from multiple processes is unsupported and corrupts cache coherence.
package dossier

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish recoverable conditions (ErrInvalidID, ErrInvalidName) from
// corruption (ErrCorruptDocument) and lifecycle misuse (ErrClosed).
var (
	ErrClosed          = errors.New("collection is closed")
	ErrCorruptDocument = errors.New("corrupt document")
	ErrInvalidID       = errors.New("id contains invalid characters")
	ErrInvalidName     = errors.New("invalid collection name")
)
