// Package apperr defines the error taxonomy shared across the service.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an item id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a required field is missing or empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFileTypeRejected is returned when an upload's media type is outside
	// the allow-list.
	ErrFileTypeRejected = errors.New("file type rejected")
	// ErrFileTooLarge is returned when an upload exceeds the configured ceiling.
	ErrFileTooLarge = errors.New("file too large")
	// ErrParse is returned when a persisted document fails to decode. It is
	// distinct from plain I/O failure so callers can tell corruption from a
	// missing or unreadable file.
	ErrParse = errors.New("parse error")
)

// OrphanedBlob reports that a blob was durably stored but the subsequent
// metadata write failed, leaving the blob unreferenced on disk. It must not
// be conflated with an ordinary store failure: the caller may want to sweep
// the named file.
type OrphanedBlob struct {
	Filename string
	Err      error
}

func (e *OrphanedBlob) Error() string {
	return fmt.Sprintf("orphaned blob %s: metadata write failed: %v", e.Filename, e.Err)
}

func (e *OrphanedBlob) Unwrap() error { return e.Err }
