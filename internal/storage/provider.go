// Package storage defines the persistent document store abstraction.
//
// A document is an opaque byte blob addressed by a short key ("items",
// "categories", "tags"). There is no partial-update primitive: every
// mutation is read-whole, modify-in-memory, write-whole, and Save must be
// atomic from the caller's perspective.
package storage

import "os"

// ErrNotExist is returned by Load when no document has been saved under the
// key yet. Aliased so callers only import this package.
var ErrNotExist = os.ErrNotExist

// Provider is the interface for whole-document persistence.
type Provider interface {
	// Load returns the document stored under key, or ErrNotExist.
	Load(key string) ([]byte, error)
	// Save atomically replaces the document stored under key.
	Save(key string, data []byte) error
	// Close releases backend resources.
	Close() error
}
