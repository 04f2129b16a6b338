package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("store closed")
)

// DocumentStore persists a single ledger document as opaque bytes.
type DocumentStore interface {
	// Read returns the stored document, or ErrNotFound if nothing has been
	// written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error

	// Describe returns a short human-readable location, e.g. "bolt:/path/ledger.db".
	Describe() string

	// Close connection
	Close() error
}

// MutateFunc receives the current document (nil when absent, with readErr
// describing why) and returns the bytes to store.
type MutateFunc func(current []byte, readErr error) ([]byte, error)

// Transactional stores can run a read-modify-write cycle atomically with
// respect to other processes sharing the same backend.
type Transactional interface {
	Mutate(ctx context.Context, fn MutateFunc) error
}
