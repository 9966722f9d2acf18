// Package store defines the storage backend interface for reading and
// writing artifacts.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an artifact does not exist in the store.
var ErrNotFound = errors.New("store: artifact not found")

// ErrInvalidName is returned for names that are empty or escape the store.
var ErrInvalidName = errors.New("store: invalid artifact name")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
// Names are slash-separated and relative to the store root.
type Store interface {
	// Read returns the full content of the named artifact.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under name, replacing any existing artifact.
	// A failed Write never leaves a partial artifact behind.
	Write(ctx context.Context, name string, data []byte) error

	// List returns the names of all artifacts in the store, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
