// Package storage defines the FileStore interface for reading and writing
// named byte streams, with backends for the local filesystem, S3-compatible
// object stores and an embedded badger database.
//
// On top of any FileStore, the package offers stream-level helpers built on
// streamutil: Length drains a file to measure it, ReadFile loads a file into
// memory with an optional size limit, and Transfer copies a file between two
// stores.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for paths that are empty, absolute, or escape
// the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing.
	// If the file already exists it is truncated.
	// The caller must close the returned WriteCloser to commit the data.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file.
	// If the file does not exist, Delete returns nil (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
