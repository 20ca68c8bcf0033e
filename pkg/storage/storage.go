// Package storage defines the FileStore interface behind the capture
// archive. Accepted enrollment captures are written as WAV files under
// per-user prefixes; swapping the backend moves the archive between
// local disk and S3-compatible object stores without touching the
// enrollment code.
package storage

import (
	"context"
	"io"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is
	// returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing.
	// If the file already exists it is truncated.
	// Parent directories are created automatically.
	// The caller must close the returned WriteCloser to flush data.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file.
	// If the file does not exist, Delete returns nil (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the paths of all files under the given prefix, in
	// lexicographic order. A missing prefix yields an empty list. Used
	// by per-user purges to enumerate archived captures.
	List(ctx context.Context, prefix string) ([]string, error)
}
