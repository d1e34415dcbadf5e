package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no blob exists for the identifier.
var ErrNotFound = errors.New("stored file not found")

// ReadSeekCloser is the handle returned by Open. The caller owns closing it.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// FileStore maps opaque identifiers to immutable blobs. Identifiers are
// generated on Save and never reused, so concurrent reads of the same
// identifier are always safe and writes never collide.
type FileStore interface {
	// Save writes data under a freshly generated identifier combined with
	// ext (e.g. ".mp3") and returns that identifier.
	Save(data []byte, ext string) (string, error)
	// Exists reports whether a blob exists. Never errors for a missing blob.
	Exists(identifier string) bool
	// Size returns the blob's byte length. Returns 0 (and logs) when the
	// blob vanished between Exists and Size; the value is advisory only.
	Size(identifier string) int64
	// Delete removes the blob if present. Returns false, not an error,
	// when it was already absent.
	Delete(identifier string) bool
	// Open returns a seekable read handle, or ErrNotFound.
	Open(identifier string) (ReadSeekCloser, error)
}
