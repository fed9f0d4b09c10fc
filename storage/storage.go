// Package storage resolves document names to readable handles and output
// names to writable ones.
//
// Two providers are included: [Local] serves files below a root directory
// and [Redis] keeps whole objects as string values under a key prefix. Both
// report missing objects with [ErrNotFound].
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when a provider has no object with the given name.
	ErrNotFound = errors.New("storage: object not found")

	// ErrInvalidName is returned for names a provider cannot address, such as
	// paths escaping a Local root.
	ErrInvalidName = errors.New("storage: invalid object name")
)

// File is an open, random-access object.
type File interface {
	io.ReaderAt
	io.ReadSeeker
	io.Closer

	// Size returns the object length in bytes
	Size() int64
}

// Provider opens, creates and lists named objects.
type Provider interface {
	Open(ctx context.Context, name string) (File, error)

	// Create returns a writer whose content becomes visible under name no
	// later than when it is closed. An existing object is replaced.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// List returns the names starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}
