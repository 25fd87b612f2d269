// Package storage holds the places the tabular files can live: a local
// directory or an S3-compatible bucket. A Postgres mirror can additionally
// receive each merged rating column.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a named file does not exist in a backend.
var ErrNotFound = errors.New("object not found")

// Backend reads and fully overwrites named tabular files.
type Backend interface {
	// Open returns the content of name. Missing files yield ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Write replaces name with data.
	Write(ctx context.Context, name string, data []byte) error
	// Kind identifies the backend in logs and metrics.
	Kind() string
}
