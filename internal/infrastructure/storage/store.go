// Package storage persists the raw bytes of uploaded protocol documents.
// Extracted text and analysis results live in the database; this layer only
// keeps the original files so they can be re-downloaded or re-processed.
package storage

import (
	"context"
	"time"

	"github.com/turtacn/protoscribe/pkg/errors"
)

// ErrObjectNotFound is returned when the requested object key does not exist.
var ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "stored object not found")

// Object is a stored document and its descriptive metadata.
type Object struct {
	Key          string
	Data         []byte
	ContentType  string
	Size         int64
	LastModified time.Time
}

// DocumentStore is the contract for raw document persistence. Implementations
// are a MinIO bucket and a local directory fallback.
type DocumentStore interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns the object stored under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) (*Object, error)
	// Remove deletes the object under key. Removing a missing key is not an
	// error.
	Remove(ctx context.Context, key string) error
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
