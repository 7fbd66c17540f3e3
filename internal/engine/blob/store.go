// Package blob provides the object-store abstraction behind the media
// content cache and the storage tools, plus its Azure Blob Storage
// implementation.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Download when the blob or container does not exist.
var ErrNotFound = errors.New("blob not found")

// Info describes a stored blob.
type Info struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is a minimal object-store contract: existence check, stream
// download/upload, and flat listing. Implementations must be safe for
// concurrent use; concurrent writes to the same name are last-write-wins.
type Store interface {
	Exists(ctx context.Context, container, name string) (bool, error)
	// Download returns the blob body; the caller must close it.
	// Returns an error wrapping ErrNotFound when the blob is absent.
	Download(ctx context.Context, container, name string) (io.ReadCloser, error)
	Upload(ctx context.Context, container, name string, body io.Reader, contentType string) error
	List(ctx context.Context, container, prefix string, limit int) ([]Info, error)
}
