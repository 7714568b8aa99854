package blob

import (
	"context"
	"io"
)

// Store persists opaque payloads such as payment proof images under a
// caller-supplied key.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
