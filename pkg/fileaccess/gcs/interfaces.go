package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
)

// Thin interfaces over the GCS SDK so the backend can be exercised against
// fakes in tests.

// gcsClient defines the interface for GCS client operations.
type gcsClient interface {
	Bucket(name string) gcsBucketHandle
	Close() error
}

// gcsBucketHandle defines the interface for GCS bucket operations.
type gcsBucketHandle interface {
	Object(name string) gcsObjectHandle
	Objects(ctx context.Context, q *storage.Query) gcsObjectIterator
	Attrs(ctx context.Context) (*storage.BucketAttrs, error)
	Create(ctx context.Context, projectID string, attrs *storage.BucketAttrs) error
}

// gcsObjectHandle defines the interface for GCS object operations.
type gcsObjectHandle interface {
	NewReader(ctx context.Context) (io.ReadCloser, error)
	NewWriter(ctx context.Context) gcsWriter
	Attrs(ctx context.Context) (*storage.ObjectAttrs, error)
	Delete(ctx context.Context) error
}

// gcsObjectIterator pages through a listing; Next returns iterator.Done after
// the last entry.
type gcsObjectIterator interface {
	Next() (*storage.ObjectAttrs, error)
}

// gcsWriter defines the interface for a GCS object writer.
type gcsWriter interface {
	io.WriteCloser
	SetContentType(contentType string)
}
