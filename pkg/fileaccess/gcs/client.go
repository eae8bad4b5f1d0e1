package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
)

// Wrappers adapting the real GCS SDK types to the interfaces in
// interfaces.go.

type clientWrapper struct {
	*storage.Client
}

func (c *clientWrapper) Bucket(name string) gcsBucketHandle {
	return &bucketWrapper{c.Client.Bucket(name)}
}

type bucketWrapper struct {
	*storage.BucketHandle
}

func (b *bucketWrapper) Object(name string) gcsObjectHandle {
	return &objectWrapper{b.BucketHandle.Object(name)}
}

func (b *bucketWrapper) Objects(ctx context.Context, q *storage.Query) gcsObjectIterator {
	return b.BucketHandle.Objects(ctx, q)
}

type objectWrapper struct {
	*storage.ObjectHandle
}

func (o *objectWrapper) NewReader(ctx context.Context) (io.ReadCloser, error) {
	return o.ObjectHandle.NewReader(ctx)
}

func (o *objectWrapper) NewWriter(ctx context.Context) gcsWriter {
	return &writerWrapper{o.ObjectHandle.NewWriter(ctx)}
}

type writerWrapper struct {
	*storage.Writer
}

func (w *writerWrapper) SetContentType(contentType string) {
	w.Writer.ContentType = contentType
}
