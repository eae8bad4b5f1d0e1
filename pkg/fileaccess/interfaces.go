package fileaccess

import "context"

// Backend is the capability set every medium adapter implements. Methods a
// backend cannot provide return ErrNotSupported instead of being absent, so
// the dispatcher's call sites stay uniform across backends.
//
// Each method receives an Address already parsed and kind-matched by the
// dispatcher. Absence is a value, not an error: Read reports it through its
// found result and Exists through its bool.
type Backend interface {
	// Kind returns the address kind this backend serves.
	Kind() Kind

	// Exists reports whether an exact object is present.
	Exists(ctx context.Context, addr Address) (bool, error)

	// Read returns the full payload, or found=false when the resource is
	// confirmed absent.
	Read(ctx context.Context, addr Address) (data []byte, found bool, err error)

	// Write stores data under the address, overwriting unconditionally.
	Write(ctx context.Context, addr Address, data []byte, contentType MimeType) error

	// List returns the child addresses under a prefix, aggregating every page
	// of a paginated listing before returning. A mid-listing failure discards
	// partial results.
	List(ctx context.Context, addr Address) ([]Address, error)

	// Delete removes an exact object.
	Delete(ctx context.Context, addr Address) error
}

// BucketCapable is implemented by backends that can inspect and create the
// containers objects live in.
type BucketCapable interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	EnsureBucket(ctx context.Context, bucket string) error
}
