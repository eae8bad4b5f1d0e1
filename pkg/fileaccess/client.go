package fileaccess

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/anyfile-project/anyfile/pkg/logging"
)

// Client dispatches operations on raw identifiers to the backend matching the
// identifier's address kind. A Client holds no per-call state and is safe for
// concurrent use; construct one per process and share it.
type Client struct {
	logger   logging.Interface
	backends map[Kind]Backend
}

// New creates a Client serving the given backends. Registering two backends
// of the same kind is a programming error.
func New(logger logging.Interface, backends ...Backend) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Client{
		logger:   logger,
		backends: make(map[Kind]Backend, len(backends)),
	}
	for _, b := range backends {
		if _, dup := c.backends[b.Kind()]; dup {
			return nil, fmt.Errorf("duplicate backend for kind %s", b.Kind())
		}
		c.backends[b.Kind()] = b
	}
	return c, nil
}

// resolve parses the identifier and selects its backend.
func (c *Client) resolve(op, identifier string) (Backend, Address, error) {
	addr, err := ParseAddress(identifier)
	if err != nil {
		return nil, nil, err
	}
	b, ok := c.backends[addr.Kind()]
	if !ok {
		return nil, nil, NewError(op, identifier, addr.Kind(),
			fmt.Errorf("%w: no backend for kind %s", ErrNotSupported, addr.Kind()))
	}
	return b, addr, nil
}

// requireExactObject rejects addresses that cannot name a single object
// before any backend call is made.
func requireExactObject(addr Address) error {
	oa, ok := addr.(ObjectAddress)
	if !ok {
		return nil
	}
	if oa.IsPrefix {
		return fmt.Errorf("%w: object name must not end with /: %s", ErrInvalidAddress, oa)
	}
	if oa.Name == "" {
		return fmt.Errorf("%w: bucket address is not an object: %s", ErrInvalidAddress, oa)
	}
	return nil
}

// List returns the identifiers of the resources under the given prefix, in
// the order the backend reports them.
func (c *Client) List(ctx context.Context, identifier string, opts ...Option) ([]string, error) {
	o := applyOptions(opts)
	b, addr, err := c.resolve("list", identifier)
	if err != nil {
		return nil, err
	}

	var children []Address
	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		var err error
		children, err = b.List(ctx, addr)
		if err != nil {
			c.logger.WithField("identifier", identifier).WithError(err).Warn("list failed")
		}
		return err
	})
	if err != nil {
		return nil, NewError("list", identifier, addr.Kind(), err)
	}

	result := make([]string, len(children))
	for i, child := range children {
		result[i] = child.String()
	}
	return result, nil
}

// Read returns the full payload of the resource, decoded with the resolved
// codec. found is false when the resource is confirmed absent.
func (c *Client) Read(ctx context.Context, identifier string, opts ...Option) (data []byte, found bool, err error) {
	o := applyOptions(opts)
	b, addr, err := c.resolve("read", identifier)
	if err != nil {
		return nil, false, err
	}
	if err := requireExactObject(addr); err != nil {
		return nil, false, err
	}

	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		var err error
		data, found, err = b.Read(ctx, addr)
		if err != nil {
			c.logger.WithField("identifier", identifier).WithError(err).Warn("read failed")
		}
		return err
	})
	if err != nil {
		return nil, false, NewError("read", identifier, addr.Kind(), err)
	}
	if !found {
		return nil, false, nil
	}

	data, err = decompressOpt(data, resolveCompression(o.compression, identifier))
	if err != nil {
		return nil, false, NewError("read", identifier, addr.Kind(), err)
	}
	return data, true, nil
}

// ReadString is Read with the payload decoded as UTF-8 text. Payloads that
// are not valid text fail with ErrDecode.
func (c *Client) ReadString(ctx context.Context, identifier string, opts ...Option) (string, bool, error) {
	data, found, err := c.Read(ctx, identifier, opts...)
	if err != nil || !found {
		return "", found, err
	}
	if !utf8.Valid(data) {
		return "", false, fmt.Errorf("%w: %s", ErrDecode, identifier)
	}
	return string(data), true, nil
}

// Exists reports whether the exact object named by the identifier is present.
func (c *Client) Exists(ctx context.Context, identifier string, opts ...Option) (bool, error) {
	o := applyOptions(opts)
	b, addr, err := c.resolve("exists", identifier)
	if err != nil {
		return false, err
	}
	if err := requireExactObject(addr); err != nil {
		return false, err
	}

	var exists bool
	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		var err error
		exists, err = b.Exists(ctx, addr)
		if err != nil {
			c.logger.WithField("identifier", identifier).WithError(err).Warn("exists check failed")
		}
		return err
	})
	if err != nil {
		return false, NewError("exists", identifier, addr.Kind(), err)
	}
	return exists, nil
}

// Write stores the payload under the identifier, encoding it with the
// resolved codec first. Existing content is overwritten unconditionally;
// retried writes are assumed idempotent.
func (c *Client) Write(ctx context.Context, identifier string, data []byte, opts ...Option) error {
	o := applyOptions(opts)
	b, addr, err := c.resolve("write", identifier)
	if err != nil {
		return err
	}
	if err := requireExactObject(addr); err != nil {
		return err
	}
	if err := o.contentType.Validate(); err != nil {
		return NewError("write", identifier, addr.Kind(), err)
	}

	body, err := compressOpt(data, resolveCompression(o.compression, identifier))
	if err != nil {
		return NewError("write", identifier, addr.Kind(), err)
	}

	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		err := b.Write(ctx, addr, body, o.contentType)
		if err != nil {
			c.logger.WithField("identifier", identifier).WithError(err).Warn("write failed")
		}
		return err
	})
	if err != nil {
		return NewError("write", identifier, addr.Kind(), err)
	}
	return nil
}

// Delete removes the exact object named by the identifier.
func (c *Client) Delete(ctx context.Context, identifier string, opts ...Option) error {
	o := applyOptions(opts)
	b, addr, err := c.resolve("delete", identifier)
	if err != nil {
		return err
	}
	if err := requireExactObject(addr); err != nil {
		return err
	}

	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		err := b.Delete(ctx, addr)
		if err != nil {
			c.logger.WithField("identifier", identifier).WithError(err).Warn("delete failed")
		}
		return err
	})
	if err != nil {
		return NewError("delete", identifier, addr.Kind(), err)
	}
	return nil
}

// BucketExists reports whether the bucket of an object-store identifier
// exists. Backends without bucket support fail with ErrNotSupported.
func (c *Client) BucketExists(ctx context.Context, identifier string, opts ...Option) (bool, error) {
	o := applyOptions(opts)
	b, addr, err := c.resolve("bucket-exists", identifier)
	if err != nil {
		return false, err
	}
	oa, ok := addr.(ObjectAddress)
	if !ok {
		return false, NewError("bucket-exists", identifier, addr.Kind(), ErrNotSupported)
	}
	bc, ok := b.(BucketCapable)
	if !ok {
		return false, NewError("bucket-exists", identifier, addr.Kind(), ErrNotSupported)
	}

	var exists bool
	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		var err error
		exists, err = bc.BucketExists(ctx, oa.Bucket)
		return err
	})
	if err != nil {
		return false, NewError("bucket-exists", identifier, addr.Kind(), err)
	}
	return exists, nil
}

// EnsureBucket creates the bucket of an object-store identifier if it does
// not already exist.
func (c *Client) EnsureBucket(ctx context.Context, identifier string, opts ...Option) error {
	o := applyOptions(opts)
	b, addr, err := c.resolve("ensure-bucket", identifier)
	if err != nil {
		return err
	}
	oa, ok := addr.(ObjectAddress)
	if !ok {
		return NewError("ensure-bucket", identifier, addr.Kind(), ErrNotSupported)
	}
	bc, ok := b.(BucketCapable)
	if !ok {
		return NewError("ensure-bucket", identifier, addr.Kind(), ErrNotSupported)
	}

	err = RetryOperation(ctx, o.retry, o.classify, func() error {
		return bc.EnsureBucket(ctx, oa.Bucket)
	})
	if err != nil {
		return NewError("ensure-bucket", identifier, addr.Kind(), err)
	}
	return nil
}
