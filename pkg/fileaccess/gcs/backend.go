package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// Config represents GCS backend configuration.
type Config struct {
	// ProjectID is required only for bucket creation.
	ProjectID string `mapstructure:"project_id"`

	// Location is the location newly created buckets get.
	Location string `mapstructure:"location"`

	// Endpoint overrides the service endpoint, for emulators.
	Endpoint string `mapstructure:"endpoint"`

	// CredentialsFile points at a service account key file. Application
	// default credentials are used when empty.
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Backend serves gs://bucket/name addresses against Google Cloud Storage.
// The underlying client is process-wide and safe for concurrent use.
type Backend struct {
	client gcsClient
	config Config
	logger logging.Interface
}

var (
	_ fileaccess.Backend       = (*Backend)(nil)
	_ fileaccess.BucketCapable = (*Backend)(nil)
)

// New creates a GCS backend with a real client.
func New(ctx context.Context, config Config, logger logging.Interface) (*Backend, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger.WithField("project", config.ProjectID).Info("GCS backend initialized")

	return &Backend{client: &clientWrapper{client}, config: config, logger: logger}, nil
}

// Kind returns the address kind this backend serves.
func (b *Backend) Kind() fileaccess.Kind { return fileaccess.KindObject }

func objectAddr(addr fileaccess.Address) (fileaccess.ObjectAddress, error) {
	oa, ok := addr.(fileaccess.ObjectAddress)
	if !ok {
		return fileaccess.ObjectAddress{}, fmt.Errorf("%w: not an object address: %s",
			fileaccess.ErrInvalidAddress, addr)
	}
	return oa, nil
}

func exactObjectAddr(addr fileaccess.Address) (fileaccess.ObjectAddress, error) {
	oa, err := objectAddr(addr)
	if err != nil {
		return oa, err
	}
	if oa.IsPrefix || oa.Name == "" {
		return oa, fmt.Errorf("%w: not an exact object: %s", fileaccess.ErrInvalidAddress, oa)
	}
	return oa, nil
}

// Exists reports whether the exact object is present.
func (b *Backend) Exists(ctx context.Context, addr fileaccess.Address) (bool, error) {
	oa, err := exactObjectAddr(addr)
	if err != nil {
		return false, err
	}

	_, err = b.client.Bucket(oa.Bucket).Object(oa.Name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// Read downloads the object payload, confirming existence first so a missing
// key is reported as absent rather than as an error.
func (b *Backend) Read(ctx context.Context, addr fileaccess.Address) ([]byte, bool, error) {
	oa, err := exactObjectAddr(addr)
	if err != nil {
		return nil, false, err
	}

	object := b.client.Bucket(oa.Bucket).Object(oa.Name)
	if _, err := object.Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, false, nil
		}
		return nil, false, classify(err)
	}

	reader, err := object.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, false, nil
		}
		return nil, false, classify(err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, classify(err)
	}
	return data, true, nil
}

// Write uploads the payload, overwriting any existing object.
func (b *Backend) Write(ctx context.Context, addr fileaccess.Address, data []byte, contentType fileaccess.MimeType) error {
	oa, err := exactObjectAddr(addr)
	if err != nil {
		return err
	}

	w := b.client.Bucket(oa.Bucket).Object(oa.Name).NewWriter(ctx)
	w.SetContentType(string(contentType))

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return classify(err)
	}
	if err := w.Close(); err != nil {
		return classify(err)
	}
	return nil
}

// List aggregates every page of the listing under the address's prefix. A
// failure on any page discards everything collected so far.
func (b *Backend) List(ctx context.Context, addr fileaccess.Address) ([]fileaccess.Address, error) {
	oa, err := objectAddr(addr)
	if err != nil {
		return nil, err
	}

	prefix := oa.Name
	if oa.IsPrefix && prefix != "" {
		prefix += "/"
	}

	it := b.client.Bucket(oa.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var children []fileaccess.Address
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(err)
		}

		name, isPrefix := strings.CutSuffix(attrs.Name, "/")
		children = append(children, fileaccess.ObjectAddress{
			Bucket:   oa.Bucket,
			Name:     name,
			IsPrefix: isPrefix,
		})
	}
	return children, nil
}

// Delete removes the exact object.
func (b *Backend) Delete(ctx context.Context, addr fileaccess.Address) error {
	oa, err := exactObjectAddr(addr)
	if err != nil {
		return err
	}

	err = b.client.Bucket(oa.Bucket).Object(oa.Name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s", fileaccess.ErrNotFound, oa)
	}
	if err != nil {
		return classify(err)
	}
	return nil
}

// BucketExists reports whether the bucket itself exists.
func (b *Backend) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := b.client.Bucket(bucket).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// EnsureBucket creates the bucket if it does not already exist.
func (b *Backend) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := b.BucketExists(ctx, bucket)
	if err != nil || exists {
		return err
	}
	err = b.client.Bucket(bucket).Create(ctx, b.config.ProjectID, &storage.BucketAttrs{
		Location: b.config.Location,
	})
	if err != nil {
		return classify(err)
	}
	b.logger.WithField("bucket", bucket).Info("Bucket created")
	return nil
}

// Close releases the underlying client.
func (b *Backend) Close() error { return b.client.Close() }

// classify wraps transient service and transport failures so the retry
// executor knows to try again; everything else is permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fileaccess.NewRetryableError(err)
	}
	return err
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 408, 429:
			return true
		}
		return apiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return false
}
