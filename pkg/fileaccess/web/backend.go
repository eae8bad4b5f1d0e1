package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once
)

// DefaultClient returns the process-wide HTTP client, created on first use
// and shared by every backend that does not bring its own.
func DefaultClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{Timeout: DefaultTimeout}
	})
	return defaultClient
}

// Backend serves http(s) URLs. It is read-only: Write, List and Delete
// report ErrNotSupported.
type Backend struct {
	client *http.Client
	logger logging.Interface
}

var _ fileaccess.Backend = (*Backend)(nil)

// New creates a web backend. A nil client means the shared default client.
func New(client *http.Client, logger logging.Interface) *Backend {
	if client == nil {
		client = DefaultClient()
	}
	return &Backend{client: client, logger: logger}
}

// Kind returns the address kind this backend serves.
func (b *Backend) Kind() fileaccess.Kind { return fileaccess.KindWeb }

func webURL(addr fileaccess.Address) (string, error) {
	wa, ok := addr.(fileaccess.WebAddress)
	if !ok {
		return "", fmt.Errorf("%w: not a web address: %s", fileaccess.ErrInvalidAddress, addr)
	}
	return wa.URL, nil
}

func (b *Backend) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		// Transport-level failures may heal on a later attempt.
		return nil, fileaccess.NewRetryableError(err)
	}
	return resp, nil
}

// Exists reports whether a GET of the URL answers with a success status. Any
// non-success status counts as absent rather than as an error.
func (b *Backend) Exists(ctx context.Context, addr fileaccess.Address) (bool, error) {
	url, err := webURL(addr)
	if err != nil {
		return false, err
	}

	resp, err := b.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Read downloads the URL's body. 404 is absence; 5xx-class answers are
// transient; other failure statuses are permanent.
func (b *Backend) Read(ctx context.Context, addr fileaccess.Address) ([]byte, bool, error) {
	url, err := webURL(addr)
	if err != nil {
		return nil, false, err
	}

	resp, err := b.get(ctx, url)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode >= 500:
		return nil, false, fileaccess.NewRetryableError(
			fmt.Errorf("server error: %s for %s", resp.Status, url))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, false, fmt.Errorf("unexpected status: %s for %s", resp.Status, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fileaccess.NewRetryableError(err)
	}
	return data, true, nil
}

// Write is not supported for web URLs.
func (b *Backend) Write(ctx context.Context, addr fileaccess.Address, data []byte, contentType fileaccess.MimeType) error {
	return fmt.Errorf("%w: writing to a url", fileaccess.ErrNotSupported)
}

// List is not supported for web URLs.
func (b *Backend) List(ctx context.Context, addr fileaccess.Address) ([]fileaccess.Address, error) {
	return nil, fmt.Errorf("%w: listing under a url", fileaccess.ErrNotSupported)
}

// Delete is not supported for web URLs.
func (b *Backend) Delete(ctx context.Context, addr fileaccess.Address) error {
	return fmt.Errorf("%w: deleting a url", fileaccess.ErrNotSupported)
}
