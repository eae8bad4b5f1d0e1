package fileaccess

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend keyed by rendered address. It counts
// calls so tests can assert the dispatcher never reached it.
type fakeBackend struct {
	kind    Kind
	objects map[string][]byte
	calls   int

	// failWith, when set, makes every operation fail failures times before
	// behaving normally.
	failWith error
	failures int

	buckets map[string]bool
}

func newFakeBackend(kind Kind) *fakeBackend {
	return &fakeBackend{
		kind:    kind,
		objects: make(map[string][]byte),
		buckets: make(map[string]bool),
	}
}

func (f *fakeBackend) fail() error {
	if f.failures > 0 {
		f.failures--
		return f.failWith
	}
	return nil
}

func (f *fakeBackend) Kind() Kind { return f.kind }

func (f *fakeBackend) Exists(_ context.Context, addr Address) (bool, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return false, err
	}
	_, ok := f.objects[addr.String()]
	return ok, nil
}

func (f *fakeBackend) Read(_ context.Context, addr Address) ([]byte, bool, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return nil, false, err
	}
	data, ok := f.objects[addr.String()]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (f *fakeBackend) Write(_ context.Context, addr Address, data []byte, _ MimeType) error {
	f.calls++
	if err := f.fail(); err != nil {
		return err
	}
	f.objects[addr.String()] = data
	return nil
}

func (f *fakeBackend) List(_ context.Context, addr Address) ([]Address, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(addr.String(), "/")
	var children []Address
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			child, err := ParseAddress(key)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].String() < children[j].String() })
	return children, nil
}

func (f *fakeBackend) Delete(_ context.Context, addr Address) error {
	f.calls++
	if err := f.fail(); err != nil {
		return err
	}
	if _, ok := f.objects[addr.String()]; !ok {
		return ErrNotFound
	}
	delete(f.objects, addr.String())
	return nil
}

func (f *fakeBackend) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.calls++
	return f.buckets[bucket], nil
}

func (f *fakeBackend) EnsureBucket(_ context.Context, bucket string) error {
	f.calls++
	f.buckets[bucket] = true
	return nil
}

func newTestClient(t *testing.T, backends ...Backend) *Client {
	t.Helper()
	client, err := New(nil, backends...)
	require.NoError(t, err)
	return client
}

func TestNewRejectsDuplicateKinds(t *testing.T) {
	_, err := New(nil, newFakeBackend(KindLocal), newFakeBackend(KindLocal))
	assert.Error(t, err)
}

func TestClientWriteReadRoundTrip(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	payload := []byte("the quick brown fox")
	require.NoError(t, client.Write(ctx, "gs://mybucket/data/file.txt", payload))

	got, found, err := client.Read(ctx, "gs://mybucket/data/file.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestClientGzipRoundTripByExtension(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	payload := []byte("compressed payload")
	require.NoError(t, client.Write(ctx, "gs://mybucket/data/file.gz", payload))

	// The stored bytes must be the encoded form, not the plaintext.
	stored := backend.objects["gs://mybucket/data/file.gz"]
	assert.NotEqual(t, payload, stored)

	got, found, err := client.Read(ctx, "gs://mybucket/data/file.gz")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestClientExplicitNoneOverridesExtension(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	payload := []byte("already encoded elsewhere")
	require.NoError(t, client.Write(ctx, "gs://mybucket/raw.gz", payload,
		WithCompression(CompressionNone)))

	assert.Equal(t, payload, backend.objects["gs://mybucket/raw.gz"])

	got, found, err := client.Read(ctx, "gs://mybucket/raw.gz",
		WithCompression(CompressionNone))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestClientReadAbsent(t *testing.T) {
	client := newTestClient(t, newFakeBackend(KindObject))

	data, found, err := client.Read(context.Background(), "gs://mybucket/missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestClientExistsDeleteExists(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	require.NoError(t, client.Write(ctx, "gs://b/obj", []byte("x")))

	exists, err := client.Exists(ctx, "gs://b/obj")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, "gs://b/obj"))

	exists, err = client.Exists(ctx, "gs://b/obj")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClientDeleteAbsentFails(t *testing.T) {
	client := newTestClient(t, newFakeBackend(KindObject))

	err := client.Delete(context.Background(), "gs://b/never-written")
	assert.True(t, IsNotFound(err))
}

func TestClientPrefixAddressRejectedBeforeBackend(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"read", func() error { _, _, err := client.Read(ctx, "gs://b/prefix/"); return err }},
		{"exists", func() error { _, err := client.Exists(ctx, "gs://b/prefix/"); return err }},
		{"write", func() error { return client.Write(ctx, "gs://b/prefix/", []byte("x")) }},
		{"delete", func() error { return client.Delete(ctx, "gs://b/prefix/") }},
		{"read bare bucket", func() error { _, _, err := client.Read(ctx, "gs://b"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, IsInvalidAddress(err), "got %v", err)
		})
	}
	assert.Zero(t, backend.calls, "backend must not be reached for invalid shapes")
}

func TestClientListPrefix(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	require.NoError(t, client.Write(ctx, "gs://b/data/a", []byte("1")))
	require.NoError(t, client.Write(ctx, "gs://b/data/b", []byte("2")))
	require.NoError(t, client.Write(ctx, "gs://b/other/c", []byte("3")))

	children, err := client.List(ctx, "gs://b/data/")
	require.NoError(t, err)
	assert.Equal(t, []string{"gs://b/data/a", "gs://b/data/b"}, children)
}

func TestClientNoBackendForKind(t *testing.T) {
	client := newTestClient(t, newFakeBackend(KindLocal))

	_, err := client.Exists(context.Background(), "gs://b/obj")
	assert.True(t, IsNotSupported(err))
}

func TestClientInvalidIdentifier(t *testing.T) {
	client := newTestClient(t, newFakeBackend(KindObject))

	_, _, err := client.Read(context.Background(), "gs://bucket//bad")
	assert.True(t, IsInvalidAddress(err))
}

func TestClientRetriesTransientBackendErrors(t *testing.T) {
	backend := newFakeBackend(KindObject)
	backend.objects["gs://b/obj"] = []byte("x")
	backend.failWith = NewRetryableError(errors.New("flaky"))
	backend.failures = 2
	client := newTestClient(t, backend)

	got, found, err := client.Read(context.Background(), "gs://b/obj",
		WithRetryPolicy(fastPolicy(5)))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("x"), got)
	assert.Equal(t, 3, backend.calls)
}

func TestClientWithoutRetryFailsFast(t *testing.T) {
	backend := newFakeBackend(KindObject)
	backend.failWith = NewRetryableError(errors.New("flaky"))
	backend.failures = 1
	client := newTestClient(t, backend)

	_, err := client.Exists(context.Background(), "gs://b/obj", WithoutRetry())
	assert.Error(t, err)
	assert.Equal(t, 1, backend.calls)
}

func TestClientPermanentErrorNotRetried(t *testing.T) {
	backend := newFakeBackend(KindObject)
	backend.failWith = errors.New("permanent")
	backend.failures = 3
	client := newTestClient(t, backend)

	_, err := client.Exists(context.Background(), "gs://b/obj",
		WithRetryPolicy(fastPolicy(5)))
	assert.Error(t, err)
	assert.Equal(t, 1, backend.calls)
}

func TestClientErrorCarriesContext(t *testing.T) {
	backend := newFakeBackend(KindObject)
	backend.failWith = errors.New("boom")
	backend.failures = 1
	client := newTestClient(t, backend)

	_, err := client.Exists(context.Background(), "gs://b/obj", WithoutRetry())
	require.Error(t, err)

	var opErr *Error
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "exists", opErr.Op)
	assert.Equal(t, "gs://b/obj", opErr.Identifier)
	assert.Equal(t, KindObject, opErr.Backend)
}

func TestClientReadString(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	require.NoError(t, client.Write(ctx, "gs://b/text", []byte("hello")))

	s, found, err := client.ReadString(ctx, "gs://b/text")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", s)

	// Binary payloads fail decoding.
	require.NoError(t, client.Write(ctx, "gs://b/binary", []byte{0xff, 0xfe, 0x00}))
	_, _, err = client.ReadString(ctx, "gs://b/binary")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClientWriteRejectsUnknownContentType(t *testing.T) {
	client := newTestClient(t, newFakeBackend(KindObject))

	err := client.Write(context.Background(), "gs://b/obj", []byte("x"),
		WithContentType(MimeType("application/x-unheard-of")))
	assert.Error(t, err)
}

func TestClientBucketOperations(t *testing.T) {
	backend := newFakeBackend(KindObject)
	client := newTestClient(t, backend)
	ctx := context.Background()

	exists, err := client.BucketExists(ctx, "gs://newbucket/obj")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, client.EnsureBucket(ctx, "gs://newbucket/obj"))

	exists, err = client.BucketExists(ctx, "gs://newbucket/obj")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClientBucketOperationsUnsupported(t *testing.T) {
	// A non-object address has no bucket.
	client := newTestClient(t, newFakeBackend(KindLocal))
	_, err := client.BucketExists(context.Background(), "/var/data/file")
	assert.True(t, IsNotSupported(err))

	// An object backend without the capability is also rejected.
	type noBuckets struct{ Backend }
	client = newTestClient(t, noBuckets{Backend: newFakeBackend(KindObject)})
	err = client.EnsureBucket(context.Background(), "gs://b/obj")
	assert.True(t, IsNotSupported(err))
}
