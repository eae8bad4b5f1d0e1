package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// Backend serves local filesystem paths through an afero.Fs, so tests can run
// against an in-memory filesystem. Filesystem failures are permanent; this
// layer does not retry local IO.
//
// Delete is intentionally unsupported.
type Backend struct {
	fs     afero.Fs
	logger logging.Interface
}

var _ fileaccess.Backend = (*Backend)(nil)

// New creates a local backend over the given filesystem. A nil fs means the
// OS filesystem.
func New(fs afero.Fs, logger logging.Interface) *Backend {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Backend{fs: fs, logger: logger}
}

// Kind returns the address kind this backend serves.
func (b *Backend) Kind() fileaccess.Kind { return fileaccess.KindLocal }

func localPath(addr fileaccess.Address) (string, error) {
	la, ok := addr.(fileaccess.LocalAddress)
	if !ok {
		return "", fmt.Errorf("%w: not a local address: %s", fileaccess.ErrInvalidAddress, addr)
	}
	return la.Path, nil
}

// Exists reports whether the path is present.
func (b *Backend) Exists(ctx context.Context, addr fileaccess.Address) (bool, error) {
	path, err := localPath(addr)
	if err != nil {
		return false, err
	}
	return afero.Exists(b.fs, path)
}

// Read returns the file contents, or found=false when the file is absent.
func (b *Backend) Read(ctx context.Context, addr fileaccess.Address) ([]byte, bool, error) {
	path, err := localPath(addr)
	if err != nil {
		return nil, false, err
	}

	data, err := afero.ReadFile(b.fs, path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Write stores the payload, creating parent directories as needed. The
// content type has no local representation and is ignored.
func (b *Backend) Write(ctx context.Context, addr fileaccess.Address, data []byte, _ fileaccess.MimeType) error {
	path, err := localPath(addr)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(b.fs, path, data, 0o644)
}

// List returns the full paths of the directory's entries.
func (b *Backend) List(ctx context.Context, addr fileaccess.Address) ([]fileaccess.Address, error) {
	path, err := localPath(addr)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(b.fs, path)
	if err != nil {
		return nil, err
	}

	children := make([]fileaccess.Address, len(entries))
	for i, entry := range entries {
		children[i] = fileaccess.LocalAddress{Path: filepath.Join(path, entry.Name())}
	}
	return children, nil
}

// Delete is not supported for local files.
func (b *Backend) Delete(ctx context.Context, addr fileaccess.Address) error {
	return fmt.Errorf("%w: local file deletion", fileaccess.ErrNotSupported)
}
