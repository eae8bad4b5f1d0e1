package fileaccess

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Compression selects the codec applied to payloads. The zero value means
// "unselected": the dispatcher then infers a codec from the identifier's file
// extension and falls back to CompressionNone.
type Compression string

const (
	// CompressionNone passes payloads through unchanged. Selecting it
	// explicitly disables extension inference.
	CompressionNone Compression = "none"

	// CompressionGzip compresses with gzip.
	CompressionGzip Compression = "gzip"
)

// compressionByExtension maps identifier file extensions to codecs.
var compressionByExtension = map[string]Compression{
	".gz":   CompressionGzip,
	".gzip": CompressionGzip,
}

// CompressionFromExtension infers a codec from the identifier's file
// extension, returning CompressionNone when nothing matches.
func CompressionFromExtension(identifier string) Compression {
	ext := strings.ToLower(filepath.Ext(identifier))
	if c, ok := compressionByExtension[ext]; ok {
		return c
	}
	return CompressionNone
}

// Compress encodes data with the selected codec.
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCompression, string(c))
	}
}

// Decompress decodes data with the selected codec. Malformed input is an
// error and is never retried.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCompression, string(c))
	}
}

// resolveCompression picks the codec for one call: an explicit selection wins,
// otherwise the identifier's extension decides, otherwise no codec.
func resolveCompression(explicit Compression, identifier string) Compression {
	if explicit != "" {
		return explicit
	}
	return CompressionFromExtension(identifier)
}

// compressOpt encodes data unless no codec applies.
func compressOpt(data []byte, c Compression) ([]byte, error) {
	if c == "" || c == CompressionNone {
		return data, nil
	}
	return c.Compress(data)
}

// decompressOpt decodes a possibly-absent payload. Absent payloads stay
// absent; present payloads pass through unchanged when no codec applies.
func decompressOpt(data []byte, c Compression) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	if c == "" || c == CompressionNone {
		return data, nil
	}
	return c.Decompress(data)
}
