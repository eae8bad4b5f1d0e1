package fileaccess

// Option configures a single dispatcher call.
type Option func(*callOptions)

type callOptions struct {
	retry       RetryPolicy
	classify    Classifier
	compression Compression
	contentType MimeType
}

func applyOptions(opts []Option) callOptions {
	o := callOptions{
		retry:       DefaultRetryPolicy(),
		contentType: MimeOctetStream,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRetryPolicy overrides the default retry policy for this call.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *callOptions) { o.retry = policy }
}

// WithoutRetry disables retries for this call.
func WithoutRetry() Option {
	return func(o *callOptions) {
		p := DefaultRetryPolicy()
		p.MaxRetries = 0
		o.retry = p
	}
}

// WithClassifier overrides transient-error classification for this call.
func WithClassifier(classify Classifier) Option {
	return func(o *callOptions) { o.classify = classify }
}

// WithCompression selects the payload codec explicitly, overriding extension
// inference. Pass CompressionNone to force pass-through for identifiers whose
// extension would otherwise select a codec.
func WithCompression(c Compression) Option {
	return func(o *callOptions) { o.compression = c }
}

// WithContentType sets the MIME type attached to a write. Defaults to
// MimeOctetStream.
func WithContentType(m MimeType) Option {
	return func(o *callOptions) { o.contentType = m }
}
