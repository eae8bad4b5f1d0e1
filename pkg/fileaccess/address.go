package fileaccess

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies the medium an address points at.
type Kind string

const (
	KindObject Kind = "object"
	KindWeb    Kind = "web"
	KindLocal  Kind = "local"
)

// ObjectScheme is the URI scheme of object-store addresses.
const ObjectScheme = "gs"

// Address is the parsed, typed form of a resource identifier.
// String renders the address back to its canonical identifier, so
// ParseAddress(a.String()) reproduces a for every valid address.
type Address interface {
	Kind() Kind
	String() string
}

// ObjectAddress names an object, an object prefix, or a whole bucket in an
// object store.
//
// Name is empty only for whole-bucket addresses (gs://bucket); those are
// legal for bucket-level and list operations but never for exact-object
// operations. IsPrefix records whether the identifier ended with "/".
type ObjectAddress struct {
	Bucket   string
	Name     string
	IsPrefix bool
}

func (a ObjectAddress) Kind() Kind { return KindObject }

func (a ObjectAddress) String() string {
	if a.Name == "" {
		return ObjectScheme + "://" + a.Bucket
	}
	s := fmt.Sprintf("%s://%s/%s", ObjectScheme, a.Bucket, a.Name)
	if a.IsPrefix {
		s += "/"
	}
	return s
}

// WebAddress is an absolute http(s) URL, kept verbatim.
type WebAddress struct {
	URL string
}

func (a WebAddress) Kind() Kind     { return KindWeb }
func (a WebAddress) String() string { return a.URL }

// LocalAddress is a local filesystem path, kept verbatim. Path validity is
// the backend's concern, not the parser's.
type LocalAddress struct {
	Path string
}

func (a LocalAddress) Kind() Kind     { return KindLocal }
func (a LocalAddress) String() string { return a.Path }

// recognizer attempts to claim an identifier for one address kind.
// match reports whether the identifier belongs to this kind at all; parse is
// only called when match is true, and a parse failure is final (the next
// recognizer is not consulted).
type recognizer struct {
	kind  Kind
	match func(string) bool
	parse func(string) (Address, error)
}

// recognizers is the dispatch order: object store first, then web URL, then
// local path. The ordering is part of the public contract since an
// identifier could resemble more than one kind.
var recognizers = []recognizer{
	{kind: KindObject, match: matchObject, parse: parseObject},
	{kind: KindWeb, match: matchWeb, parse: parseWeb},
	{kind: KindLocal, match: matchLocal, parse: parseLocal},
}

// ParseAddress parses a raw identifier into its typed address form.
//
// Identifiers of the form gs://bucket[/name][/] become ObjectAddress,
// absolute http(s) URLs become WebAddress, and any other non-empty string is
// a LocalAddress.
func ParseAddress(identifier string) (Address, error) {
	for _, r := range recognizers {
		if !r.match(identifier) {
			continue
		}
		return r.parse(identifier)
	}
	return nil, fmt.Errorf("%w: unrecognized identifier %q", ErrInvalidAddress, identifier)
}

func matchObject(identifier string) bool {
	return strings.HasPrefix(identifier, ObjectScheme+"://")
}

func parseObject(identifier string) (Address, error) {
	rest := strings.TrimPrefix(identifier, ObjectScheme+"://")

	bucket, name, hasSep := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("%w: missing bucket in %q", ErrInvalidAddress, identifier)
	}

	if !hasSep || name == "" {
		// Bare gs://bucket or gs://bucket/ denotes the bucket itself.
		return ObjectAddress{Bucket: bucket}, nil
	}

	if strings.HasPrefix(name, "/") {
		return nil, fmt.Errorf("%w: empty path segment in %q", ErrInvalidAddress, identifier)
	}

	var isPrefix bool
	if strings.HasSuffix(name, "/") {
		name = name[:len(name)-1]
		isPrefix = true
		if name == "" {
			return nil, fmt.Errorf("%w: empty object name in %q", ErrInvalidAddress, identifier)
		}
	}

	return ObjectAddress{Bucket: bucket, Name: name, IsPrefix: isPrefix}, nil
}

func matchWeb(identifier string) bool {
	return strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://")
}

func parseWeb(identifier string) (Address, error) {
	u, err := url.Parse(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidAddress, identifier)
	}
	return WebAddress{URL: identifier}, nil
}

func matchLocal(string) bool { return true }

func parseLocal(identifier string) (Address, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidAddress)
	}
	return LocalAddress{Path: identifier}, nil
}
