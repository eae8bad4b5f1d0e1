package fileaccess

import (
	"testing"
)

func TestParseObjectAddress(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   ObjectAddress
		wantErr    bool
	}{
		{
			name:       "bucket and object",
			identifier: "gs://zdb_test/zdb",
			expected:   ObjectAddress{Bucket: "zdb_test", Name: "zdb"},
		},
		{
			name:       "nested object",
			identifier: "gs://zdb_test/zdb/path",
			expected:   ObjectAddress{Bucket: "zdb_test", Name: "zdb/path"},
		},
		{
			name:       "prefix",
			identifier: "gs://zdb_test/zdb/",
			expected:   ObjectAddress{Bucket: "zdb_test", Name: "zdb", IsPrefix: true},
		},
		{
			name:       "nested prefix",
			identifier: "gs://zdb_test/zdb/subpath/",
			expected:   ObjectAddress{Bucket: "zdb_test", Name: "zdb/subpath", IsPrefix: true},
		},
		{
			name:       "bare bucket",
			identifier: "gs://zdb_test",
			expected:   ObjectAddress{Bucket: "zdb_test"},
		},
		{
			name:       "bucket with trailing slash",
			identifier: "gs://zdb_test/",
			expected:   ObjectAddress{Bucket: "zdb_test"},
		},
		{
			name:       "missing bucket",
			identifier: "gs://",
			wantErr:    true,
		},
		{
			name:       "missing bucket with name",
			identifier: "gs:///name",
			wantErr:    true,
		},
		{
			name:       "empty name with trailing slash",
			identifier: "gs://zdb_test//",
			wantErr:    true,
		},
		{
			name:       "double separator in name",
			identifier: "gs://zdb_test//name",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.identifier)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddress(%q) error = %v, wantErr %v", tt.identifier, err, tt.wantErr)
			}
			if tt.wantErr {
				if !IsInvalidAddress(err) {
					t.Errorf("expected ErrInvalidAddress, got %v", err)
				}
				return
			}
			oa, ok := addr.(ObjectAddress)
			if !ok {
				t.Fatalf("expected ObjectAddress, got %T", addr)
			}
			if oa != tt.expected {
				t.Errorf("ParseAddress(%q) = %+v, want %+v", tt.identifier, oa, tt.expected)
			}
		})
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	identifiers := []string{
		"gs://mybucket/data/file.gz",
		"gs://mybucket/data/",
		"gs://mybucket",
		"https://example.com/data/file.json",
		"http://example.com:8080/x?y=z",
		"/var/data/file.txt",
		"relative/path.csv",
	}

	for _, id := range identifiers {
		addr, err := ParseAddress(id)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", id, err)
		}
		if got := addr.String(); got != id {
			t.Errorf("render(parse(%q)) = %q", id, got)
		}
	}
}

func TestParseAddressPrefixOnlyDiffers(t *testing.T) {
	exact, err := ParseAddress("gs://b/n")
	if err != nil {
		t.Fatal(err)
	}
	prefix, err := ParseAddress("gs://b/n/")
	if err != nil {
		t.Fatal(err)
	}

	eo := exact.(ObjectAddress)
	po := prefix.(ObjectAddress)
	if eo.Bucket != "b" || po.Bucket != "b" || eo.Name != "n" || po.Name != "n" {
		t.Errorf("unexpected fields: %+v vs %+v", eo, po)
	}
	if eo.IsPrefix || !po.IsPrefix {
		t.Errorf("IsPrefix mismatch: %+v vs %+v", eo, po)
	}
}

func TestParseAddressDispatchOrder(t *testing.T) {
	tests := []struct {
		identifier string
		kind       Kind
	}{
		{"gs://bucket/name", KindObject},
		{"https://example.com/name", KindWeb},
		{"http://example.com/name", KindWeb},
		{"/tmp/name", KindLocal},
		{"ftp://example.com/name", KindLocal}, // unknown scheme falls through to local
		{"gs:/not-an-object", KindLocal},      // single slash does not match the object scheme
	}

	for _, tt := range tests {
		addr, err := ParseAddress(tt.identifier)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", tt.identifier, err)
		}
		if addr.Kind() != tt.kind {
			t.Errorf("ParseAddress(%q).Kind() = %s, want %s", tt.identifier, addr.Kind(), tt.kind)
		}
	}
}

func TestParseAddressInvalidObjectDoesNotFallThrough(t *testing.T) {
	// A malformed gs:// identifier must fail, not degrade into a local path.
	if _, err := ParseAddress("gs://bucket//"); !IsInvalidAddress(err) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestParseAddressEmptyIdentifier(t *testing.T) {
	if _, err := ParseAddress(""); !IsInvalidAddress(err) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}
