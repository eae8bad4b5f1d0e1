package fileaccess

import "fmt"

// MimeType is the content type attached to written objects. The set is a
// closed list; backends receive the value opaquely.
type MimeType string

const (
	MimeOctetStream MimeType = "application/octet-stream"
	MimePlainText   MimeType = "text/plain"
	MimeJSON        MimeType = "application/json"
	MimeCSV         MimeType = "text/csv"
	MimeGzip        MimeType = "application/gzip"
)

// Validate rejects values outside the closed MIME set.
func (m MimeType) Validate() error {
	switch m {
	case MimeOctetStream, MimePlainText, MimeJSON, MimeCSV, MimeGzip:
		return nil
	}
	return fmt.Errorf("unknown mime type %q", string(m))
}
