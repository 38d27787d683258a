package storage

import (
	"context"
	"mime"
	"path"
	"strings"
	"time"
)

// DefaultMaxSize caps how much of a single object is read into memory.
const DefaultMaxSize int64 = 1 << 20

// Object is a stored file read fully into memory.
type Object struct {
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Reader reads objects by location. A location is a local path, an
// http(s):// URL or a backend-specific URL such as s3://bucket/key.
type Reader interface {
	// CanRead reports whether location belongs to this reader.
	CanRead(location string) bool
	Read(ctx context.Context, location string) (*Object, error)
}

// Multi dispatches each location to the first reader that accepts it.
type Multi []Reader

func (m Multi) CanRead(location string) bool {
	return m.reader(location) != nil
}

func (m Multi) Read(ctx context.Context, location string) (*Object, error) {
	r := m.reader(location)
	if r == nil {
		return nil, ErrUnsupportedLocation
	}
	return r.Read(ctx, location)
}

func (m Multi) reader(location string) Reader {
	for _, r := range m {
		if r != nil && r.CanRead(location) {
			return r
		}
	}
	return nil
}

// Fetcher exposes a Reader as a download source. Aliases map public URL
// paths, such as the path the card page serves the vCard under, to storage
// locations.
type Fetcher struct {
	Reader  Reader
	Aliases map[string]string
}

// CanFetch reports whether rawURL resolves to a readable location.
func (f Fetcher) CanFetch(rawURL string) bool {
	return f.Reader != nil && f.Reader.CanRead(f.resolve(rawURL))
}

// Fetch reads the object behind rawURL.
func (f Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if f.Reader == nil {
		return nil, "", ErrUnsupportedLocation
	}
	obj, err := f.Reader.Read(ctx, f.resolve(rawURL))
	if err != nil {
		return nil, "", err
	}
	return obj.Data, obj.ContentType, nil
}

func (f Fetcher) resolve(rawURL string) string {
	if loc, ok := f.Aliases[rawURL]; ok {
		return loc
	}
	return rawURL
}

// ContentType guesses a MIME type from the file extension.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".vcf", ".vcard":
		return "text/vcard; charset=utf-8"
	case ".ics":
		return "text/calendar; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsRemote reports whether location carries a URL scheme.
func IsRemote(location string) bool {
	return strings.Contains(location, "://")
}
