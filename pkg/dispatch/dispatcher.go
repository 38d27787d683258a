package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/contactcard/pkg/payload"
)

// DefaultGrace is how long a blob handle outlives the download it backs.
const DefaultGrace = 3 * time.Second

// DefaultServeTTL bounds how long an unserved handle lives under WithReleaseOnServe.
const DefaultServeTTL = 5 * time.Minute

// Fetcher retrieves a resource by URL.
type Fetcher interface {
	// CanFetch reports whether rawURL is a location this fetcher reads.
	CanFetch(rawURL string) bool
	Fetch(ctx context.Context, rawURL string) (data []byte, contentType string, err error)
}

// Browser is the environment that performs downloads and navigation.
type Browser interface {
	// Download saves the resource at href under filename.
	Download(ctx context.Context, href, filename string) error
	// Navigate hands the page over to url.
	Navigate(ctx context.Context, url string) error
}

// Clipboard receives text for manual pasting.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Result describes what a dispatch did.
type Result struct {
	Kind Kind
	// Href is the URL handed to the browser: a blob URL, the original
	// resource URL or a scheme URL.
	Href string
	// Fallback is set when a fetch failed and the original URL was used.
	Fallback bool
	Blob     *Blob
}

// Dispatcher performs targets against a Browser and a Clipboard.
type Dispatcher struct {
	browser   Browser
	clipboard Clipboard
	fetcher   Fetcher
	blobs     *BlobStore
	grace     time.Duration
	serveTTL  time.Duration
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFetcher sets the fetcher used for Download targets.
func WithFetcher(f Fetcher) Option {
	return func(d *Dispatcher) {
		d.fetcher = f
	}
}

// WithClipboard sets the clipboard used for Copy targets.
func WithClipboard(c Clipboard) Option {
	return func(d *Dispatcher) {
		d.clipboard = c
	}
}

// WithBlobStore shares a blob store between dispatchers.
func WithBlobStore(s *BlobStore) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.blobs = s
		}
	}
}

// WithGrace sets the delay before a blob handle is released. Negative values are ignored.
func WithGrace(grace time.Duration) Option {
	return func(d *Dispatcher) {
		if grace >= 0 {
			d.grace = grace
		}
	}
}

// WithReleaseOnServe starts the grace delay when a handle is first served
// through BlobStore.Serve instead of when the download is dispatched. Use it
// when the browser fetches handles after the dispatch returns, as a page
// replaying a Plan does. Unserved handles are released after ttl.
func WithReleaseOnServe(ttl time.Duration) Option {
	return func(d *Dispatcher) {
		if ttl > 0 {
			d.serveTTL = ttl
		}
	}
}

// WithLogger sets a logger for fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher driving browser.
func New(browser Browser, opts ...Option) (*Dispatcher, error) {
	if browser == nil {
		return nil, ErrNilSink
	}

	d := &Dispatcher{
		browser: browser,
		grace:   DefaultGrace,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.blobs == nil {
		d.blobs = NewBlobStore()
	}
	if d.clipboard == nil {
		if c, ok := browser.(Clipboard); ok {
			d.clipboard = c
		}
	}

	return d, nil
}

// Blobs returns the store backing transient downloads.
func (d *Dispatcher) Blobs() *BlobStore {
	return d.blobs
}

// Dispatch performs exactly one target.
func (d *Dispatcher) Dispatch(ctx context.Context, t Target) (Result, error) {
	switch t := t.(type) {
	case Download:
		return d.download(ctx, t)
	case Inline:
		return d.inline(ctx, t.File)
	case Navigate:
		if err := d.browser.Navigate(ctx, t.URL); err != nil {
			return Result{Kind: KindNavigate, Href: t.URL}, fmt.Errorf("navigate: %w", err)
		}
		return Result{Kind: KindNavigate, Href: t.URL}, nil
	case Copy:
		if d.clipboard == nil {
			return Result{Kind: KindCopy}, ErrClipboard
		}
		if err := d.clipboard.WriteText(ctx, t.Text); err != nil {
			return Result{Kind: KindCopy}, fmt.Errorf("%w: %w", ErrClipboard, err)
		}
		return Result{Kind: KindCopy}, nil
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnsupportedTarget, t)
	}
}

// download fetches the resource into a blob handle, or falls back to a
// direct download of the original URL when the fetch fails.
func (d *Dispatcher) download(ctx context.Context, t Download) (Result, error) {
	var (
		data        []byte
		contentType string
		err         error = ErrNotFetchable
	)
	if d.fetcher != nil && d.fetcher.CanFetch(t.URL) {
		data, contentType, err = d.fetcher.Fetch(ctx, t.URL)
	}

	if err != nil {
		d.logger.DebugContext(ctx, "fetch failed, using direct download",
			slog.String("url", t.URL),
			slog.String("error", err.Error()),
		)
		res := Result{Kind: KindDownload, Href: t.URL, Fallback: true}
		if err := d.browser.Download(ctx, t.URL, t.Filename); err != nil {
			return res, fmt.Errorf("direct download: %w", err)
		}
		return res, nil
	}

	return d.inline(ctx, payload.File{Name: t.Filename, ContentType: contentType, Data: data})
}

func (d *Dispatcher) inline(ctx context.Context, f payload.File) (Result, error) {
	blob := d.blobs.Put(f)
	res := Result{Kind: KindDownload, Href: blob.URL, Blob: &blob}

	if err := d.browser.Download(ctx, blob.URL, f.Name); err != nil {
		d.blobs.Revoke(blob.ID)
		return res, fmt.Errorf("download: %w", err)
	}

	// released only after the download has been handed to the browser
	if d.serveTTL > 0 {
		d.blobs.RevokeAfterServe(blob.ID, d.grace, d.serveTTL)
	} else {
		d.blobs.RevokeAfter(blob.ID, d.grace)
	}
	return res, nil
}
