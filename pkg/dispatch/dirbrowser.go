package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Runner starts an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// DirBrowser is the terminal stand-in for a browser. Downloads are written
// into a directory and navigation is handed to the OS opener.
type DirBrowser struct {
	dir     string
	blobs   *BlobStore
	fetcher Fetcher
	opener  []string
	run     Runner
}

// DirOption configures a DirBrowser.
type DirOption func(*DirBrowser)

// WithResolver lets the browser read blob handle URLs from store.
func WithResolver(store *BlobStore) DirOption {
	return func(b *DirBrowser) {
		b.blobs = store
	}
}

// WithSource sets the fetcher used for non-blob download URLs.
func WithSource(f Fetcher) DirOption {
	return func(b *DirBrowser) {
		b.fetcher = f
	}
}

// WithOpener overrides the command used to open URLs.
func WithOpener(command ...string) DirOption {
	return func(b *DirBrowser) {
		if len(command) > 0 {
			b.opener = command
		}
	}
}

// WithRunner replaces command execution.
func WithRunner(run Runner) DirOption {
	return func(b *DirBrowser) {
		if run != nil {
			b.run = run
		}
	}
}

// NewDirBrowser creates a browser saving downloads into dir.
func NewDirBrowser(dir string, opts ...DirOption) *DirBrowser {
	if dir == "" {
		dir = "."
	}
	b := &DirBrowser{
		dir:    dir,
		opener: defaultOpener(),
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Download implements Browser. Blob URLs are read from the resolver, other
// URLs from the source fetcher. A URL neither can read is opened instead,
// leaving the download to the system browser.
func (b *DirBrowser) Download(ctx context.Context, href, filename string) error {
	data, err := b.read(ctx, href)
	if errors.Is(err, ErrNotFetchable) {
		return b.Navigate(ctx, href)
	}
	if err != nil {
		return err
	}

	if filename == "" {
		filename = filepath.Base(href)
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	target := filepath.Join(b.dir, filepath.Base(filename))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// Navigate implements Browser.
func (b *DirBrowser) Navigate(ctx context.Context, url string) error {
	args := append(append([]string{}, b.opener[1:]...), url)
	if err := b.run(ctx, b.opener[0], args...); err != nil {
		return fmt.Errorf("%w: %w", ErrNavigationBlocked, err)
	}
	return nil
}

func (b *DirBrowser) read(ctx context.Context, href string) ([]byte, error) {
	if b.blobs != nil {
		if id := b.blobs.ID(href); id != "" {
			f, err := b.blobs.Get(id)
			if err != nil {
				return nil, err
			}
			return f.Data, nil
		}
	}
	if b.fetcher != nil && b.fetcher.CanFetch(href) {
		data, _, err := b.fetcher.Fetch(ctx, href)
		return data, err
	}
	return nil, ErrNotFetchable
}

func defaultOpener() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
