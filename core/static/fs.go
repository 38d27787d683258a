package static

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/response"
)

type fsConfig struct {
	stripPrefix string
	subPath     string
	maxAge      time.Duration
}

// Option configures FS.
type Option func(*fsConfig)

// WithStripPrefix removes prefix from the URL path before lookup.
func WithStripPrefix(prefix string) Option {
	return func(c *fsConfig) {
		c.stripPrefix = prefix
	}
}

// WithSubFS serves the subtree at path instead of the root of fsys.
func WithSubFS(path string) Option {
	return func(c *fsConfig) {
		c.subPath = path
	}
}

// WithMaxAge sets Cache-Control on served files.
func WithMaxAge(d time.Duration) Option {
	return func(c *fsConfig) {
		c.maxAge = d
	}
}

// FS serves files from fsys. Directories are never listed; a request for
// one reaches the error handler as response.ErrNotFound. It panics when
// fsys cannot be opened, since that is a wiring mistake.
func FS[C handler.Context](fsys fs.FS, opts ...Option) handler.HandlerFunc[C] {
	cfg := &fsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub-path '" + cfg.subPath + "': " + err.Error())
		}
		fsys = sub
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}

	files := filesOnly{http.FS(fsys)}
	var fileServer http.Handler = http.FileServer(files)
	if cfg.stripPrefix != "" {
		fileServer = http.StripPrefix(cfg.stripPrefix, fileServer)
	}

	return func(ctx C) handler.Response {
		serve := func(w http.ResponseWriter, r *http.Request) error {
			name := r.URL.Path
			if cfg.stripPrefix != "" {
				name = name[min(len(cfg.stripPrefix), len(name)):]
			}
			if _, err := files.Open("/" + trimSlash(name)); err != nil {
				return response.ErrNotFound
			}
			fileServer.ServeHTTP(w, r)
			return nil
		}
		if cfg.maxAge > 0 {
			return response.WithCache(serve, cfg.maxAge)
		}
		return serve
	}
}

var errIsDir = errors.New("is a directory")

// filesOnly hides directories from http.FileServer.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: errIsDir}
	}
	return file, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}
