package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage reads files from disk. With a root set, locations are
// resolved inside it and may not escape it.
type LocalStorage struct {
	root    string
	maxSize int64
}

// LocalOption configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalMaxSize caps the size of files read.
func WithLocalMaxSize(n int64) LocalOption {
	return func(s *LocalStorage) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewLocalStorage creates a reader rooted at root. An empty root reads
// paths as given.
func NewLocalStorage(root string, opts ...LocalOption) *LocalStorage {
	s := &LocalStorage{root: root, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanRead accepts plain paths and file:// URLs.
func (s *LocalStorage) CanRead(location string) bool {
	if location == "" {
		return false
	}
	return !IsRemote(location) || strings.HasPrefix(location, "file://")
}

// Read loads the file at location.
func (s *LocalStorage) Read(_ context.Context, location string) (*Object, error) {
	p, err := s.resolve(location)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, location)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrAccessDenied, location)
		}
		return nil, fmt.Errorf("storage: open %s: %w", location, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", location, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidPath, location)
	}
	if info.Size() > s.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, location)
	}

	data, err := io.ReadAll(io.LimitReader(f, s.maxSize))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", location, err)
	}

	return &Object{Data: data, ContentType: ContentType(p), ModTime: info.ModTime()}, nil
}

func (s *LocalStorage) resolve(location string) (string, error) {
	location = strings.TrimPrefix(location, "file://")
	if s.root == "" {
		return filepath.Clean(location), nil
	}

	if strings.Contains(location, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, location)
	}
	rel := filepath.Clean("/" + filepath.ToSlash(location))
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}
