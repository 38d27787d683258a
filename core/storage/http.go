package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStorage reads objects over http(s).
type HTTPStorage struct {
	client  *http.Client
	maxSize int64
}

// HTTPOption configures HTTPStorage.
type HTTPOption func(*HTTPStorage)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStorage) {
		if c != nil {
			s.client = c
		}
	}
}

// WithHTTPMaxSize caps the size of responses read.
func WithHTTPMaxSize(n int64) HTTPOption {
	return func(s *HTTPStorage) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewHTTPStorage creates a reader with a 10 second client timeout.
func NewHTTPStorage(opts ...HTTPOption) *HTTPStorage {
	s := &HTTPStorage{
		client:  &http.Client{Timeout: 10 * time.Second},
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStorage) CanRead(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (s *HTTPStorage) Read(ctx context.Context, location string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, location)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("%w: get %s", ErrOperationCanceled, location)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: get %s", ErrOperationTimeout, location)
		}
		return nil, fmt.Errorf("storage: get %s: %w", location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, location)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, location)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s returned %d", ErrServiceUnavailable, location, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("storage: %s returned %d", location, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", location, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, location)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = ContentType(location)
	}
	obj := &Object{Data: data, ContentType: ct}
	if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		obj.ModTime = lm
	}
	return obj, nil
}
