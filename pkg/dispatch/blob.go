package dispatch

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/contactcard/pkg/payload"
)

// DefaultBlobPrefix is the URL path under which blob handles are served.
const DefaultBlobPrefix = "/blobs/"

// Blob is a transient handle to an in-memory download.
type Blob struct {
	ID  string
	URL string
}

// BlobStore keeps downloads in memory until their handle is released.
// Each handle is released exactly once. Safe for concurrent use.
type BlobStore struct {
	mu       sync.Mutex
	prefix   string
	files    map[string]payload.File
	timers   map[string]*time.Timer
	pending  map[string]time.Duration
	released int
}

// BlobOption configures a BlobStore.
type BlobOption func(*BlobStore)

// WithBlobPrefix sets the URL prefix handles are published under.
func WithBlobPrefix(prefix string) BlobOption {
	return func(s *BlobStore) {
		if prefix == "" {
			return
		}
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		s.prefix = prefix
	}
}

// NewBlobStore creates an empty store.
func NewBlobStore(opts ...BlobOption) *BlobStore {
	s := &BlobStore{
		prefix:  DefaultBlobPrefix,
		files:   make(map[string]payload.File),
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores f and returns its handle.
func (s *BlobStore) Put(f payload.File) Blob {
	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = f
	s.mu.Unlock()

	return Blob{ID: id, URL: s.prefix + id}
}

// Get returns the file behind a live handle.
func (s *BlobStore) Get(id string) (payload.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return payload.File{}, ErrBlobNotFound
	}
	return f, nil
}

// Revoke releases a handle. It reports whether this call did the release;
// later calls for the same handle are no-ops.
func (s *BlobStore) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	delete(s.pending, id)
	if _, ok := s.files[id]; !ok {
		return false
	}
	delete(s.files, id)
	s.released++
	return true
}

// RevokeAfter schedules the release of a handle once delay has passed.
// Negative delays are treated as zero.
func (s *BlobStore) RevokeAfter(id string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	s.scheduleLocked(id, delay)
}

// RevokeAfterServe arms the grace delay for the first Serve of the handle,
// for browsers that fetch the handle later than the dispatch. A handle
// that is never served is released after ttl.
func (s *BlobStore) RevokeAfterServe(id string, grace, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return
	}
	s.pending[id] = max(grace, 0)
	s.scheduleLocked(id, ttl)
}

// Serve returns the file behind a live handle and starts the grace delay
// armed by RevokeAfterServe. Later serves within the grace still succeed.
func (s *BlobStore) Serve(id string) (payload.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return payload.File{}, ErrBlobNotFound
	}
	if grace, armed := s.pending[id]; armed {
		delete(s.pending, id)
		s.scheduleLocked(id, grace)
	}
	return f, nil
}

func (s *BlobStore) scheduleLocked(id string, delay time.Duration) {
	if _, ok := s.files[id]; !ok {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(max(delay, 0), func() { s.Revoke(id) })
}

// ID extracts the handle ID from a blob URL, or returns "" when the URL is
// not one of this store's.
func (s *BlobStore) ID(url string) string {
	id, ok := strings.CutPrefix(url, s.prefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// Len returns the number of live handles.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Released returns how many handles have been released so far.
func (s *BlobStore) Released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Close releases every handle and stops pending timers.
func (s *BlobStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	clear(s.pending)
	s.released += len(s.files)
	clear(s.files)
}
