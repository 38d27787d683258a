package storage

import (
	"context"
	"time"

	"github.com/dmitrymomot/contactcard/core/cache"
)

type cached struct {
	obj     *Object
	expires time.Time
}

// CachedReader keeps recently read objects in memory for a fixed TTL, so
// every visitor does not cost a round trip to S3 or the origin server.
// Errors are not cached.
type CachedReader struct {
	Reader
	ttl   time.Duration
	items *cache.LRUCache[string, cached]
	now   func() time.Time
}

// CacheOption configures a CachedReader.
type CacheOption func(*CachedReader)

// WithCacheClock replaces time.Now.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *CachedReader) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCachedReader wraps r. A non-positive ttl disables caching and returns r unchanged.
func NewCachedReader(r Reader, ttl time.Duration, opts ...CacheOption) Reader {
	if ttl <= 0 {
		return r
	}
	c := &CachedReader{
		Reader: r,
		ttl:    ttl,
		items:  cache.NewLRUCache[string, cached](16),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns a cached copy while it is fresh.
func (c *CachedReader) Read(ctx context.Context, location string) (*Object, error) {
	now := c.now()
	if hit, ok := c.items.Get(location); ok {
		if now.Before(hit.expires) {
			return hit.obj, nil
		}
		c.items.Remove(location)
	}

	obj, err := c.Reader.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	c.items.Put(location, cached{obj: obj, expires: now.Add(c.ttl)})
	return obj, nil
}

// Invalidate drops location from the cache.
func (c *CachedReader) Invalidate(location string) {
	c.items.Remove(location)
}
