package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config describes a token bucket.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"30"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1m"`
}

// Enabled reports whether c describes a usable bucket.
func (c Config) Enabled() bool {
	return c.Validate() == nil
}

// Validate checks that every field is positive and the refill fits the capacity.
func (c Config) Validate() error {
	if c.Capacity <= 0 || c.RefillRate <= 0 || c.RefillInterval <= 0 {
		return fmt.Errorf("%w: capacity, refill rate and interval must be positive", ErrInvalidConfig)
	}
	if c.RefillRate > c.Capacity {
		return fmt.Errorf("%w: refill rate %d exceeds capacity %d", ErrInvalidConfig, c.RefillRate, c.Capacity)
	}
	return nil
}

// Store keeps bucket state. ConsumeTokens takes n tokens when available and
// reports the balance; a negative remaining means the request was denied
// and nothing was taken.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// RateLimiter decides whether a keyed request may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result is the outcome of one check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	now       time.Time
}

// Allowed reports whether the tokens were granted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a denied caller should wait. Zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(r.now), 0)
}

// Bucket is a token bucket RateLimiter.
type Bucket struct {
	store  Store
	config Config
	now    func() time.Time
}

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithBucketClock replaces time.Now. Use the same clock as the store.
func WithBucketClock(now func() time.Time) BucketOption {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBucket validates cfg and returns a limiter backed by store.
func NewBucket(store Store, cfg Config, opts ...BucketOption) (*Bucket, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bucket{store: store, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN takes n tokens for key.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 || n > b.config.Capacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, fmt.Errorf("ratelimiter: consume: %w", err)
	}
	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
		now:       b.now(),
	}, nil
}

// Reset refills key's bucket.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
