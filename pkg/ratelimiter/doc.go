// Package ratelimiter implements token bucket rate limiting with a
// pluggable Store.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds too few
// tokens is denied without draining the bucket further.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       30,
//		RefillRate:     10,
//		RefillInterval: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, clientip.GetIP(r))
//	if err == nil && !res.Allowed() {
//		// 429, retry after res.RetryAfter()
//	}
//
// MemoryStore drops buckets idle for an hour. Run its cleanup loop next to
// the server:
//
//	eg.Go(store.Run(ctx))
package ratelimiter
