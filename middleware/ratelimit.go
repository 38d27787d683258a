package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/response"
	"github.com/dmitrymomot/contactcard/pkg/clientip"
	"github.com/dmitrymomot/contactcard/pkg/ratelimiter"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	// Skip bypasses the limiter for matching requests.
	Skip func(ctx handler.Context) bool
	// Limiter is required.
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defaults to the client IP.
	KeyExtractor func(ctx handler.Context) string
	// ErrorHandler defaults to 429 Too Many Requests.
	ErrorHandler func(ctx handler.Context, result *ratelimiter.Result) handler.Response
	// SetHeaders adds X-RateLimit-* headers to every limited response.
	SetHeaders bool
}

// RateLimit takes one token per request and rejects callers whose bucket
// is empty. Retry-After is always sent on rejection. Panics without a limiter.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return clientip.GetIP(ctx.Request())
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(handler.Context, *ratelimiter.Result) handler.Response {
			return response.Error(response.ErrTooManyRequests.WithMessage("too many requests, slow down"))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			result, err := cfg.Limiter.Allow(ctx, cfg.KeyExtractor(ctx))
			if err != nil {
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			if !result.Allowed() {
				return withRateLimitHeaders(cfg.ErrorHandler(ctx, result), result, cfg.SetHeaders)
			}
			if !cfg.SetHeaders {
				return next(ctx)
			}
			return withRateLimitHeaders(next(ctx), result, true)
		}
	}
}

func withRateLimitHeaders(resp handler.Response, result *ratelimiter.Result, full bool) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		if full {
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		}
		if !result.Allowed() {
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter().Seconds()))))
		}
		if resp == nil {
			return nil
		}
		return resp(w, r)
	}
}
