package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/logger"
)

type requestIDContextKey struct{}

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	// HeaderName defaults to X-Request-ID.
	HeaderName string
	// Generator defaults to random UUIDs.
	Generator func() string
	// TrustIncoming reuses an ID sent by a proxy in front of the app.
	TrustIncoming bool
}

// RequestID tags each request with an ID, stores it in the context and
// echoes it in the response header.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig is RequestID with custom settings.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			id := ""
			if cfg.TrustIncoming {
				id = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = cfg.Generator()
			}
			ctx.SetValue(requestIDContextKey{}, id)

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				if resp == nil {
					return nil
				}
				return resp(w, r)
			}
		}
	}
}

// GetRequestID returns the ID stored by RequestID.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}

// RequestIDExtractor adds the request ID to records logged with a request
// context. Pass it to logger.WithContextExtractors.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	if !ok || id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}
