package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// Option configures New.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler renders errors returned by handlers, including 404,
// 405 and recovered panics. Defaults to plain http.Error output.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware is Use at construction time.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory builds the per-request context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(m *mux[C]) {
		if f != nil {
			m.newContext = f
		}
	}
}

// WithLogger receives panics that happen after the response started.
func WithLogger[C handler.Context](log *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if log != nil {
			m.logger = log
		}
	}
}
