package router

import (
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// Router maps ServeMux patterns ("/blobs/{id}", "/{$}") to handlers
// running behind a middleware chain. Unknown paths get 404 and known paths
// hit with another method get 405 with an Allow header.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	// Method registers h for the listed methods only.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]

	// Routes lists registrations in order, for startup logs and tests.
	Routes() []Route
}

// Route is one method and pattern pair.
type Route struct {
	Method  string
	Pattern string
}

func (r Route) String() string {
	return r.Method + " " + r.Pattern
}

// New returns an empty router. Context types other than *Context need
// WithContextFactory.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
