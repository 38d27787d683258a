package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// knownMethods are the methods a card route may answer.
var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodOptions,
}

// table is the routing state shared by a mux and its inline groups.
type table struct {
	mu       sync.RWMutex
	serve    *http.ServeMux
	routes   []Route
	allowed  map[string][]string
	catchAll sync.Once
}

// mux registers routes on a shared table; inline routers made by With
// carry their own middleware over the same table.
type mux[C handler.Context] struct {
	table        *table
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	sealed       bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		table: &table{
			serve:   http.NewServeMux(),
			allowed: make(map[string][]string),
		},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// only the default *Context works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.table.catchAll.Do(func() {
		m.table.mu.RLock()
		_, taken := m.table.allowed["/"]
		m.table.mu.RUnlock()
		if !taken {
			m.table.serve.Handle("/", m.endpoint(func(C) handler.Response {
				return func(http.ResponseWriter, *http.Request) error { return statusError{ErrNotFound, http.StatusNotFound} }
			}))
		}
	})

	m.table.serve.ServeHTTP(w, r)
}

// endpoint adapts a handler to net/http with the router's middleware,
// error handling and panic recovery.
func (m *mux[C]) endpoint(fn handler.HandlerFunc[C]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := &responseWriter{ResponseWriter: w}
		ctx := m.newContext(ww, r)

		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{value: p, stack: debug.Stack()}
				if ww.written() {
					m.logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.status,
					)
					return
				}
				m.errorHandler(ctx, panicErr)
			}
		}()

		h := fn
		if len(m.middlewares) > 0 {
			h = chain(m.middlewares, h)
		}

		response := h(ctx)
		if response == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response(ww, ctx.Request()); err != nil {
			m.errorHandler(ctx, err)
		}
	})
}

// Get registers a handler for GET requests. HEAD requests are served by it too.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodGet)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPost)
}

// Method registers a handler for the given HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if !strings.HasPrefix(pattern, "/") {
		panic(fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern))
	}
	if h == nil {
		panic(fmt.Errorf("%w: nil handler for %q", ErrInvalidPattern, pattern))
	}
	for _, method := range methods {
		if !slices.Contains(knownMethods, strings.ToUpper(method)) {
			panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
		}
	}

	m.sealed = true
	for _, method := range methods {
		m.handle(strings.ToUpper(method), pattern, h)
	}
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	t := m.table
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed, known := t.allowed[pattern]
	if slices.Contains(allowed, method) {
		panic(fmt.Errorf("%w: %s %s", ErrRouteConflict, method, pattern))
	}
	t.allowed[pattern] = append(allowed, method)
	t.routes = append(t.routes, Route{Method: method, Pattern: pattern})

	t.serve.Handle(method+" "+pattern, m.endpoint(h))
	if !known {
		// any other method on a known path is answered with 405
		t.serve.Handle(pattern, m.endpoint(m.methodNotAllowed(pattern)))
	}
}

func (m *mux[C]) methodNotAllowed(pattern string) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			m.table.mu.RLock()
			allowed := slices.Clone(m.table.allowed[pattern])
			m.table.mu.RUnlock()

			if slices.Contains(allowed, http.MethodGet) && !slices.Contains(allowed, http.MethodHead) {
				allowed = append(allowed, http.MethodHead)
			}
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			return statusError{ErrMethodNotAllowed, http.StatusMethodNotAllowed}
		}
	}
}

// Use adds middleware for routes registered later on this router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.sealed {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns a router sharing the route table whose routes also run middlewares.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	im := &mux[C]{
		table:        m.table,
		middlewares:  append(slices.Clip(m.middlewares), middlewares...),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
	m.sealed = true
	return im
}

// Group calls fn with an inline router.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	m.table.mu.RLock()
	defer m.table.mu.RUnlock()
	return slices.Clone(m.table.routes)
}

// chain wraps endpoint so that middlewares[0] runs first.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
