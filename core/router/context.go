package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context. It delegates context.Context
// methods to the request's context and reads path parameters from the
// request's path values.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the path wildcard named key.
func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}

// NewContext creates the default context for a request.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}
