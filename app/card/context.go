package card

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/contactcard/middleware"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

// Context is the request context of the card server.
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

func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}

// Device returns the visitor's device profile, classifying the request
// when the Device middleware did not run.
func (c *Context) Device() useragent.Profile {
	if p, ok := middleware.GetDevice(c); ok {
		return p
	}
	return useragent.Sniffer{}.Detect(useragent.SignalsFromRequest(c.r))
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}
