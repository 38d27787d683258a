package handler

import (
	"context"
	"net/http"
)

// Context is the per-request value handed to handlers. It is itself a
// context.Context, so it can be passed straight to storage reads and
// rate limit checks. SetValue makes later Value calls see val.
type Context interface {
	context.Context

	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// Param returns a ServeMux path wildcard such as {id}.
	Param(name string) string
	SetValue(key, val any)
}
