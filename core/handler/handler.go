package handler

import "net/http"

// Response renders onto w. A returned error goes to the router's
// ErrorHandler, which is the only place error pages are written.
type Response func(w http.ResponseWriter, r *http.Request) error

type (
	HandlerFunc[C Context]  func(ctx C) Response
	ErrorHandler[C Context] func(ctx C, err error)
	Middleware[C Context]   func(next HandlerFunc[C]) HandlerFunc[C]
)
