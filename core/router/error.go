package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

var (
	ErrNoContextFactory = errors.New("router: no context factory for custom context type")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNotFound         = errors.New("not found")
	ErrNilResponse      = errors.New("handler returned nil response")
	ErrInvalidMethod    = errors.New("router: unsupported http method")
	ErrInvalidPattern   = errors.New("router: invalid route pattern")
	ErrRouteConflict    = errors.New("router: route already registered")
)

// statusError carries the status for 404 and 405 answers.
type statusError struct {
	err    error
	status int
}

func (e statusError) Error() string   { return e.err.Error() }
func (e statusError) Unwrap() error   { return e.err }
func (e statusError) StatusCode() int { return e.status }

func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if rw, ok := w.(*responseWriter); ok && rw.written() {
		return
	}

	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}

// PanicError is passed to the error handler when a handler panics.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) Value() any    { return e.value }
func (e *panicError) Stack() []byte { return e.stack }

// Unwrap exposes panics raised with an error value.
func (e *panicError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}
