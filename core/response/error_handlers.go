package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// toHTTPError converts any error to an HTTPError. Errors exposing a
// StatusCode map onto the matching predefined error; the rest become 500s.
func toHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as {"code", "message", "details"} objects.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
