package response

import "net/http"

// HTTPError is an error with an HTTP status and a machine-readable code.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode lets the router pick the status without knowing this type.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithError returns a copy of the error carrying err as its cause.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

var (
	ErrBadRequest            = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrForbidden             = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound              = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrGone                  = newHTTPError(http.StatusGone, "gone")
	ErrRequestEntityTooLarge = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = newHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError   = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrBadGateway            = newHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable    = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusGone:                  ErrGone,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnsupportedMediaType:  ErrUnsupportedMediaType,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
}
