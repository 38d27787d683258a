package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/response"
)

// DefaultBodyLimit caps action form posts.
const DefaultBodyLimit int64 = 64 << 10

// BodyLimit rejects requests whose declared length exceeds maxSize with
// 413 and caps the body reader for the rest, so a lying Content-Length
// fails while reading with *http.MaxBytesError.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	if maxSize <= 0 {
		maxSize = DefaultBodyLimit
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			req := ctx.Request()
			if req.ContentLength > maxSize {
				return response.Error(response.ErrRequestEntityTooLarge.WithMessage(
					fmt.Sprintf("request body of %d bytes exceeds the %d byte limit", req.ContentLength, maxSize),
				))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, maxSize)
			}
			return next(ctx)
		}
	}
}
