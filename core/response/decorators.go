package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// WithHeaders sets headers before the wrapped response renders.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil || len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}

// WithCache sets caching headers. A non-positive maxAge disables caching,
// which is what transient downloads need.
func WithCache(response handler.Response, maxAge time.Duration) handler.Response {
	if response == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		if maxAge > 0 {
			h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
			h.Set("Expires", time.Now().Add(maxAge).UTC().Format(http.TimeFormat))
		} else {
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		return response(w, r)
	}
}
