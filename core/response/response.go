package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// Render executes resp against the context's writer. A rendering error is
// reported as a plain 500.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// Error propagates err to the router's error handler.
func Error(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}

func write(body []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(body) == 0 {
			return nil
		}
		_, err := w.Write(body)
		return err
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return write([]byte(content), "text/plain; charset=utf-8", http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return write([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return write([]byte(content), "text/html; charset=utf-8", http.StatusOK)
}

// Bytes creates a response with a custom content type.
func Bytes(content []byte, contentType string) handler.Response {
	return write(content, contentType, http.StatusOK)
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return write(nil, "", http.StatusNoContent)
}

// JSON encodes v with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus encodes v with a custom status code. A zero status means
// 200, or 204 when v is nil.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}

// Redirect creates a 302 Found response. Non-HTTP schemes such as sms: are
// passed through unchanged.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectWithStatus redirects with a custom 3xx status.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status < 300 || status > 399 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
