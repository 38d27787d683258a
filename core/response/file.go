package response

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// Attachment serves data as a download named filename. An empty content
// type is guessed from the file extension.
func Attachment(data []byte, filename, contentType string) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(filename))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", disposition("attachment", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}

// disposition formats a Content-Disposition value. mime.FormatMediaType
// quotes the name and falls back to RFC 2231 encoding for non-ASCII names.
func disposition(kind, filename string) string {
	if filename == "" {
		return kind
	}
	if v := mime.FormatMediaType(kind, map[string]string{"filename": filepath.Base(filename)}); v != "" {
		return v
	}
	return kind
}
