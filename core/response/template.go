package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

var ErrNilTemplate = errors.New("template is nil")

// Template renders the named template with data. The output is buffered so
// an execution error never leaves a half-written page. An empty name executes
// tmpl itself.
func Template(tmpl *template.Template, name string, data any) handler.Response {
	return TemplateWithStatus(tmpl, name, data, http.StatusOK)
}

// TemplateWithStatus is Template with a custom status code.
func TemplateWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if tmpl == nil {
			return ErrNilTemplate
		}

		var buf bytes.Buffer
		var err error
		if name == "" {
			err = tmpl.Execute(&buf, data)
		} else {
			err = tmpl.ExecuteTemplate(&buf, name, data)
		}
		if err != nil {
			return err
		}

		return write(buf.Bytes(), "text/html; charset=utf-8", status)(w, nil)
	}
}
