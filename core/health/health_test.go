package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/contactcard/core/health"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/response"
	"github.com/dmitrymomot/contactcard/core/router"
)

func TestProbes(t *testing.T) {
	t.Parallel()

	var calls []string
	r := router.New(router.WithErrorHandler(response.ErrorHandler[*router.Context]))
	r.Get("/live", health.Liveness[*router.Context])
	r.Get("/ready", health.Readiness[*router.Context](logger.Nop(),
		health.Check{Name: "first", Probe: func(context.Context) error {
			calls = append(calls, "first")
			return nil
		}},
		health.Check{Name: "vcard", Probe: func(context.Context) error {
			calls = append(calls, "vcard")
			return errors.New("missing")
		}},
		health.Check{Name: "never", Probe: func(context.Context) error {
			calls = append(calls, "never")
			return nil
		}},
	))
	r.Get("/ok", health.Readiness[*router.Context](logger.Nop(), health.Check{Name: "nil check"}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "vcard is not ready", rec.Body.String())
	assert.Equal(t, []string{"first", "vcard"}, calls)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())
}
