package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/response"
	"github.com/dmitrymomot/contactcard/core/router"
	"github.com/dmitrymomot/contactcard/middleware"
	"github.com/dmitrymomot/contactcard/pkg/ratelimiter"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

const iPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func newRouter(mws ...handler.Middleware[*router.Context]) router.Router[*router.Context] {
	return router.New(
		router.WithErrorHandler(response.ErrorHandler[*router.Context]),
		router.WithMiddleware(mws...),
	)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generated and echoed", func(t *testing.T) {
		t.Parallel()

		var seen string
		r := newRouter(middleware.RequestID[*router.Context]())
		r.Get("/", func(ctx *router.Context) handler.Response {
			seen, _ = middleware.GetRequestID(ctx)
			return response.NoContent()
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("incoming id is ignored unless trusted", func(t *testing.T) {
		t.Parallel()

		for _, trust := range []bool{false, true} {
			r := newRouter(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
				TrustIncoming: trust,
				Generator:     func() string { return "generated" },
			}))
			r.Get("/", func(*router.Context) handler.Response { return response.NoContent() })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", "upstream")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			want := "generated"
			if trust {
				want = "upstream"
			}
			assert.Equal(t, want, rec.Header().Get("X-Request-ID"))
		}
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter(), logger.WithLevel(slog.LevelDebug))

	r := newRouter(
		middleware.RequestID[*router.Context](),
		middleware.Logging[*router.Context](log),
		middleware.Device[*router.Context](nil),
	)
	r.Get("/ok", func(*router.Context) handler.Response { return response.String("ok") })
	r.Get("/fail", func(*router.Context) handler.Response { return response.Error(errors.New("boom")) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("User-Agent", iPhoneUA)
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var ok, fail map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &fail))

	assert.Equal(t, "INFO", ok["level"])
	assert.Equal(t, "/ok", ok["path"])
	assert.EqualValues(t, 200, ok["status_code"])
	assert.Equal(t, "ios-mobile", ok["device"])
	assert.NotEmpty(t, ok["request_id"])

	assert.Equal(t, "ERROR", fail["level"])
	assert.Equal(t, "boom", fail["error"])
}

func TestDevice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ua      string
		headers map[string]string
		want    useragent.Profile
	}{
		{"iphone", iPhoneUA, nil, useragent.Profile{IsMobile: true, IsIOS: true}},
		{"desktop", "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0", nil, useragent.Profile{}},
		{
			"ipad reporting as mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15",
			map[string]string{useragent.HeaderMaxTouchPoints: "5"},
			useragent.Profile{IsIOS: true},
		},
		{
			"client hint mobile",
			"Mozilla/5.0 (Linux; Android 14) Chrome/120.0 Mobile",
			map[string]string{useragent.HeaderMobileHint: "?1", useragent.HeaderPlatformHint: `"Android"`},
			useragent.Profile{IsMobile: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got useragent.Profile
			r := newRouter(middleware.Device[*router.Context](nil))
			r.Get("/", func(ctx *router.Context) handler.Response {
				got, _ = middleware.GetDevice(ctx)
				return response.NoContent()
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("User-Agent", tt.ua)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("custom detector", func(t *testing.T) {
		t.Parallel()

		always := useragent.DetectorFunc(func(useragent.Signals) useragent.Profile {
			return useragent.Profile{IsMobile: true}
		})

		var got useragent.Profile
		r := newRouter(middleware.Device[*router.Context](always))
		r.Get("/", func(ctx *router.Context) handler.Response {
			got, _ = middleware.GetDevice(ctx)
			return response.NoContent()
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, got.IsMobile)
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	t.Run("card defaults", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.SecurityHeaders[*router.Context]())
		r.Get("/", func(*router.Context) handler.Response { return response.String("card") })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data:")
		assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("development drops hsts", func(t *testing.T) {
		t.Parallel()

		cfg := middleware.CardSecurity
		cfg.IsDevelopment = true
		cfg.CustomHeaders = map[string]string{"X-Card": "1"}

		r := newRouter(middleware.SecurityHeadersWithConfig[*router.Context](cfg))
		r.Get("/", func(*router.Context) handler.Response { return response.String("card") })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "1", rec.Header().Get("X-Card"))
	})
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.BodyLimit[*router.Context](16))
	r.Post("/actions/send", func(ctx *router.Context) handler.Response {
		if err := ctx.Request().ParseForm(); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return response.Error(response.ErrRequestEntityTooLarge)
			}
			return response.Error(response.ErrBadRequest)
		}
		return response.String(ctx.Request().PostForm.Get("name"))
	})

	post := func(body string, chunked bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/actions/send", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if chunked {
			req.ContentLength = -1
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()

		rec := post("name=Ann", false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ann", rec.Body.String())
	})

	t.Run("declared length too large", func(t *testing.T) {
		t.Parallel()

		rec := post("name="+strings.Repeat("a", 32), false)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("undeclared length too large", func(t *testing.T) {
		t.Parallel()

		rec := post("name="+strings.Repeat("a", 32), true)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	var seen string
	r := newRouter(middleware.ClientIP[*router.Context]())
	r.Get("/", func(ctx *router.Context) handler.Response {
		seen, _ = middleware.GetClientIP(ctx)
		return response.NoContent()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "198.51.100.9", seen)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	newLimited := func(t *testing.T, setHeaders bool) router.Router[*router.Context] {
		t.Helper()
		limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       2,
			RefillRate:     1,
			RefillInterval: time.Minute,
		})
		require.NoError(t, err)

		r := router.New(
			router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
			router.WithMiddleware(middleware.ClientIP[*router.Context]()),
		)
		r.With(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
			Limiter:    limiter,
			SetHeaders: setHeaders,
		})).Post("/actions/save", func(*router.Context) handler.Response {
			return response.String("saved")
		})
		return r
	}

	post := func(r http.Handler, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/actions/save", nil)
		req.RemoteAddr = ip + ":40000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("third request from one address is rejected", func(t *testing.T) {
		t.Parallel()
		r := newLimited(t, true)

		first := post(r, "203.0.113.7")
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

		assert.Equal(t, http.StatusOK, post(r, "203.0.113.7").Code)

		rec := post(r, "203.0.113.7")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "too_many_requests", body["code"])

		assert.Equal(t, http.StatusOK, post(r, "203.0.113.8").Code)
	})

	t.Run("retry after without limit headers", func(t *testing.T) {
		t.Parallel()
		r := newLimited(t, false)

		post(r, "203.0.113.7")
		post(r, "203.0.113.7")
		rec := post(r, "203.0.113.7")

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	})

	t.Run("requires limiter", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			middleware.RateLimit[*router.Context](middleware.RateLimitConfig{})
		})
	})
}
