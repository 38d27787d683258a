package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/logger"
)

// LoggingConfig configures the Logging middleware.
type LoggingConfig struct {
	Skip   func(ctx handler.Context) bool
	Logger *slog.Logger
	// SlowRequestThreshold raises completed requests slower than this to
	// warn level. Defaults to 5s.
	SlowRequestThreshold time.Duration
	// Component defaults to "http".
	Component string
}

// Logging logs one line per completed request.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig is Logging with custom settings.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				rw := &statusRecorder{ResponseWriter: w}
				var err error
				if resp != nil {
					err = resp(rw, r)
				}

				elapsed := time.Since(start)
				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Duration(elapsed),
					slog.Int("bytes_out", rw.size),
				}
				if id, ok := GetRequestID(ctx); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if ip, ok := GetClientIP(ctx); ok {
					attrs = append(attrs, logger.ClientIP(ip))
				}
				if p, ok := GetDevice(ctx); ok {
					attrs = append(attrs, logger.Device(p.String()))
				}

				level := slog.LevelInfo
				switch {
				case err != nil:
					// the error handler writes the status after this returns
					level = slog.LevelError
					attrs = append(attrs, logger.Error(err))
				case rw.status >= 500:
					level = slog.LevelError
				case rw.status >= 400:
					level = slog.LevelWarn
				case elapsed > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}
				if rw.status != 0 {
					attrs = append(attrs, logger.StatusCode(rw.status))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request completed", attrs...)
				return err
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
