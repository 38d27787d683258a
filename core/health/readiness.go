package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/response"
)

// Check is a named dependency check.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// Readiness runs checks in order and answers 503 naming the first failing
// one, or READY when all pass.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, c := range checks {
			if c.Probe == nil {
				continue
			}
			if err := c.Probe(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable.WithMessage(c.Name + " is not ready"))
			}
		}

		return response.WithCache(response.String("READY"), 0)
	}
}
