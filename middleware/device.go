package middleware

import (
	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

type deviceContextKey struct{}

// Device classifies the visitor's device once per request and stores the
// profile in the context. A nil detector uses client hints with the
// User-Agent sniffer as fallback.
func Device[C handler.Context](detector useragent.Detector) handler.Middleware[C] {
	if detector == nil {
		detector = useragent.Hints{Fallback: useragent.Sniffer{}}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			profile := detector.Detect(useragent.SignalsFromRequest(ctx.Request()))
			ctx.SetValue(deviceContextKey{}, profile)
			return next(ctx)
		}
	}
}

// GetDevice returns the profile stored by Device.
func GetDevice(ctx handler.Context) (useragent.Profile, bool) {
	p, ok := ctx.Value(deviceContextKey{}).(useragent.Profile)
	return p, ok
}
