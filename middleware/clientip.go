package middleware

import (
	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIP resolves the visitor's address once per request. Proxy headers
// are honored, so run the server behind a proxy that sets them.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if ip := clientip.GetIP(ctx.Request()); ip != "" {
				ctx.SetValue(clientIPContextKey{}, ip)
			}
			return next(ctx)
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
