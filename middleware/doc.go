// Package middleware holds the HTTP middleware used by the card server:
// request IDs, access logging, device classification, security headers and
// body limits.
//
//	r := router.New(
//		router.WithMiddleware(
//			middleware.RequestID[*card.Context](),
//			middleware.Logging[*card.Context](log),
//			middleware.SecurityHeaders[*card.Context](),
//			middleware.Device[*card.Context](nil),
//		),
//	)
//
// Device stores a useragent.Profile for handlers to read with GetDevice,
// so every handler sees the same classification.
package middleware
