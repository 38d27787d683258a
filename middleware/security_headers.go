package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/contactcard/core/handler"
)

// SecurityHeadersConfig lists response headers to set. Empty fields are
// left out.
type SecurityHeadersConfig struct {
	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string
	CustomHeaders           map[string]string
	// IsDevelopment drops HSTS so plain-HTTP local runs keep working.
	IsDevelopment bool
}

// CardSecurity fits the card page: same-origin scripts and styles, inline
// data: images for the QR code, and sms:/blob navigation left to the browser.
var CardSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ContentSecurityPolicy:   "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
	ReferrerPolicy:          "strict-origin-when-cross-origin",
	PermissionsPolicy:       "camera=(), microphone=(), geolocation=(), payment=()",
	CrossOriginOpenerPolicy: "same-origin",
}

// SecurityHeaders sets CardSecurity headers.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](CardSecurity)
}

// SecurityHeadersWithConfig sets the headers in cfg on every response.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":     cfg.ContentTypeOptions,
		"X-Frame-Options":            cfg.FrameOptions,
		"Strict-Transport-Security":  cfg.StrictTransportSecurity,
		"Content-Security-Policy":    cfg.ContentSecurityPolicy,
		"Referrer-Policy":            cfg.ReferrerPolicy,
		"Permissions-Policy":         cfg.PermissionsPolicy,
		"Cross-Origin-Opener-Policy": cfg.CrossOriginOpenerPolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				for k, v := range headers {
					w.Header().Set(k, v)
				}
				if resp == nil {
					return nil
				}
				return resp(w, r)
			}
		}
	}
}
