package card

import (
	"time"

	"github.com/dmitrymomot/contactcard/core/health"
	"github.com/dmitrymomot/contactcard/core/router"
	"github.com/dmitrymomot/contactcard/core/static"
	"github.com/dmitrymomot/contactcard/middleware"
)

func (a *App) routes(r router.Router[*Context]) {
	security := middleware.CardSecurity
	security.IsDevelopment = a.config.IsDevelopment()

	r.Use(
		middleware.RequestID[*Context](),
		middleware.ClientIP[*Context](),
		middleware.Logging[*Context](a.logger),
		middleware.BodyLimit[*Context](middleware.DefaultBodyLimit),
		middleware.SecurityHeadersWithConfig[*Context](security),
		middleware.Device[*Context](nil),
	)

	r.Get("/{$}", a.cardPage)
	r.Get("/assets/{file...}", static.FS[*Context](a.assets,
		static.WithStripPrefix("/assets"),
		static.WithMaxAge(time.Hour),
	))

	limited := r
	if a.limiter != nil {
		limited = r.With(middleware.RateLimit[*Context](middleware.RateLimitConfig{
			Limiter:    a.limiter,
			SetHeaders: true,
		}))
	}

	limited.Post("/actions/save", a.saveContact)
	limited.Post("/actions/send", a.sendMessage)

	r.Get("/blobs/{id}", a.blob)
	r.Get(a.config.Card.PublicVCardPath(), a.vcard)
	r.Get("/downloads/template.txt", a.templateFile)
	r.Get("/downloads/invite.ics", a.inviteFile)
	r.Get("/sms", a.smsRedirect)
	limited.Get("/qr.png", a.qrCode)

	r.Get("/health/live", health.Liveness[*Context])
	r.Get("/health/ready", health.Readiness[*Context](a.logger,
		health.Check{Name: "vcard", Probe: a.vcardReady},
	))
}
