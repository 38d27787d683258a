// Package health provides liveness and readiness handlers for the router.
//
//	r.Get("/health/live", health.Liveness[*card.Context])
//	r.Get("/health/ready", health.Readiness[*card.Context](log,
//		health.Check{Name: "vcard", Probe: source.Ping},
//	))
package health
