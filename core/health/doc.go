// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log, map[string]health.Check{
//		"profiles": func(ctx context.Context) error { ... },
//	}))
//
// Readiness answers 503 through the router's error handler when any check
// fails; the failing check names appear in the logs only.
package health
