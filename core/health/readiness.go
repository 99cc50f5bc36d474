package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/logger"
	"github.com/dmitrymomot/querybind/core/response"
)

// ErrNotReady is rendered when at least one readiness check fails.
var ErrNotReady = response.NewError("service is not ready", http.StatusServiceUnavailable, response.CauseTransport)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Status is the readiness body: every check name mapped to "ok" or "failed".
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readiness runs every named check in name order. It responds 200 with a
// Status body when all pass and renders ErrNotReady otherwise. Failures are
// logged with the check name, never sent to the client.
//
//	r.Get("/health/ready", health.Readiness[*router.Context](log, map[string]health.Check{
//		"profiles": dirCheck,
//	}))
func Readiness[C handler.Context](log *slog.Logger, checks map[string]Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Discard()
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(ctx C) handler.Response {
		status := Status{Status: "ready", Checks: make(map[string]string, len(names))}
		failed := false

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", name),
					logger.Error(err),
				)
				status.Checks[name] = "failed"
				failed = true
				continue
			}
			status.Checks[name] = "ok"
		}

		if failed {
			return response.Fail(ErrNotReady)
		}
		return response.JSON(status)
	}
}
