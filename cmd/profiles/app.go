package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/health"
	"github.com/dmitrymomot/querybind/core/logger"
	"github.com/dmitrymomot/querybind/core/router"
	"github.com/dmitrymomot/querybind/internal/profile"
	"github.com/dmitrymomot/querybind/middleware"
)

var errEmptyDirectory = errors.New("profile directory is empty")

func newLogger(cfg appConfig) *slog.Logger {
	if cfg.Env == "development" {
		return logger.New(logger.WithDevelopment(serviceName))
	}
	return logger.New(
		logger.WithProduction(serviceName),
		logger.WithLevel(cfg.LogLevel),
		logger.WithAttr(logger.Version(version)),
	)
}

// newRouter wires middleware, the profile routes and, when enabled, the
// metrics endpoint.
func newRouter(cfg appConfig, dir *profile.Directory, log *slog.Logger) (router.Router[*router.Context], error) {
	r := router.New[*router.Context](router.WithLogger[*router.Context](log))

	mw := []handler.Middleware[*router.Context]{
		middleware.RequestID[*router.Context](),
		middleware.LoggingWithLogger[*router.Context](log),
		middleware.Tracing[*router.Context](middleware.WithTracerName(serviceName)),
	}

	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := middleware.NewMetrics(middleware.WithRegistry(reg), middleware.WithNamespace(serviceName))
		mw = append(mw, middleware.Prometheus[*router.Context](metrics))
	}
	r.Use(mw...)

	svc := profile.NewService(dir,
		profile.WithMode(cfg.BindMode),
		profile.WithPolicy(cfg.corsPolicy()),
		profile.WithLogger(log),
	)
	if err := profile.Register(r, svc); err != nil {
		return nil, err
	}

	if reg != nil {
		r.Get("/metrics", fromHTTP(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	r.Get("/health/live", health.Liveness[*router.Context])
	r.Get("/health/ready", health.Readiness[*router.Context](log, map[string]health.Check{
		"profiles": func(context.Context) error {
			if dir.Len() == 0 {
				return errEmptyDirectory
			}
			return nil
		},
	}))

	return r, nil
}

// fromHTTP adapts a plain http.Handler to the router.
func fromHTTP(h http.Handler) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}

func loadDirectory(cfg appConfig) (*profile.Directory, error) {
	if cfg.Fixture == "" {
		return profile.Default()
	}
	people, err := profile.LoadFile(cfg.Fixture)
	if err != nil {
		return nil, err
	}
	return profile.NewDirectory(people), nil
}
