package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/response"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "querybind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "http").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the collectors recorded by the middleware. Build one per
// registry with NewMetrics and share it between routers.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	bindFailures *prometheus.CounterVec
}

// NewMetrics registers the request collectors with the configured registry.
// Registering twice against the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "querybind",
		Subsystem: "http",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "route", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"method", "route"}),

		bindFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "bind_failures_total",
			Help:        "Total number of requests rejected while binding parameters",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route", "cause", "status"}),
	}
}

// Prometheus creates a middleware recording request counts, durations and
// binding failures. Routes are labelled by their registered pattern so
// captures do not explode cardinality. A panicking handler is recorded as a
// 500 before the panic reaches the router's recovery.
func Prometheus[C handler.Context](m *Metrics) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := time.Now()
			defer m.observePanic(ctx.Request(), start)

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer m.observePanic(r, start)

				rec := &statusRecorder{ResponseWriter: w}
				err := resp(rec, r)
				status, failure := rec.outcome(err)
				m.observe(r, start, status, failure)
				return err
			}
		}
	}
}

func (m *Metrics) observe(r *http.Request, start time.Time, status int, failure *response.Error) {
	route := routePattern(r)
	code := strconv.Itoa(status)

	m.requests.WithLabelValues(r.Method, route, code).Inc()
	m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

	if failure != nil && failure.Cause == response.CauseQuery {
		m.bindFailures.WithLabelValues(route, failure.Cause.String(), code).Inc()
	}
}

// observePanic must be deferred directly; it re-panics after recording.
func (m *Metrics) observePanic(r *http.Request, start time.Time) {
	if p := recover(); p != nil {
		m.observe(r, start, http.StatusInternalServerError, nil)
		panic(p)
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
