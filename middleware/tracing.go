package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/response"
)

const defaultTracerName = "github.com/dmitrymomot/querybind"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// Provider supplies the tracer (default: otel.GetTracerProvider()).
	Provider trace.TracerProvider

	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
}

// TracingOption configures the OpenTelemetry middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = provider
	}
}

// WithTracingSkip sets a function deciding which requests are not traced.
func WithTracingSkip(skip func(ctx handler.Context) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Skip = skip
	}
}

// Tracing creates middleware that opens a server span per request.
//
// The span is named after the method and registered route pattern. Binding
// failures are recorded on the span with their cause and message; 5xx
// responses set the span status to error.
//
// The tracer uses the global provider unless WithTracerProvider is given:
//
//	otel.SetTracerProvider(tp)
//	r.Use(middleware.Tracing[*router.Context]())
func Tracing[C handler.Context](opts ...TracingOption) handler.Middleware[C] {
	cfg := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Provider == nil {
		cfg.Provider = otel.GetTracerProvider()
	}

	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			route := routePattern(req)

			spanCtx, span := tracer.Start(req.Context(), req.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("http.route", route),
					attribute.String("url.path", req.URL.Path),
					attribute.String("url.query", req.URL.RawQuery),
				),
			)
			ctx.SetValue(spanContextKey{}, spanCtx)

			resp := next(ctx)
			if resp == nil {
				span.End()
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer span.End()

				rec := &statusRecorder{ResponseWriter: w}
				err := resp(rec, r)
				status, failure := rec.outcome(err)

				span.SetAttributes(attribute.Int("http.response.status_code", status))

				if failure != nil {
					span.RecordError(err)
					if failure.Cause == response.CauseQuery {
						span.SetAttributes(
							attribute.String("querybind.cause", failure.Cause.String()),
							attribute.String("querybind.reason", failure.Message),
						)
					}
				}

				if status >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(status))
				}

				return err
			}
		}
	}
}

// spanContextKey is the key for storing the span context in request values.
type spanContextKey struct{}

// SpanFromContext returns the span opened by the tracing middleware, or a
// non-recording span when the request was not traced.
func SpanFromContext(ctx handler.Context) trace.Span {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return trace.SpanFromContext(ctx)
}
