// Package middleware provides router middleware for cross-cutting concerns:
// CORS headers, request IDs, structured request logging, Prometheus metrics
// and OpenTelemetry tracing.
//
// All middleware is generic over the handler.Context type and follows the
// same pattern: a default constructor plus a WithConfig or option-based
// constructor for customization.
//
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.Prometheus[*router.Context](middleware.NewMetrics()),
//		middleware.Tracing[*router.Context](),
//		middleware.CORS[*router.Context](),
//	)
//
// # Binding Failures
//
// Handlers built with router.Query return their binding error instead of
// writing a response. Logging, metrics and tracing observe that error before
// the router renders it, so a rejected query is reported with its 400 status,
// the "query" cause and the exact message sent to the client:
//
//	level=WARN msg="HTTP request completed" status_code=400 event=bind_failed cause=query reason="unexpected query parameters found: `sort`"
//
// Metrics are labelled by route pattern rather than by path:
//
//	querybind_http_bind_failures_total{cause="query",route="/profile/{name}",status="400"} 1
//
// # Request IDs
//
// RequestID stores the identifier in the request context. Pair it with
// logger.WithContextValue to stamp every record logged during the request:
//
//	log := logger.New(logger.WithContextValue("request_id", middleware.RequestIDKey()))
package middleware
