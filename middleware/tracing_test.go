package middleware_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/response"
	"github.com/dmitrymomot/querybind/core/router"
	"github.com/dmitrymomot/querybind/middleware"
)

type recordingSpan struct {
	noop.Span

	mu     sync.Mutex
	name   string
	attrs  map[attribute.Key]attribute.Value
	errs   []error
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

type recordingTracer struct {
	embedded.Tracer

	mu    sync.Mutex
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &recordingSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	cfg := trace.NewSpanStartConfig(opts...)
	span.SetAttributes(cfg.Attributes()...)

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

type recordingProvider struct {
	embedded.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func tracedRouter(t *testing.T) (router.Router[*router.Context], *recordingTracer) {
	t.Helper()

	tracer := &recordingTracer{}
	r := router.New[*router.Context]()
	r.Use(middleware.Tracing[*router.Context](
		middleware.WithTracerProvider(&recordingProvider{tracer: tracer}),
	))
	return r, tracer
}

func TestTracingSuccess(t *testing.T) {
	t.Parallel()

	r, tracer := tracedRouter(t)
	r.Get("/items/{id}", router.Query(func(ctx *router.Context, q itemQuery) handler.Response {
		assert.NotNil(t, middleware.SpanFromContext(ctx))
		return response.String("ok")
	}))

	require.Equal(t, http.StatusOK, serve(t, r, http.MethodGet, "/items/7?page=1").Code)

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	assert.Equal(t, "GET /items/{id}", span.name)
	assert.True(t, span.ended)
	assert.Empty(t, span.errs)
	assert.Equal(t, codes.Unset, span.status)
	assert.Equal(t, "/items/{id}", span.attrs["http.route"].AsString())
	assert.Equal(t, int64(200), span.attrs["http.response.status_code"].AsInt64())
}

func TestTracingBindingFailure(t *testing.T) {
	t.Parallel()

	r, tracer := tracedRouter(t)
	r.Get("/items/{id}", router.Query(func(ctx *router.Context, q itemQuery) handler.Response {
		return response.String("ok")
	}))

	require.Equal(t, http.StatusBadRequest, serve(t, r, http.MethodGet, "/items/7?page=1&sort=x").Code)

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	assert.True(t, span.ended)
	assert.Len(t, span.errs, 1)
	assert.Equal(t, codes.Unset, span.status)
	assert.Equal(t, "query", span.attrs["querybind.cause"].AsString())
	assert.Equal(t, "unexpected query parameters found: `sort`", span.attrs["querybind.reason"].AsString())
	assert.Equal(t, int64(400), span.attrs["http.response.status_code"].AsInt64())
}

func TestTracingServerError(t *testing.T) {
	t.Parallel()

	r, tracer := tracedRouter(t)
	r.Get("/boom", func(ctx *router.Context) handler.Response {
		return response.Fail(response.ErrInternalServerError)
	})

	require.Equal(t, http.StatusInternalServerError, serve(t, r, http.MethodGet, "/boom").Code)

	require.Len(t, tracer.spans, 1)
	assert.Equal(t, codes.Error, tracer.spans[0].status)
}

func TestSpanFromContextWithoutTracing(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/test", func(ctx *router.Context) handler.Response {
		span := middleware.SpanFromContext(ctx)
		assert.False(t, span.SpanContext().IsValid())
		return response.NoContent()
	})

	assert.Equal(t, http.StatusNoContent, serve(t, r, http.MethodGet, "/test").Code)
}
