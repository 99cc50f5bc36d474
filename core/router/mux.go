package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/logger"
	"github.com/dmitrymomot/querybind/core/response"
)

// supportedMethods lists the verbs a route may be registered for.
var supportedMethods = []string{
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
	http.MethodOptions,
}

// registry records registered method+pattern pairs across a router tree.
type registry struct {
	mu     sync.Mutex
	routes map[string]struct{}
}

func (r *registry) key(method, pattern string) string {
	return method + " " + pattern
}

func (r *registry) has(method, pattern string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.routes[r.key(method, pattern)]
	return ok
}

func (r *registry) add(method, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(method, pattern)
	if _, ok := r.routes[k]; ok {
		return fmt.Errorf("%w: %s", ErrRouteExists, k)
	}
	r.routes[k] = struct{}{}
	return nil
}

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	chi          chi.Router
	root         chi.Router
	prefix       string
	routes       *registry
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	inline       bool
	hasRoutes    bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	cr := chi.NewRouter()
	m := &mux[C]{
		chi:          cr,
		root:         cr,
		routes:       &registry{routes: make(map[string]struct{})},
		errorHandler: response.ErrorHandler[C],
		logger:       logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context type works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	cr.NotFound(m.notFound)
	cr.MethodNotAllowed(m.methodNotAllowed)

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root.ServeHTTP(w, r)
}

func (m *mux[C]) notFound(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)
	m.handleError(m.newContext(ww, r), ww, response.ErrNotFound)
}

func (m *mux[C]) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}

	// Set Allow header per RFC 7231 before responding with 405
	var allowed []string
	for _, method := range supportedMethods {
		if m.root.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	if len(allowed) > 0 {
		ww.Header().Set("Allow", strings.Join(allowed, ", "))
	}

	m.handleError(m.newContext(ww, r), ww, response.ErrMethodNotAllowed)
}

// serve runs a handler with panic recovery and error routing.
func (m *mux[C]) serve(fn handler.HandlerFunc[C]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := m.newContext(ww, r)

		// Recover from panics to prevent server crashes
		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{
					value: p,
					stack: debug.Stack(),
				}
				m.logger.Error("panic recovered",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					logger.Path(r.URL.Path),
					logger.Method(r.Method),
				)
				m.handleError(ctx, ww, panicErr)
			}
		}()

		resp := fn(ctx)
		if resp == nil {
			m.handleError(ctx, ww, ErrNilResponse)
			return
		}

		if err := resp(ww, ctx.Request()); err != nil {
			m.handleError(ctx, ww, err)
		}
	}
}

// handleError forwards err to the error handler unless a response has
// already been started.
func (m *mux[C]) handleError(ctx C, ww *responseWriter, err error) {
	if ww.Written() {
		m.logger.Error("error after response written",
			logger.Error(err),
			logger.StatusCode(ww.Status()),
			logger.Path(ctx.Request().URL.Path),
			logger.Method(ctx.Request().Method),
		)
		return
	}
	m.errorHandler(ctx, err)
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodDelete, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodPatch, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodHead, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle(http.MethodOptions, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.mustHandle("*", pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	var seen []string
	for _, method := range methods {
		mt := strings.ToUpper(strings.TrimSpace(method))
		if !slices.Contains(supportedMethods, mt) {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if slices.Contains(seen, mt) {
			continue
		}
		seen = append(seen, mt)
		m.mustHandle(mt, pattern, h)
	}
}

// Register validates g and registers its plan in order. Nothing is
// registered when validation fails or any route already exists.
func (m *mux[C]) Register(g RouteGroup[C]) error {
	steps, err := g.Plan()
	if err != nil {
		return err
	}

	for _, step := range steps {
		if m.routes.has(step.Method, m.prefix+g.Pattern) {
			return fmt.Errorf("%w: %s %s", ErrRouteExists, step.Method, m.prefix+g.Pattern)
		}
	}

	for _, step := range steps {
		if err := m.handle(step.Method, g.Pattern, step.Handler); err != nil {
			return err
		}
	}

	m.logger.Debug("route group registered",
		"pattern", m.prefix+g.Pattern,
		"methods", strings.Join(g.Methods, ","),
		"preflight", g.Wrap,
	)
	return nil
}

// MustRegister is like Register but panics on error.
func (m *mux[C]) MustRegister(g RouteGroup[C]) {
	if err := m.Register(g); err != nil {
		panic(err)
	}
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.hasRoutes {
		panic("querybind: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	im := m.child(m.chi, m.prefix)
	im.inline = true
	im.middlewares = append(slices.Clone(m.middlewares), middlewares...)
	return im
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a new sub-router mounted at the given pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}

	var sub *mux[C]
	m.chi.Route(pattern, func(r chi.Router) {
		sub = m.child(r, m.prefix+strings.TrimSuffix(pattern, "/"))
		sub.middlewares = slices.Clone(m.middlewares)
		fn(sub)
	})
	m.hasRoutes = true
	return sub
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	var routes []Route
	_ = chi.Walk(m.root, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: route})
		return nil
	})
	return routes
}

func (m *mux[C]) child(r chi.Router, prefix string) *mux[C] {
	return &mux[C]{
		chi:          r,
		root:         m.root,
		prefix:       prefix,
		routes:       m.routes,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

func (m *mux[C]) mustHandle(method, pattern string, h handler.HandlerFunc[C]) {
	if err := m.handle(method, pattern, h); err != nil {
		panic(err)
	}
}

// handle registers a handler with the middleware chain captured at
// registration time.
func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) error {
	if len(pattern) == 0 || pattern[0] != '/' {
		return fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s %s", ErrNilHandler, method, pattern)
	}
	if err := m.routes.add(method, m.prefix+pattern); err != nil {
		return err
	}

	m.hasRoutes = true

	h := fn
	if len(m.middlewares) > 0 {
		h = chain(m.middlewares, fn)
	}

	if method == "*" {
		m.chi.Handle(pattern, m.serve(h))
		return nil
	}
	m.chi.Method(method, pattern, m.serve(h))
	return nil
}

// chain wraps fn with middlewares so the first middleware runs first.
func chain[C handler.Context](middlewares []handler.Middleware[C], fn handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := fn
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
