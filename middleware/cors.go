package middleware

import (
	"net/http"

	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/handler"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// Skip allows bypassing CORS handling for specific requests
	Skip func(ctx handler.Context) bool

	// Policy decides which origins, methods and headers are allowed.
	// Defaults to cors.Permissive().
	Policy *cors.Policy
}

// CORS returns a CORS middleware using the permissive policy.
//
// Usage:
//
//	r.Use(middleware.CORS[*router.Context]())
//
// Route groups registered with a policy already answer preflights and set
// headers themselves; use this middleware for routes registered one by one.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithPolicy returns a CORS middleware applying the given policy.
func CORSWithPolicy[C handler.Context](p *cors.Policy) handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{Policy: p})
}

// CORSWithConfig returns a CORS middleware with custom configuration.
// Headers are applied before the wrapped response runs, so error responses
// rendered by the router carry them as well. OPTIONS requests carrying
// Access-Control-Request-Method are answered with an empty 204.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if cfg.Policy == nil {
		cfg.Policy = cors.Permissive()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
				return cfg.Policy.Preflight()
			}

			return cfg.Policy.Wrap(next(ctx))
		}
	}
}
