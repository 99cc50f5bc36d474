// Package ginbind binds path captures and query strings into typed structs
// for gin handlers, with the same strict and lenient semantics as
// router.Query.
//
//	r := gin.New()
//	r.Use(ginbind.CORS(cors.Permissive()))
//	r.GET("/profile/:name", ginbind.Query(binder.Strict, func(c *gin.Context, q ProfileQuery) {
//		c.JSON(http.StatusOK, lookup(q))
//	}))
//
// Binding failures are rendered as response.Error bodies and abort the chain.
package ginbind

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/response"
)

// Captures exposes gin path params to the binder. Empty values are treated
// as absent.
func Captures(c *gin.Context) binder.Captures {
	return binder.CapturesFunc(func(name string) (string, bool) {
		v, ok := c.Params.Get(name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	})
}

// Bind fills v from the gin context's path params and query string.
func Bind(c *gin.Context, v any, mode binder.Mode) error {
	return binder.FromRequest(v, c.Request, Captures(c), mode)
}

// Query returns a gin handler that binds T before calling fn. On failure
// the error is rendered and fn is not invoked.
func Query[T any](mode binder.Mode, fn func(c *gin.Context, query T)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q T
		if err := Bind(c, &q, mode); err != nil {
			Abort(c, err)
			return
		}
		fn(c, q)
	}
}

// Abort renders err with its status and content negotiation and stops the
// handler chain. The error is also attached to the gin context.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)

	var renderer response.Renderer
	if !errors.As(err, &renderer) {
		renderer = response.AsError(err)
	}
	if renderErr := renderer.Render(c.Writer, c.Request); renderErr != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Abort()
}

// CORS applies the policy headers to every response and answers preflight
// requests with an empty 204.
func CORS(p *cors.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.Apply(c.Writer.Header(), c.GetHeader("Origin"))

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.Header("Vary", "Access-Control-Request-Method")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
