package router

import (
	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/response"
)

// Query adapts a typed handler to a HandlerFunc. Path captures and the
// query string are bound to T in strict mode before fn runs; binding
// failures go to the router's error handler and fn is not called.
func Query[C handler.Context, T any](fn handler.QueryHandlerFunc[C, T]) handler.HandlerFunc[C] {
	return QueryWithMode(binder.Strict, fn)
}

// QueryWithMode is like Query with an explicit binding mode.
func QueryWithMode[C handler.Context, T any](mode binder.Mode, fn handler.QueryHandlerFunc[C, T]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		var q T
		if err := binder.FromRequest(&q, ctx.Request(), captures(ctx), mode); err != nil {
			return response.Fail(err)
		}
		return fn(ctx, q)
	}
}

// captures exposes the context path params to the binder. Empty values
// are treated as absent.
func captures[C handler.Context](ctx C) binder.Captures {
	return binder.CapturesFunc(func(name string) (string, bool) {
		v := ctx.Param(name)
		return v, v != ""
	})
}
