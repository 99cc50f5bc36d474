package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Context is the default request context. It implements handler.Context
// and context.Context backed by the request context.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

// NewContext creates a Context for w and r. Routers use it when no
// context factory is configured.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return newContext(w, r)
}

// Request returns the current request, including values added via SetValue.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the response writer.
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns the path capture for key, or "" when the route has none.
func (c *Context) Param(key string) string {
	if c.r == nil {
		return ""
	}
	return chi.URLParam(c.r, key)
}

// SetValue stores a value in the request context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *Context) Err() error                  { return c.r.Context().Err() }
func (c *Context) Value(key any) any           { return c.r.Context().Value(key) }
