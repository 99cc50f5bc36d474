package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// Param returns an empty string for captures the route did not define.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
