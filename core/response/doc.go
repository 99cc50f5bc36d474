// Package response provides the unified client-facing Error type and the
// response helpers used by handlers.
//
// Every failure that reaches a client is an Error carrying a message, an HTTP
// status code and a Cause (query binding, header, JSON encoding or transport).
// Errors render themselves: when the request's Accept header includes */* or
// application/json the body is
//
//	{"message": "duplicate query parameters found: `page`", "statusCode": 400, "success": false}
//
// with Content-Type application/json; otherwise the message is written as
// plain text with the same status code.
//
// Use ErrorHandler as the router's error handler to get this behaviour for
// every error returned by handlers, middleware or the binder. Errors that
// implement Renderer render themselves and bypass the conversion.
package response
