package router

import (
	"errors"
	"fmt"
)

var (
	// Mux errors
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilSubrouter     = errors.New("nil subrouter")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrNilHandler       = errors.New("nil handler")
	ErrRouteExists      = errors.New("route already registered")

	// Route group errors
	ErrNoMethods         = errors.New("route group declares no methods")
	ErrDuplicateMethod   = errors.New("method declared more than once")
	ErrMixedAll          = errors.New("method `all` cannot be combined with other methods")
	ErrWrapWithoutCORS   = errors.New("wrap requires a cors policy")
	ErrPreflightConflict = errors.New("wrap conflicts with an explicit OPTIONS handler")
)

// PanicError interface allows external error handlers to detect and handle panics.
// When a panic is recovered by the router, it's wrapped in an error that implements
// this interface, providing access to the original panic value and stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

// panicError is the private implementation of PanicError interface.
type panicError struct {
	value any
	stack []byte
}

// Error implements the error interface.
func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *panicError) Value() any {
	return e.value
}

// Stack returns the stack trace.
func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
