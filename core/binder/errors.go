package binder

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/querybind/core/response"
)

// Error variables define binding failures. Every error returned by this
// package is a response.Error wrapping one of them, so callers can use
// errors.Is for classification and errors.As for rendering.
var (
	// ErrInvalidTarget indicates the value passed for binding is not a
	// non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("invalid binding target")

	// ErrUnsupportedShape indicates the target type is not a flat record
	// with named fields (tuple, unit, union or nested shapes).
	ErrUnsupportedShape = errors.New("unsupported target shape")

	// ErrFailedToParseQuery indicates the raw query string is malformed.
	ErrFailedToParseQuery = errors.New("failed to parse query string")

	// ErrDuplicateParams indicates a declared field was supplied more than once.
	ErrDuplicateParams = errors.New("duplicate query parameters")

	// ErrUnrecognizedParams indicates the query string carries keys that
	// are not declared by the target.
	ErrUnrecognizedParams = errors.New("unrecognized query parameters")

	// ErrUnexpectedParam indicates a query parameter appeared out of the
	// declared field order.
	ErrUnexpectedParam = errors.New("unexpected query parameter")

	// ErrFailedToDecode indicates the merged sequence could not be decoded
	// into the target (missing required field, invalid value, validation).
	ErrFailedToDecode = errors.New("failed to decode query parameters")

	// ErrUnknownMode indicates a binding mode name other than strict or lenient.
	ErrUnknownMode = errors.New("unknown binding mode")

	// ErrMissingURL indicates the request carries no URL to bind from.
	ErrMissingURL = errors.New("request has no URL")
)

// schemaError reports an unsupported target shape. It is a programming
// error rather than bad input, hence the 500 status.
func schemaError(format string, args ...any) error {
	return response.NewError(fmt.Sprintf(format, args...), http.StatusInternalServerError, response.CauseQuery).
		WithError(ErrUnsupportedShape)
}

func targetError(format string, args ...any) error {
	return response.NewError(fmt.Sprintf(format, args...), http.StatusInternalServerError, response.CauseQuery).
		WithError(ErrInvalidTarget)
}

// queryError reports invalid client input.
func queryError(sentinel error, format string, args ...any) error {
	return response.NewError(fmt.Sprintf(format, args...), http.StatusBadRequest, response.CauseQuery).
		WithError(sentinel)
}

func decodeError(cause error, format string, args ...any) error {
	err := ErrFailedToDecode
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrFailedToDecode, cause)
	}
	return response.NewError(fmt.Sprintf(format, args...), http.StatusBadRequest, response.CauseQuery).
		WithError(err)
}
