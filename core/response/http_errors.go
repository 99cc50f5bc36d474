package response

import (
	"errors"
	"net/http"
)

// statusCode is implemented by errors that carry an HTTP status code.
type statusCode interface {
	StatusCode() int
}

// Predefined errors used by the router.
var (
	ErrBadRequest          = NewError(http.StatusText(http.StatusBadRequest), http.StatusBadRequest, CauseTransport)
	ErrNotFound            = NewError(http.StatusText(http.StatusNotFound), http.StatusNotFound, CauseTransport)
	ErrMethodNotAllowed    = NewError(http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, CauseTransport)
	ErrInternalServerError = NewError(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError, CauseTransport)
)

// AsError converts any error to an Error.
// Errors that already are Error values are returned unchanged. Errors
// reporting a status code keep their message and status. Anything else
// becomes an opaque 500 so internal details never reach the client.
func AsError(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}

	var sc statusCode
	if errors.As(err, &sc) {
		status := sc.StatusCode()
		if status < 400 || status > 599 {
			return ErrInternalServerError.WithError(err)
		}
		return NewError(err.Error(), status, CauseTransport).WithError(err)
	}

	return ErrInternalServerError.WithError(err)
}
