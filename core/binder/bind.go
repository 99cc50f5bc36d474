package binder

import (
	"net/http"

	"github.com/dmitrymomot/querybind/core/response"
)

// Bind fills the struct v points to from path captures and a raw query
// string. Captures take precedence over the query. The returned error is
// always a response.Error.
func Bind(v any, captures Captures, rawQuery string, mode Mode) error {
	rv, s, err := target(v)
	if err != nil {
		return err
	}

	seq, err := Merge(s, CollectPath(s, captures), rawQuery, mode)
	if err != nil {
		return err
	}

	return decodeInto(rv, s, seq)
}

// BindTo is the generic form of Bind.
func BindTo[T any](captures Captures, rawQuery string, mode Mode) (T, error) {
	var v T
	if err := Bind(&v, captures, rawQuery, mode); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// FromRequest binds v from r using the given captures.
func FromRequest(v any, r *http.Request, captures Captures, mode Mode) error {
	if r == nil || r.URL == nil {
		return response.TransportError(ErrMissingURL)
	}
	return Bind(v, captures, r.URL.RawQuery, mode)
}
