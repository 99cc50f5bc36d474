package binder

import "net/http"

// Binder represents a function that binds HTTP request data to a Go value.
type Binder func(r *http.Request, v any) error

// Query returns a Binder that reads path captures through extractor and
// merges them with the request query string in the given mode.
//
//	bind := binder.Query(chi.URLParam, binder.Strict)
//	var q ListQuery
//	if err := bind(r, &q); err != nil { ... }
func Query(extractor Extractor, mode Mode) Binder {
	return func(r *http.Request, v any) error {
		return FromRequest(v, r, ExtractorCaptures(r, extractor), mode)
	}
}
