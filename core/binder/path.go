package binder

import (
	"net/http"
	"strings"
)

// Captures exposes the named segments a router captured from the request path.
type Captures interface {
	// Lookup returns the captured value for name and whether it exists.
	Lookup(name string) (string, bool)
}

// Params is a map-backed Captures.
type Params map[string]string

// Lookup implements Captures.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// CapturesFunc adapts a lookup function to Captures.
type CapturesFunc func(name string) (string, bool)

// Lookup implements Captures.
func (f CapturesFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// Extractor returns the value of a named path segment, or "" when the
// segment is absent. chi.URLParam has this signature.
type Extractor func(r *http.Request, name string) string

// ExtractorCaptures adapts a router extractor bound to r. Empty results are
// reported as absent. A nil extractor captures nothing.
func ExtractorCaptures(r *http.Request, extractor Extractor) Captures {
	if extractor == nil || r == nil {
		return Params(nil)
	}
	return CapturesFunc(func(name string) (string, bool) {
		v := extractor(r, name)
		return v, v != ""
	})
}

// CollectPath returns one pair per declared field the captures supply,
// in declaration order. Keys and values are trimmed of surrounding
// whitespace. Captures for undeclared names are never consulted.
func CollectPath(s *Schema, captures Captures) []Pair {
	if captures == nil {
		return nil
	}

	var pairs []Pair
	for _, name := range s.names {
		v, ok := captures.Lookup(name)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Key: strings.TrimSpace(name), Value: strings.TrimSpace(v)})
	}
	return pairs
}
