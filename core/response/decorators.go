package response

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/dmitrymomot/querybind/core/handler"
)

// WithHeader wraps a response with a single HTTP header.
// Invalid header names or values fail the response with a CauseHeader error
// before the wrapped response is rendered.
func WithHeader(response handler.Response, name, value string) handler.Response {
	return WithHeaders(response, map[string]string{name: value})
}

// WithHeaders wraps a response with custom HTTP headers.
// Headers are set before the wrapped response is rendered.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil {
		return nil
	}
	if len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			if !httpguts.ValidHeaderFieldName(k) {
				return NewError(fmt.Sprintf("invalid header name %q", k), http.StatusInternalServerError, CauseHeader)
			}
			if !httpguts.ValidHeaderFieldValue(v) {
				return NewError(fmt.Sprintf("invalid value for header %q", k), http.StatusInternalServerError, CauseHeader)
			}
		}
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}
