package response

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/querybind/core/handler"
)

// Cause identifies the stage of request processing that produced an Error.
type Cause uint8

const (
	// CauseQuery marks failures while binding path captures and the query string.
	CauseQuery Cause = iota + 1
	// CauseHeader marks invalid header names or values.
	CauseHeader
	// CauseJSON marks failures while encoding a JSON response.
	CauseJSON
	// CauseTransport marks failures reported by the host request or router.
	CauseTransport
)

// String returns the lower-case name of the cause.
func (c Cause) String() string {
	switch c {
	case CauseQuery:
		return "query"
	case CauseHeader:
		return "header"
	case CauseJSON:
		return "json"
	case CauseTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced to clients. It carries everything
// needed to render a response without recomputation.
type Error struct {
	Message string // Human-readable message
	Status  int    // HTTP status code
	Cause   Cause  // Processing stage that failed
	err     error
}

// NewError creates an Error with the given message, status and cause.
func NewError(message string, status int, cause Cause) Error {
	return Error{Message: message, Status: status, Cause: cause}
}

// TransportError wraps a failure of the surrounding request object.
// The status is taken from the wrapped error when it reports one in the
// 400-599 range, otherwise it is 500.
func TransportError(err error) Error {
	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		if s := sc.StatusCode(); s >= 400 && s <= 599 {
			status = s
		}
	}

	message := http.StatusText(status)
	if err != nil {
		message = err.Error()
	}

	return Error{Message: message, Status: status, Cause: CauseTransport, err: err}
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// Unwrap returns the wrapped error, if any.
func (e Error) Unwrap() error {
	return e.err
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithError returns a copy of the error wrapping err.
func (e Error) WithError(err error) Error {
	e.err = err
	return e
}

// MarshalJSON renders the client-facing error body.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
		Success    bool   `json:"success"`
	}{
		Message:    e.Message,
		StatusCode: e.StatusCode(),
	})
}

// Render writes the error as JSON when the client accepts it,
// otherwise as plain text. The status code is the same in both cases.
func (e Error) Render(w http.ResponseWriter, r *http.Request) error {
	if AcceptsJSON(r) {
		body, err := json.Marshal(e)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(e.StatusCode())
		_, err = w.Write(append(body, '\n'))
		return err
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(e.StatusCode())
	_, err := w.Write([]byte(e.Message))
	return err
}

// AcceptsJSON reports whether the request's Accept header includes
// */* or application/json.
func AcceptsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	for _, value := range r.Header.Values("Accept") {
		for part := range strings.SplitSeq(value, ",") {
			mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			if mediaType == "*/*" || mediaType == "application/json" {
				return true
			}
		}
	}
	return false
}

// Renderer is implemented by errors that know how to render themselves.
type Renderer interface {
	error
	Render(w http.ResponseWriter, r *http.Request) error
}

// Fail returns a handler response that propagates the given error to the
// router's error handler.
func Fail(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
