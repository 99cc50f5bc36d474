package middleware

import (
	"net/http"

	"github.com/dmitrymomot/querybind/core/response"
)

// statusRecorder wraps http.ResponseWriter to capture the status code and
// body size written by a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *statusRecorder) WriteHeader(status int) {
	if rw.status == 0 {
		rw.status = status
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// outcome reports the status a request ends with. When the response returned
// an error before writing anything, the status is the one the router's error
// handler will render.
func (rw *statusRecorder) outcome(err error) (int, *response.Error) {
	if err == nil {
		if rw.status == 0 {
			return http.StatusOK, nil
		}
		return rw.status, nil
	}

	e := response.AsError(err)
	if rw.status != 0 {
		return rw.status, &e
	}
	return e.StatusCode(), &e
}
