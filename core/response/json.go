package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/querybind/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// The value is encoded before anything is written, so an encoding failure is
// reported as a CauseJSON error instead of a truncated body.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}

		// No body for 204 or 304
		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			w.WriteHeader(status)
			return nil
		}

		body, err := json.Marshal(v)
		if err != nil {
			return NewError(err.Error(), http.StatusInternalServerError, CauseJSON).WithError(err)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, err = w.Write(append(body, '\n'))
		return err
	}
}
