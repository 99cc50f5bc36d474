package response_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/querybind/core/response"
)

// testContext is a simple test implementation of handler.Context
type testContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{Context: r.Context(), w: w, r: r}
}

func (tc *testContext) SetValue(key, val any)               {}
func (tc *testContext) Request() *http.Request              { return tc.r }
func (tc *testContext) ResponseWriter() http.ResponseWriter { return tc.w }
func (tc *testContext) Param(key string) string             { return "" }

// teapotError renders itself.
type teapotError struct{}

func (teapotError) Error() string { return "short and stout" }

func (teapotError) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusTeapot)
	_, err := w.Write([]byte("custom"))
	return err
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		accept         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "binding error as text",
			err:            response.NewError("duplicate query parameters found: `page`", http.StatusBadRequest, response.CauseQuery),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "duplicate query parameters found: `page`",
		},
		{
			name:           "binding error as json",
			err:            response.NewError("missing field `page`", http.StatusBadRequest, response.CauseQuery),
			accept:         "application/json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"missing field ` + "`page`" + `","statusCode":400,"success":false}` + "\n",
		},
		{
			name:           "status code error",
			err:            customStatusError{"not here", http.StatusNotFound},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not here",
		},
		{
			name:           "unknown error",
			err:            errors.New("internal detail"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal Server Error",
		},
		{
			name:           "self rendering error",
			err:            teapotError{},
			expectedStatus: http.StatusTeapot,
			expectedBody:   "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()

			response.ErrorHandler(newTestContext(w, req), tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}
