package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querybind/core/response"
)

func TestWithHeaders(t *testing.T) {
	t.Parallel()

	t.Run("sets headers", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := response.WithHeaders(response.String("ok"), map[string]string{"X-Total-Count": "42"})
		require.NoError(t, resp(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "42", w.Header().Get("X-Total-Count"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, response.WithHeader(nil, "X-A", "b"))
	})

	t.Run("invalid header name", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := response.WithHeader(response.String("ok"), "Bad Header", "v")(w, httptest.NewRequest(http.MethodGet, "/", nil))

		var e response.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, response.CauseHeader, e.Cause)
		assert.Equal(t, http.StatusInternalServerError, e.Status)
		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid header value", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := response.WithHeader(response.String("ok"), "X-Injected", "a\r\nSet-Cookie: x=y")(w, httptest.NewRequest(http.MethodGet, "/", nil))

		var e response.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, response.CauseHeader, e.Cause)
	})
}
