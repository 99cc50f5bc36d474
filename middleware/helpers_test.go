package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type pageQuery struct {
	Page uint `query:"page"`
}

type itemQuery struct {
	ID   uint `query:"id"`
	Page uint `query:"page"`
}

func serve(t *testing.T, h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
