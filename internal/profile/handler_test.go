package profile_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/router"
	"github.com/dmitrymomot/querybind/internal/profile"
)

func newServer(t *testing.T, opts ...profile.ServiceOption) http.Handler {
	t.Helper()

	dir, err := profile.Default()
	require.NoError(t, err)

	r := router.New[*router.Context]()
	require.NoError(t, profile.Register(r, profile.NewService(dir, opts...)))
	return r
}

func get(h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Accept", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type listBody struct {
	Data struct {
		Page     uint  `json:"page"`
		Next     *uint `json:"next"`
		Previous *uint `json:"previous"`
		Total    int   `json:"total"`
		Results  []struct {
			Email string `json:"email"`
		} `json:"results"`
	} `json:"data"`
}

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
}

func TestSingleEndpoint(t *testing.T) {
	t.Parallel()

	h := newServer(t)

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		w := get(h, http.MethodGet, "/profile/Turing", "Origin", "https://example.com")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get(cors.HeaderAllowOrigin))

		var body struct {
			Data profile.Person `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Alan", body.Data.Name.First)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		w := get(h, http.MethodGet, "/profile/nobody")
		require.Equal(t, http.StatusNotFound, w.Code)

		var body errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "no profile named `nobody`", body.Message)
	})

	t.Run("extra query rejected", func(t *testing.T) {
		t.Parallel()

		w := get(h, http.MethodGet, "/profile/ada?verbose=1", "Origin", "https://example.com")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "*", w.Header().Get(cors.HeaderAllowOrigin))

		var body errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unexpected query parameters found: `verbose`", body.Message)
		assert.False(t, body.Success)
	})

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		w := get(h, http.MethodOptions, "/profile/ada",
			"Origin", "https://example.com",
			"Access-Control-Request-Method", "GET",
		)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "3600", w.Header().Get(cors.HeaderMaxAge))
	})
}

func TestListEndpointStrict(t *testing.T) {
	t.Parallel()

	h := newServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantPage   uint
		wantFirst  string
		wantMsg    string
	}{
		{name: "defaults", target: "/profile", wantStatus: http.StatusOK, wantPage: 1, wantFirst: "ada.lovelace@example.com"},
		{name: "second page", target: "/profile?page=2", wantStatus: http.StatusOK, wantPage: 2},
		{
			name:       "sorted in declared order",
			target:     "/profile?page=1&sort_by=email&order_by=asc",
			wantStatus: http.StatusOK,
			wantPage:   1,
			wantFirst:  "ada.lovelace@example.com",
		},
		{
			name:       "empty page placeholder keeps order",
			target:     "/profile?page=&sort_by=email&order_by=desc",
			wantStatus: http.StatusOK,
			wantPage:   1,
			wantFirst:  "tony.hoare@example.com",
		},
		{
			name:       "out of order",
			target:     "/profile?sort_by=email&order_by=asc",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "expected `page`, found `sort_by`",
		},
		{
			name:       "sort without order",
			target:     "/profile?page=1&sort_by=email",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "missing field `order_by`",
		},
		{
			name:       "duplicate page",
			target:     "/profile?page=1&page=2",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "duplicate query parameters found: `page`",
		},
		{
			name:       "invalid page",
			target:     "/profile?page=two",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := get(h, http.MethodGet, tt.target)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				var body errorBody
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantStatus, body.StatusCode)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, body.Message)
				}
				return
			}

			var body listBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantPage, body.Data.Page)
			assert.Equal(t, 25, body.Data.Total)
			require.NotEmpty(t, body.Data.Results)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, body.Data.Results[0].Email)
			}
		})
	}

	t.Run("largest page is empty", func(t *testing.T) {
		t.Parallel()

		w := get(h, http.MethodGet, "/profile?page=18446744073709551615")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body listBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint(math.MaxUint), body.Data.Page)
		assert.Empty(t, body.Data.Results)
		assert.Nil(t, body.Data.Next)
		require.NotNil(t, body.Data.Previous)
		assert.Equal(t, uint(math.MaxUint-1), *body.Data.Previous)
	})
}

func TestListEndpointLenient(t *testing.T) {
	t.Parallel()

	h := newServer(t, profile.WithMode(binder.Lenient))

	w := get(h, http.MethodGet, "/profile?sort_by=email&order_by=asc&page=3&utm_source=x")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(3), body.Data.Page)
	assert.Len(t, body.Data.Results, 5)
	require.NotNil(t, body.Data.Previous)
	assert.Nil(t, body.Data.Next)
}

func TestRegisterTwiceFails(t *testing.T) {
	t.Parallel()

	dir, err := profile.Default()
	require.NoError(t, err)
	svc := profile.NewService(dir)

	r := router.New[*router.Context]()
	require.NoError(t, profile.Register(r, svc))
	assert.ErrorIs(t, profile.Register(r, svc), router.ErrRouteExists)
}
