package binder_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/response"
)

type requiredPage struct {
	Page    uint    `query:"page"`
	SortBy  *string `query:"sort_by"`
	OrderBy *string `query:"order_by"`
}

type optionalPage struct {
	Page    *uint   `query:"page"`
	SortBy  *string `query:"sort_by"`
	OrderBy *string `query:"order_by"`
}

type sortedQuery struct {
	SortBy  *string `query:"sort_by"`
	OrderBy *string `query:"order_by"`
}

func (q sortedQuery) Validate() error {
	if (q.SortBy == nil) != (q.OrderBy == nil) {
		return errors.New("`sort_by` and `order_by` must be provided together")
	}
	return nil
}

type forbiddenQuery struct {
	Name string `query:"name"`
}

func (q *forbiddenQuery) Validate() error {
	if q.Name == "root" {
		return response.NewError("forbidden name", http.StatusForbidden, response.CauseQuery)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestBindStrict(t *testing.T) {
	t.Parallel()

	t.Run("correct order", func(t *testing.T) {
		t.Parallel()

		q, err := binder.BindTo[profileQuery](nil, "page=1&sort_by=email&order_by=desc", binder.Strict)
		require.NoError(t, err)
		assert.Equal(t, profileQuery{Page: 1, SortBy: ptr("email"), OrderBy: ptr("desc")}, q)
	})

	t.Run("path capture with ordered query", func(t *testing.T) {
		t.Parallel()

		q, err := binder.BindTo[profileQuery](binder.Params{"page": "10"}, "sort_by=last_name&order_by=asc", binder.Strict)
		require.NoError(t, err)
		assert.Equal(t, profileQuery{Page: 10, SortBy: ptr("last_name"), OrderBy: ptr("asc")}, q)
	})

	t.Run("reordering rejected", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[profileQuery](binder.Params{"page": "10"}, "order_by=last_name&sort_by=asc", binder.Strict)
		require.Error(t, err)
		assert.ErrorIs(t, err, binder.ErrUnexpectedParam)
	})

	t.Run("optional fields absent", func(t *testing.T) {
		t.Parallel()

		q, err := binder.BindTo[optionalPage](nil, "?page=1", binder.Strict)
		require.NoError(t, err)
		require.NotNil(t, q.Page)
		assert.Equal(t, uint(1), *q.Page)
		assert.Nil(t, q.SortBy)
		assert.Nil(t, q.OrderBy)
	})

	t.Run("required field missing", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[requiredPage](nil, "", binder.Strict)
		require.Error(t, err)
		assert.ErrorIs(t, err, binder.ErrFailedToDecode)
		assert.Equal(t, "missing field `page`", err.Error())

		e := response.AsError(err)
		assert.Equal(t, http.StatusBadRequest, e.StatusCode())
		assert.Equal(t, response.CauseQuery, e.Cause)
	})

	t.Run("all optional and empty query", func(t *testing.T) {
		t.Parallel()

		q, err := binder.BindTo[optionalPage](nil, "", binder.Strict)
		require.NoError(t, err)
		assert.Equal(t, optionalPage{}, q)
	})

	t.Run("six fields missing one fails", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[manyFields](nil,
			"age=20&first_name=Foo&gender=male&last_name=Bar&email=foo%40example.com", binder.Strict)
		require.Error(t, err)
		assert.ErrorIs(t, err, binder.ErrUnexpectedParam)
		assert.Equal(t, "expected `date`, found `first_name`", err.Error())
	})
}

func TestBindLenient(t *testing.T) {
	t.Parallel()

	t.Run("ignores extras and order", func(t *testing.T) {
		t.Parallel()

		q, err := binder.BindTo[manyFields](
			binder.Params{"first_name": "Foo"},
			"last_name=Bar&gender=male&utm=1&first_name=Other&email=foo%40example.com&date=2021-01-01&age=20",
			binder.Lenient,
		)
		require.NoError(t, err)
		assert.Equal(t, manyFields{
			Age:       20,
			Date:      "2021-01-01",
			Email:     "foo@example.com",
			FirstName: "Foo",
			Gender:    "male",
			LastName:  "Bar",
		}, q)
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[manyFields](nil, "age=20", binder.Lenient)
		require.Error(t, err)
		assert.Equal(t, "missing field `date`", err.Error())
	})
}

func TestBindIdempotent(t *testing.T) {
	t.Parallel()

	for _, mode := range []binder.Mode{binder.Strict, binder.Lenient} {
		first, firstErr := binder.BindTo[profileQuery](binder.Params{"page": "2"}, "sort_by=email&order_by=asc", mode)
		second, secondErr := binder.BindTo[profileQuery](binder.Params{"page": "2"}, "sort_by=email&order_by=asc", mode)
		assert.Equal(t, first, second)
		assert.Equal(t, firstErr, secondErr)

		_, firstErr = binder.BindTo[profileQuery](nil, "order_by=asc&page=1", mode)
		_, secondErr = binder.BindTo[profileQuery](nil, "order_by=asc&page=1", mode)
		assert.Equal(t, firstErr, secondErr)
	}
}

func TestBindUnsupportedShapes(t *testing.T) {
	t.Parallel()

	for _, query := range []string{"", "a=1", "0=x&1=y"} {
		_, err := binder.BindTo[pairTarget](nil, query, binder.Lenient)
		assert.ErrorIs(t, err, binder.ErrUnsupportedShape)

		_, err = binder.BindTo[unitTarget](nil, query, binder.Strict)
		assert.ErrorIs(t, err, binder.ErrUnsupportedShape)

		_, err = binder.BindTo[unionTarget](nil, query, binder.Strict)
		assert.ErrorIs(t, err, binder.ErrUnsupportedShape)
	}
}

func TestBindInvalidTarget(t *testing.T) {
	t.Parallel()

	err := binder.Bind(profileQuery{}, nil, "", binder.Strict)
	assert.ErrorIs(t, err, binder.ErrInvalidTarget)

	var nilPtr *profileQuery
	err = binder.Bind(nilPtr, nil, "", binder.Strict)
	assert.ErrorIs(t, err, binder.ErrInvalidTarget)

	assert.Equal(t, http.StatusInternalServerError, response.AsError(err).StatusCode())
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("typed values", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		var v richTarget
		err := binder.Decode(&v, binder.Sequence{
			{Key: "id", Value: id.String()},
			{Key: "since", Value: since.Format(time.RFC3339)},
			{Key: "tags", Value: "go, web"},
			{Key: "tags", Value: "api"},
			{Key: "verbose", Value: "yes"},
			{Key: "name", Value: "Café\x00\r\n"},
		})
		require.NoError(t, err)

		assert.Equal(t, id, v.ID)
		require.NotNil(t, v.Since)
		assert.True(t, since.Equal(*v.Since))
		assert.Equal(t, []string{"go", "web", "api"}, v.Tags)
		assert.True(t, v.Verbose)
		assert.Equal(t, "Café", v.Name)
	})

	t.Run("optional tag allows absence", func(t *testing.T) {
		t.Parallel()

		var v richTarget
		err := binder.Decode(&v, binder.Sequence{
			{Key: "id", Value: uuid.Nil.String()},
			{Key: "name", Value: "x"},
		})
		require.NoError(t, err)
		assert.False(t, v.Verbose)
		assert.Nil(t, v.Since)
		assert.Nil(t, v.Tags)
	})

	tests := []struct {
		name    string
		seq     binder.Sequence
		message string
	}{
		{
			name:    "invalid number",
			seq:     binder.Sequence{{Key: "page", Value: "abc"}},
			message: "invalid value for field `page`: invalid uint value \"abc\"",
		},
		{
			name:    "negative number for unsigned",
			seq:     binder.Sequence{{Key: "page", Value: "-1"}},
			message: "invalid value for field `page`: invalid uint value \"-1\"",
		},
		{
			name:    "repeated scalar",
			seq:     binder.Sequence{{Key: "page", Value: "1"}, {Key: "page", Value: "2"}},
			message: "duplicate field `page`",
		},
		{
			name:    "unknown key",
			seq:     binder.Sequence{{Key: "limit", Value: "1"}},
			message: "unknown field `limit`, expected one of `page`, `sort_by`, `order_by`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orig := profileQuery{Page: 42}
			v := orig
			err := binder.Decode(&v, tt.seq)
			require.Error(t, err)
			assert.ErrorIs(t, err, binder.ErrFailedToDecode)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, orig, v, "target must stay untouched on failure")
		})
	}
}

func TestDecodeValidator(t *testing.T) {
	t.Parallel()

	t.Run("both or neither", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[sortedQuery](nil, "sort_by=email", binder.Strict)
		require.Error(t, err)
		assert.ErrorIs(t, err, binder.ErrFailedToDecode)
		assert.Equal(t, "`sort_by` and `order_by` must be provided together", err.Error())
		assert.Equal(t, http.StatusBadRequest, response.AsError(err).StatusCode())

		q, err := binder.BindTo[sortedQuery](nil, "sort_by=email&order_by=asc", binder.Strict)
		require.NoError(t, err)
		assert.Equal(t, "email", *q.SortBy)
	})

	t.Run("response error kept", func(t *testing.T) {
		t.Parallel()

		_, err := binder.BindTo[forbiddenQuery](nil, "name=root", binder.Strict)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, response.AsError(err).StatusCode())
	})
}

func TestQueryBinder(t *testing.T) {
	t.Parallel()

	bind := binder.Query(func(r *http.Request, name string) string {
		if name == "page" {
			return "5"
		}
		return ""
	}, binder.Strict)

	var q profileQuery
	req := httptest.NewRequest(http.MethodGet, "/profiles/5?sort_by=email&order_by=asc", nil)
	require.NoError(t, bind(req, &q))
	assert.Equal(t, profileQuery{Page: 5, SortBy: ptr("email"), OrderBy: ptr("asc")}, q)

	err := binder.FromRequest(&q, &http.Request{}, nil, binder.Strict)
	assert.ErrorIs(t, err, binder.ErrMissingURL)
	assert.Equal(t, response.CauseTransport, response.AsError(err).Cause)
}
