package binder_test

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/response"
)

func TestMergeStrict(t *testing.T) {
	t.Parallel()

	s, err := binder.SchemaOf(reflect.TypeFor[profileQuery]())
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    []binder.Pair
		query   string
		want    binder.Sequence
		wantErr error
		message string
	}{
		{
			name:  "declaration order",
			query: "page=1&sort_by=email&order_by=desc",
			want:  binder.Sequence{{Key: "page", Value: "1"}, {Key: "sort_by", Value: "email"}, {Key: "order_by", Value: "desc"}},
		},
		{
			name:  "path supplies first field",
			path:  []binder.Pair{{Key: "page", Value: "10"}},
			query: "sort_by=last_name&order_by=asc",
			want:  binder.Sequence{{Key: "page", Value: "10"}, {Key: "sort_by", Value: "last_name"}, {Key: "order_by", Value: "asc"}},
		},
		{
			name:    "reordered after path capture",
			path:    []binder.Pair{{Key: "page", Value: "10"}},
			query:   "order_by=last_name&sort_by=asc",
			wantErr: binder.ErrUnexpectedParam,
			message: "expected `sort_by`, found `order_by`",
		},
		{
			name:    "reordered",
			query:   "sort_by=email&page=1",
			wantErr: binder.ErrUnexpectedParam,
			message: "expected `page`, found `sort_by`",
		},
		{
			name:  "prefix of fields",
			query: "page=1",
			want:  binder.Sequence{{Key: "page", Value: "1"}},
		},
		{
			name:  "empty values are absent",
			query: "page=1&sort_by=&order_by=desc",
			want:  binder.Sequence{{Key: "page", Value: "1"}, {Key: "order_by", Value: "desc"}},
		},
		{
			name:    "duplicate in query",
			query:   "page=1&page=2",
			wantErr: binder.ErrDuplicateParams,
			message: "duplicate query parameters found: `page`",
		},
		{
			name:    "path value repeated with another value",
			path:    []binder.Pair{{Key: "page", Value: "10"}},
			query:   "page=2&sort_by=email",
			wantErr: binder.ErrDuplicateParams,
			message: "duplicate query parameters found: `page`",
		},
		{
			name:  "path value repeated verbatim is folded",
			path:  []binder.Pair{{Key: "page", Value: "10"}},
			query: "page=10&sort_by=email",
			want:  binder.Sequence{{Key: "page", Value: "10"}, {Key: "sort_by", Value: "email"}},
		},
		{
			name:    "several duplicates",
			query:   "page=1&sort_by=a&page=2&sort_by=b",
			wantErr: binder.ErrDuplicateParams,
			message: "duplicate query parameters found: `page, sort_by`",
		},
		{
			name:    "unknown keys deduplicated",
			query:   "page=1&debug=1&trace=1&debug=2",
			wantErr: binder.ErrUnrecognizedParams,
			message: "unexpected query parameters found: `debug, trace`",
		},
		{
			name:  "empty query keeps path",
			path:  []binder.Pair{{Key: "page", Value: "3"}},
			query: "",
			want:  binder.Sequence{{Key: "page", Value: "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := binder.Merge(s, tt.path, tt.query, binder.Strict)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				e := response.AsError(err)
				assert.Equal(t, tt.message, e.Message)
				assert.Equal(t, http.StatusBadRequest, e.StatusCode())
				assert.Equal(t, response.CauseQuery, e.Cause)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeLenient(t *testing.T) {
	t.Parallel()

	s, err := binder.SchemaOf(reflect.TypeFor[manyFields]())
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  []binder.Pair
		query string
		want  binder.Sequence
	}{
		{
			name:  "any order sorted by schema",
			query: "last_name=Bar&age=20&email=foo%40example.com",
			want: binder.Sequence{
				{Key: "age", Value: "20"},
				{Key: "email", Value: "foo@example.com"},
				{Key: "last_name", Value: "Bar"},
			},
		},
		{
			name:  "first occurrence wins",
			query: "age=20&age=30",
			want:  binder.Sequence{{Key: "age", Value: "20"}},
		},
		{
			name:  "path wins over query",
			path:  []binder.Pair{{Key: "first_name", Value: "Path"}},
			query: "first_name=Query&gender=female",
			want:  binder.Sequence{{Key: "first_name", Value: "Path"}, {Key: "gender", Value: "female"}},
		},
		{
			name:  "extras ignored",
			query: "utm_source=x&date=2021-01-01&debug",
			want:  binder.Sequence{{Key: "date", Value: "2021-01-01"}},
		},
		{
			name:  "token boundary anchoring",
			query: "email=page%3Dage=5&gender=x",
			want:  binder.Sequence{{Key: "email", Value: "page=age=5"}, {Key: "gender", Value: "x"}},
		},
		{
			name:  "key suffix does not match",
			query: "stage=5",
		},
		{
			name:  "bare flag skipped",
			query: "age&age=7",
			want:  binder.Sequence{{Key: "age", Value: "7"}},
		},
		{
			name:  "empty value is absent",
			query: "age=&gender=male",
			want:  binder.Sequence{{Key: "gender", Value: "male"}},
		},
		{
			name:  "malformed escape ignored",
			query: "age=%zz&gender=male",
			want:  binder.Sequence{{Key: "gender", Value: "male"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := binder.Merge(s, tt.path, tt.query, binder.Lenient)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeLenientSkipsScanWhenPathComplete(t *testing.T) {
	t.Parallel()

	s, err := binder.SchemaOf(reflect.TypeFor[profileQuery]())
	require.NoError(t, err)

	path := []binder.Pair{
		{Key: "order_by", Value: "asc"},
		{Key: "page", Value: "1"},
		{Key: "sort_by", Value: "email"},
	}

	got, err := binder.Merge(s, path, "page=9&unknown=1", binder.Lenient)
	require.NoError(t, err)
	assert.Equal(t, binder.Sequence{
		{Key: "page", Value: "1"},
		{Key: "sort_by", Value: "email"},
		{Key: "order_by", Value: "asc"},
	}, got)
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "strict", binder.Strict.String())
	assert.Equal(t, "lenient", binder.Lenient.String())
	assert.Equal(t, "unknown", binder.Mode(9).String())
}

func TestModeUnmarshalText(t *testing.T) {
	t.Parallel()

	var m binder.Mode
	require.NoError(t, m.UnmarshalText([]byte("Lenient")))
	assert.Equal(t, binder.Lenient, m)

	require.NoError(t, m.UnmarshalText([]byte("strict")))
	assert.Equal(t, binder.Strict, m)

	assert.ErrorIs(t, m.UnmarshalText([]byte("loose")), binder.ErrUnknownMode)

	text, err := binder.Lenient.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lenient", string(text))
}
