package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrymomot/querybind/core/response"
)

// Validator is implemented by targets that check cross-field rules after
// decoding. A returned response.Error is surfaced unchanged; any other
// error becomes a 400 with its message.
type Validator interface {
	Validate() error
}

// Decode decodes seq into the struct v points to. On failure v is left
// untouched.
func Decode(v any, seq Sequence) error {
	rv, s, err := target(v)
	if err != nil {
		return err
	}
	return decodeInto(rv, s, seq)
}

// target resolves v to an addressable struct value and its schema.
func target(v any) (reflect.Value, *Schema, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, nil, targetError("target must be a non-nil pointer, got %T", v)
	}

	rv = rv.Elem()
	s, err := SchemaOf(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, s, nil
}

func decodeInto(rv reflect.Value, s *Schema, seq Sequence) error {
	values := make(map[string][]string, len(seq))
	for _, p := range seq {
		if !s.Has(p.Key) {
			return decodeError(nil, "unknown field `%s`, expected one of %s", p.Key, quoteNames(s.names))
		}
		values[p.Key] = append(values[p.Key], p.Value)
	}

	fresh := reflect.New(s.typ).Elem()
	for _, f := range s.fields {
		vals, ok := values[f.name]
		if !ok {
			if f.optional {
				continue
			}
			return decodeError(nil, "missing field `%s`", f.name)
		}

		if len(vals) > 1 && f.typ.Kind() != reflect.Slice {
			return decodeError(nil, "duplicate field `%s`", f.name)
		}

		if err := setFieldValue(fresh.Field(f.index), f.typ, vals); err != nil {
			return decodeError(err, "invalid value for field `%s`: %v", f.name, err)
		}
	}

	if validator, ok := fresh.Addr().Interface().(Validator); ok {
		if err := validator.Validate(); err != nil {
			var e response.Error
			if errors.As(err, &e) {
				return e
			}
			return decodeError(err, "%s", err.Error())
		}
	}

	rv.Set(fresh)
	return nil
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("`%s`", n)
	}
	return strings.Join(quoted, ", ")
}
