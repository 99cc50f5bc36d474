package binder

import (
	"encoding"
	"reflect"
	"slices"
	"sync"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// schemaCache holds one entry per target type. Shapes never change at
// runtime, so entries are written once and only read afterwards.
var schemaCache sync.Map // reflect.Type -> schemaEntry

type schemaEntry struct {
	schema *Schema
	err    error
}

// field describes a single bindable struct field.
type field struct {
	name     string
	index    int
	typ      reflect.Type
	optional bool
}

// Schema is the ordered, fixed list of fields a target type declares.
// It is immutable and safe for concurrent use.
type Schema struct {
	typ      reflect.Type
	fields   []field
	names    []string
	position map[string]int
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	return slices.Clone(s.names)
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.names)
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.position[name]
	return ok
}

// Position returns the declaration index of name.
func (s *Schema) Position(name string) (int, bool) {
	i, ok := s.position[name]
	return i, ok
}

// Type returns the struct type the schema was derived from.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// Fields returns the ordered field names of the struct v points to
// (or of v itself when it is a struct value).
func Fields(v any) ([]string, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s, err := SchemaOf(t)
	if err != nil {
		return nil, err
	}
	return s.Fields(), nil
}

// SchemaOf returns the schema for t, deriving and caching it on first use.
// Only structs with at least one bindable named field are accepted.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, targetError("target must be a pointer to a struct, got nil")
	}
	if cached, ok := schemaCache.Load(t); ok {
		entry := cached.(schemaEntry)
		return entry.schema, entry.err
	}

	s, err := buildSchema(t)
	actual, _ := schemaCache.LoadOrStore(t, schemaEntry{schema: s, err: err})
	entry := actual.(schemaEntry)
	return entry.schema, entry.err
}

func buildSchema(t reflect.Type) (*Schema, error) {
	name := typeName(t)

	switch t.Kind() {
	case reflect.Struct:
	case reflect.Array, reflect.Slice:
		return nil, schemaError("`%s` tuple type is not supported for `Query`", name)
	case reflect.Interface:
		return nil, schemaError("`%s` union type is not supported for `Query`", name)
	case reflect.Pointer:
		return nil, targetError("`%s` target must be a pointer to a struct", name)
	default:
		return nil, schemaError("`%s` newtype is not supported for `Query`", name)
	}

	s := &Schema{
		typ:      t,
		position: make(map[string]int, t.NumField()),
	}

	for i := range t.NumField() {
		sf := t.Field(i)

		// Skip unexported fields that reflection cannot modify
		if !sf.IsExported() {
			continue
		}

		paramName, optional, skip := parseFieldTag(sf, "query")
		if skip {
			continue
		}

		if !supportedFieldType(sf.Type) {
			return nil, schemaError("`%s.%s` nested type is not supported for `Query`", name, sf.Name)
		}

		if _, exists := s.position[paramName]; exists {
			return nil, schemaError("`%s` declares field `%s` more than once", name, paramName)
		}

		s.position[paramName] = len(s.names)
		s.names = append(s.names, paramName)
		s.fields = append(s.fields, field{
			name:     paramName,
			index:    i,
			typ:      sf.Type,
			optional: optional || isOptionalKind(sf.Type),
		})
	}

	if len(s.names) == 0 {
		return nil, schemaError("`%s` unit struct is not supported for `Query`", name)
	}

	return s, nil
}

func typeName(t reflect.Type) string {
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}

// isOptionalKind reports whether absence of the field resolves to its
// empty representation instead of a missing-field error.
func isOptionalKind(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice
}

// supportedFieldType reports whether t is a flat value: a scalar, a text
// unmarshaler, or a pointer or slice of those.
func supportedFieldType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer:
		return t.Elem().Kind() != reflect.Pointer && t.Elem().Kind() != reflect.Slice && isScalar(t.Elem())
	case reflect.Slice:
		return isScalar(t.Elem())
	default:
		return isScalar(t)
	}
}

func isScalar(t reflect.Type) bool {
	if isTextUnmarshaler(t) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isTextUnmarshaler(t reflect.Type) bool {
	return t.Implements(textUnmarshalerType) || reflect.PointerTo(t).Implements(textUnmarshalerType)
}
