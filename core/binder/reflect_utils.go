package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// parseFieldTag extracts the parameter name from struct tags and determines if the field should be skipped.
// If no tag is present, it defaults to the lowercase field name.
// The "optional" tag option marks a scalar field that may be absent.
func parseFieldTag(field reflect.StructField, tagName string) (paramName string, optional, skip bool) {
	tag := field.Tag.Get(tagName)
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "optional" {
			optional = true
		}
	}

	return name, optional, false
}

// setFieldValue sets the field value from string values.
func setFieldValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	if len(values) == 0 {
		return nil
	}

	// Text unmarshalers (uuid.UUID, time.Time, ...) parse themselves
	if fieldType.Kind() != reflect.Pointer && isTextUnmarshaler(fieldType) {
		u, ok := field.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("unsupported type %s", fieldType)
		}
		if err := u.UnmarshalText([]byte(values[0])); err != nil {
			return fmt.Errorf("invalid %s value %q", fieldType, values[0])
		}
		return nil
	}

	// Dereference pointers, creating new instances for nil pointers
	if fieldType.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return setFieldValue(field.Elem(), fieldType.Elem(), values)
	}

	// Process slice types with multiple values or comma-separated values
	if fieldType.Kind() == reflect.Slice {
		return setSliceValue(field, fieldType, values)
	}

	value := values[0]

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(sanitizeStringValue(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			// Accept common boolean representations for user-friendly parsing
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no":
				b = false
			default:
				return fmt.Errorf("invalid bool value %q", value)
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", fieldType.Kind())
	}

	return nil
}

// setSliceValue sets slice field values from string values.
func setSliceValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	elemType := fieldType.Elem()

	// Handle both repeated keys and comma-separated values in a single key
	var allValues []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				allValues = append(allValues, part)
			}
		}
	}

	slice := reflect.MakeSlice(fieldType, len(allValues), len(allValues))

	for i, value := range allValues {
		if err := setFieldValue(slice.Index(i), elemType, []string{value}); err != nil {
			return err
		}
	}

	field.Set(slice)
	return nil
}

// sanitizeStringValue removes dangerous characters that could be used in injection attacks.
// It prevents CRLF injection, null byte attacks, and filters invalid Unicode sequences.
// The result is NFC-normalized so equal text compares equal.
func sanitizeStringValue(value string) string {
	value = strings.ReplaceAll(value, "\x00", "")

	// Strip carriage return and line feed to prevent HTTP header injection
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\n", "")

	var builder strings.Builder
	builder.Grow(len(value))

	for _, r := range value {
		if r == utf8.RuneError {
			continue
		}
		if r == '\t' || unicode.IsGraphic(r) {
			builder.WriteRune(r)
		}
	}

	return norm.NFC.String(builder.String())
}
