package binder

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Mode selects how query parameters are reconciled with path captures.
type Mode uint8

const (
	// Strict requires query parameters in declaration order, without
	// duplicates or unknown keys.
	Strict Mode = iota
	// Lenient picks the first occurrence of each missing field and ignores
	// everything else.
	Lenient
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// UnmarshalText parses "strict" or "lenient", case-insensitively.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "strict":
		*m = Strict
	case "lenient":
		*m = Lenient
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Sequence is the merged, schema-ordered list of pairs handed to the decoder.
// Each declared field appears at most once unless it is a list field.
type Sequence []Pair

// String returns the sequence in query string form.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return strings.Join(parts, "&")
}

// Get returns the value of the first pair with the given key.
func (s Sequence) Get(key string) (string, bool) {
	for _, p := range s {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Merge combines path pairs with the raw query string according to mode.
// Path values always win. Empty query values are treated as absent.
func Merge(s *Schema, path []Pair, rawQuery string, mode Mode) (Sequence, error) {
	working := slices.Clone(path)

	if strings.TrimPrefix(rawQuery, "?") != "" {
		var err error
		switch mode {
		case Lenient:
			working = mergeLenient(s, working, rawQuery)
		default:
			working, err = mergeStrict(s, working, rawQuery)
			if err != nil {
				return nil, err
			}
		}
	}

	slices.SortStableFunc(working, func(a, b Pair) int {
		return schemaIndex(s, a.Key) - schemaIndex(s, b.Key)
	})
	return Sequence(working), nil
}

func schemaIndex(s *Schema, key string) int {
	if i, ok := s.position[key]; ok {
		return i
	}
	return len(s.names)
}

func mergeStrict(s *Schema, path []Pair, rawQuery string) ([]Pair, error) {
	query, err := ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	// Query pairs repeating a path pair verbatim are folded into it
	query = slices.DeleteFunc(query, func(q Pair) bool {
		return slices.Contains(path, q)
	})

	combined := append(slices.Clone(path), query...)
	if dups := duplicatedKeys(s, combined); len(dups) > 0 {
		return nil, queryError(ErrDuplicateParams,
			"duplicate query parameters found: `%s`", strings.Join(dups, ", "))
	}

	if unknown := unrecognizedKeys(s, query); len(unknown) > 0 {
		return nil, queryError(ErrUnrecognizedParams,
			"unexpected query parameters found: `%s`", strings.Join(unknown, ", "))
	}

	// Query keys must follow the declared order of the fields the path
	// did not supply
	expected := make([]string, 0, len(s.names))
	for _, name := range s.names {
		if !slices.ContainsFunc(path, func(p Pair) bool { return p.Key == name }) {
			expected = append(expected, name)
		}
	}

	working := path
	for i, q := range query {
		if i >= len(expected) {
			break
		}
		if q.Key != expected[i] {
			return nil, queryError(ErrUnexpectedParam,
				"expected `%s`, found `%s`", expected[i], q.Key)
		}
		if q.Value != "" {
			working = append(working, Pair{Key: expected[i], Value: q.Value})
		}
	}
	return working, nil
}

// duplicatedKeys returns declared keys occurring more than once, in order
// of their second occurrence.
func duplicatedKeys(s *Schema, pairs []Pair) []string {
	seen := make(map[string]bool, len(pairs))
	var dups []string
	for _, p := range pairs {
		if !s.Has(p.Key) {
			continue
		}
		if seen[p.Key] && !slices.Contains(dups, p.Key) {
			dups = append(dups, p.Key)
		}
		seen[p.Key] = true
	}
	return dups
}

// unrecognizedKeys returns undeclared keys, deduplicated, in order of first occurrence.
func unrecognizedKeys(s *Schema, pairs []Pair) []string {
	var unknown []string
	for _, p := range pairs {
		if !s.Has(p.Key) && !slices.Contains(unknown, p.Key) {
			unknown = append(unknown, p.Key)
		}
	}
	return unknown
}

func mergeLenient(s *Schema, path []Pair, rawQuery string) []Pair {
	if len(path) == s.Len() {
		return path
	}

	tokens := strings.Split(strings.TrimPrefix(rawQuery, "?"), "&")
	working := path

	for _, name := range s.names {
		if slices.ContainsFunc(path, func(p Pair) bool { return p.Key == name }) {
			continue
		}
		if value, ok := firstValue(tokens, name); ok && value != "" {
			working = append(working, Pair{Key: name, Value: value})
		}
	}
	return working
}

// firstValue returns the value of the first well-formed "name=value" token.
// Bare flags and tokens that fail to unescape are skipped.
func firstValue(tokens []string, name string) (string, bool) {
	for _, token := range tokens {
		rawKey, rawValue, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key != name {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		return value, true
	}
	return "", false
}
