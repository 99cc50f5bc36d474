package binder

import (
	"net/url"
	"strings"
)

// Pair is a single decoded key/value entry.
type Pair struct {
	Key   string
	Value string
}

// String returns the pair in query string form.
func (p Pair) String() string {
	return url.QueryEscape(p.Key) + "=" + url.QueryEscape(p.Value)
}

// ParseQuery decodes a raw query string into pairs, preserving their order
// and duplicates. A key without "=" yields an empty value. A leading "?"
// is ignored.
func ParseQuery(raw string) ([]Pair, error) {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil, nil
	}

	var pairs []Pair
	for token := range strings.SplitSeq(raw, "&") {
		if token == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(token, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, queryError(ErrFailedToParseQuery, "invalid query string: %v", err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, queryError(ErrFailedToParseQuery, "invalid query string: %v", err)
		}

		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}
