// Package binder binds path captures and query string parameters into
// typed Go structs.
//
// A target is a flat struct whose exported fields are named by the
// "query" struct tag (defaulting to the lower-cased field name). Field
// order is significant: it is the order strict mode expects parameters in.
//
//	type ListQuery struct {
//		Page    uint32  `query:"page"`
//		SortBy  *string `query:"sort_by"`
//		OrderBy *string `query:"order_by"`
//	}
//
// Pointer and slice fields are optional, as is any field tagged with the
// "optional" option. All other fields are required.
//
// # Sources and precedence
//
// Values come from two sources. Path captures are collected first, one
// per declared field, and always win. The query string then fills the
// remaining fields according to the Mode:
//
//   - Strict rejects duplicated declared keys, unknown keys, and keys that
//     are out of declaration order.
//   - Lenient takes the first "key=value" occurrence of each missing field
//     and ignores everything else.
//
// In both modes an empty value is treated as absent.
//
// # Usage
//
//	bind := binder.Query(chi.URLParam, binder.Strict)
//
//	r.Get("/profiles/{page}", func(w http.ResponseWriter, r *http.Request) {
//		var q ListQuery
//		if err := bind(r, &q); err != nil {
//			response.AsError(err).Render(w, r)
//			return
//		}
//	})
//
// Targets implementing Validator are checked after decoding. The target is
// only modified when decoding and validation both succeed.
//
// # Errors
//
// Every error is a response.Error with cause response.CauseQuery wrapping
// one of the package sentinels:
//
//	switch {
//	case errors.Is(err, binder.ErrDuplicateParams):
//	case errors.Is(err, binder.ErrUnrecognizedParams):
//	case errors.Is(err, binder.ErrUnexpectedParam):
//	case errors.Is(err, binder.ErrFailedToDecode):
//	case errors.Is(err, binder.ErrUnsupportedShape): // 500, a programming error
//	}
//
// Unsupported target shapes (slices and arrays, structs without bindable
// fields, interfaces, named scalars, nested structs and maps) are rejected
// with a 500 because they indicate a programming error rather than bad
// client input.
package binder
