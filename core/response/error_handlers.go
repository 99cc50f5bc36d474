package response

import (
	"errors"

	"github.com/dmitrymomot/querybind/core/handler"
)

// ErrorHandler is the default error handler.
// Errors implementing Renderer render themselves; every other error is
// converted with AsError and rendered according to the Accept header.
func ErrorHandler[C handler.Context](ctx C, err error) {
	var renderer Renderer
	if errors.As(err, &renderer) {
		Render(ctx, renderer.Render)
		return
	}
	Render(ctx, AsError(err).Render)
}
