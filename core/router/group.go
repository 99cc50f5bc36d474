package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/handler"
)

// MethodAll expands to every supported method.
const MethodAll = "all"

// RouteGroup describes one handler served under a pattern for a set of
// methods, with an optional CORS policy.
type RouteGroup[C handler.Context] struct {
	// Pattern is a chi route pattern, e.g. "/profile/{name}".
	Pattern string

	// Methods are case-insensitive HTTP verbs, or the single value "all".
	Methods []string

	Handler handler.HandlerFunc[C]

	// CORS, when set, is applied to every response of the group,
	// including error responses.
	CORS *cors.Policy

	// Wrap registers a preflight OPTIONS handler after the last method.
	// Requires CORS.
	Wrap bool
}

// Step is a single registration produced by RouteGroup.Plan.
type Step[C handler.Context] struct {
	Method    string
	Preflight bool
	Handler   handler.HandlerFunc[C]
}

// Plan validates the group and returns its registration chain: one step
// per method in declaration order, followed by a single preflight step
// when Wrap is set. With "all", the preflight replaces the OPTIONS handler.
func (g RouteGroup[C]) Plan() ([]Step[C], error) {
	if len(g.Pattern) == 0 || g.Pattern[0] != '/' {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidPattern, g.Pattern)
	}
	if g.Handler == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilHandler, g.Pattern)
	}

	methods, all, err := expandMethods(g.Methods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Pattern, err)
	}

	if g.Wrap {
		if g.CORS == nil {
			return nil, fmt.Errorf("%s: %w", g.Pattern, ErrWrapWithoutCORS)
		}
		if !all && slices.Contains(methods, http.MethodOptions) {
			return nil, fmt.Errorf("%s: %w", g.Pattern, ErrPreflightConflict)
		}
	}

	h := g.Handler
	if g.CORS != nil {
		h = withCORS(g.CORS, h)
	}

	steps := make([]Step[C], 0, len(methods)+1)
	for _, method := range methods {
		if all && g.Wrap && method == http.MethodOptions {
			continue
		}
		steps = append(steps, Step[C]{Method: method, Handler: h})
	}

	if g.Wrap {
		steps = append(steps, Step[C]{
			Method:    http.MethodOptions,
			Preflight: true,
			Handler:   preflight[C](g.CORS),
		})
	}

	return steps, nil
}

// expandMethods normalizes verbs and expands "all". It reports whether
// "all" was used.
func expandMethods(declared []string) ([]string, bool, error) {
	if len(declared) == 0 {
		return nil, false, ErrNoMethods
	}

	methods := make([]string, 0, len(declared))
	all := false
	for _, m := range declared {
		name := strings.TrimSpace(m)
		if strings.EqualFold(name, MethodAll) {
			all = true
			continue
		}

		name = strings.ToUpper(name)
		if !slices.Contains(supportedMethods, name) {
			return nil, false, fmt.Errorf("%w: %s", ErrInvalidMethod, m)
		}
		if slices.Contains(methods, name) {
			return nil, false, fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
		}
		methods = append(methods, name)
	}

	if all {
		if len(declared) > 1 {
			return nil, false, ErrMixedAll
		}
		return slices.Clone(supportedMethods), true, nil
	}

	return methods, false, nil
}

// withCORS applies the policy headers before the handler runs, so error
// responses rendered later carry them too.
func withCORS[C handler.Context](policy *cors.Policy, next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		policy.Apply(ctx.ResponseWriter().Header(), ctx.Request().Header.Get("Origin"))
		return next(ctx)
	}
}

func preflight[C handler.Context](policy *cors.Policy) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return policy.Preflight()
	}
}
