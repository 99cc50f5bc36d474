// Package router is the dispatch table: it registers typed handlers on
// top of chi and synthesizes CORS preflight handlers for route groups.
//
// # Basic Usage
//
//	r := router.New[*router.Context]()
//
//	r.Get("/health", func(ctx *router.Context) handler.Response {
//		return response.NoContent()
//	})
//
//	http.ListenAndServe(":8080", r)
//
// Path patterns use chi syntax ("/users/{id}"); captures are available
// through ctx.Param.
//
// # Typed Query Handlers
//
// Query binds path captures and the query string into a struct before the
// handler runs. Binding errors never reach the handler; they are rendered
// by the router's error handler.
//
//	type ListQuery struct {
//		Page    uint    `query:"page"`
//		SortBy  *string `query:"sort_by"`
//		OrderBy *string `query:"order_by"`
//	}
//
//	r.Get("/profile", router.Query(func(ctx *router.Context, q ListQuery) handler.Response {
//		return response.JSON(list(q))
//	}))
//
// QueryWithMode selects binder.Lenient instead of the default strict mode.
//
// # Route Groups
//
// A RouteGroup serves one handler for several methods with an optional
// CORS policy. With Wrap set, a preflight OPTIONS handler is registered
// after the last method:
//
//	r.MustRegister(router.RouteGroup[*router.Context]{
//		Pattern: "/profile/{name}",
//		Methods: []string{"GET", "POST"},
//		Handler: profileHandler,
//		CORS:    cors.Permissive(),
//		Wrap:    true,
//	})
//
// The method "all" expands to DELETE, GET, HEAD, PATCH, POST, PUT and
// OPTIONS. Registering a method twice for the same pattern fails.
//
// # Middleware
//
// Middleware must be added with Use before any route is registered.
// With and Group create inline routers sharing the same routing table;
// Route creates a sub-router under a pattern prefix.
//
// # Error Handling
//
// Handler errors, nil responses, recovered panics, unknown routes and
// unsupported methods all go to the error handler, response.ErrorHandler
// by default. Errors raised after the response has started are logged
// and dropped.
package router
