// Package handler defines the request processing contracts shared by the
// router, the binder adapters and the middleware packages.
//
// A handler never writes to the connection directly. It returns a Response,
// a deferred rendering function that the router executes after middleware
// has had a chance to decorate it:
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc[C Context] func(ctx C) Response
//	type ErrorHandler[C Context] func(ctx C, err error)
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// Handlers that need typed input from the URL use QueryHandlerFunc. The router
// binds the path captures and query string into T and only invokes the handler
// when binding succeeds:
//
//	type ListProfiles struct {
//		Page    *uint   `query:"page"`
//		SortBy  *string `query:"sort_by"`
//		OrderBy *string `query:"order_by"`
//	}
//
//	func list(ctx *router.Context, q ListProfiles) handler.Response {
//		return response.JSON(store.List(q))
//	}
//
//	r.Get("/profile", router.Query(list))
//
// Context extends context.Context with access to the request, the response
// writer and the path captures produced by the router. Custom context types
// are supported through the router's context factory option.
package handler
