// Package router maps HTTP requests onto typed handlers.
//
// Patterns use net/http.ServeMux syntax, so wildcards ("/blobs/{id}") and
// exact matches ("/{$}") behave as documented there. The router adds a
// custom context type, middleware, error handling and panic recovery:
//
//	r := router.New[*router.Context]()
//	r.Use(logging)
//	r.Get("/blobs/{id}", func(ctx *router.Context) handler.Response {
//		return response.String("blob " + ctx.Param("id"))
//	})
//	http.ListenAndServe(":8080", r)
//
// Unknown paths reach the error handler as ErrNotFound and known paths hit
// with the wrong method as ErrMethodNotAllowed, with the Allow header set.
// A panicking handler is reported as a PanicError.
package router
