// Package handler defines the typed handler contract shared by the router,
// middleware and response packages.
//
// A HandlerFunc receives a request Context and returns a Response. The
// Response renders itself onto the writer and returns an error instead of
// writing error pages, so failures are funnelled into one ErrorHandler:
//
//	func card(ctx *app.Context) handler.Response {
//		if ctx.Param("id") == "" {
//			return response.Error(response.ErrBadRequest)
//		}
//		return response.JSON(state)
//	}
//
// Middleware wraps a HandlerFunc and returns another, keeping the context
// type fixed across the chain.
package handler
