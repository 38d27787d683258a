// Package response builds handler.Response values: text, JSON, templates,
// attachments and redirects, plus the error handlers that turn returned
// errors into HTTP replies.
//
// Handlers return errors instead of writing error pages:
//
//	func blob(ctx *card.Context) handler.Response {
//		f, err := store.Get(ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.WithCache(response.Attachment(f.Data, f.Name, f.ContentType), 0)
//	}
//
// ErrorHandler and JSONErrorHandler map HTTPError values directly and any
// error with a StatusCode method onto the matching predefined HTTPError.
// Everything else becomes a 500 with the cause in Details.
package response
