package health

import (
	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/response"
)

// Liveness reports that the process is serving requests.
func Liveness[C handler.Context](C) handler.Response {
	return response.WithCache(response.String("ALIVE"), 0)
}
