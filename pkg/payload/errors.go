package payload

import "errors"

var (
	ErrUnknownScheme = errors.New("unknown messaging scheme")
	ErrNoBody        = errors.New("messaging url has no body parameter")
)
