package contactcard

import "errors"

var (
	ErrUnknownVariant = errors.New("unknown card variant")
	ErrSessionClosed  = errors.New("session is closed")
	ErrNilDispatcher  = errors.New("dispatcher is nil")
	ErrInvalidDetail  = errors.New("invalid contact detail")
	ErrInputTooLong   = errors.New("input too long")
)
