package storage

import "errors"

var (
	ErrInvalidConfig       = errors.New("storage: invalid configuration")
	ErrUnsupportedLocation = errors.New("storage: unsupported location")
	ErrInvalidPath         = errors.New("storage: invalid path")
	ErrFileNotFound        = errors.New("storage: file not found")
	ErrFileTooLarge        = errors.New("storage: file too large")
	ErrAccessDenied        = errors.New("storage: access denied")
	ErrBucketNotFound      = errors.New("storage: bucket not found")
	ErrOperationTimeout    = errors.New("storage: operation timed out")
	ErrOperationCanceled   = errors.New("storage: operation canceled")
	ErrRequestTimeout      = errors.New("storage: request timeout")
	ErrServiceUnavailable  = errors.New("storage: service unavailable")
	ErrInvalidObjectState  = errors.New("storage: invalid object state")
)
