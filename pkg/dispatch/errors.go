package dispatch

import "errors"

var (
	ErrNoCandidateAccepted = errors.New("no candidate accepted")
	ErrNoCandidates        = errors.New("no candidates")
	ErrUnsupportedTarget   = errors.New("unsupported dispatch target")
	ErrNotFetchable        = errors.New("resource is not fetchable")
	ErrBlobNotFound        = errors.New("blob not found")
	ErrNavigationBlocked   = errors.New("navigation blocked")
	ErrClipboard           = errors.New("clipboard unavailable")
	ErrNilSink             = errors.New("dispatcher sink is nil")
)
