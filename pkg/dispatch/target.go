package dispatch

import "github.com/dmitrymomot/contactcard/pkg/payload"

// Target is one thing the dispatcher can do for the visitor.
// The set is closed: Download, Inline, Navigate and Copy.
type Target interface {
	kind() Kind
}

// Kind names a target or a recorded action.
type Kind string

const (
	KindDownload Kind = "download"
	KindNavigate Kind = "navigate"
	KindCopy     Kind = "copy"
)

// Download saves the resource at URL under Filename.
type Download struct {
	URL      string
	Filename string
}

// Inline saves an in-memory payload, such as a generated calendar invite.
type Inline struct {
	File payload.File
}

// Navigate hands the current page over to a scheme URL (sms:, smsto:).
type Navigate struct {
	URL string
}

// Copy writes Text to the clipboard.
type Copy struct {
	Text string
}

func (Download) kind() Kind { return KindDownload }
func (Inline) kind() Kind   { return KindDownload }
func (Navigate) kind() Kind { return KindNavigate }
func (Copy) kind() Kind     { return KindCopy }
