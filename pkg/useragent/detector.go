package useragent

import (
	"net/http"
	"strconv"
	"strings"
)

// Request header and form field names carrying device signals.
const (
	HeaderMobileHint     = "Sec-CH-UA-Mobile"
	HeaderPlatformHint   = "Sec-CH-UA-Platform"
	HeaderMaxTouchPoints = "X-Max-Touch-Points"
	FieldMaxTouchPoints  = "touch_points"
)

// Signals is everything a Detector may look at.
type Signals struct {
	UserAgent      string
	MaxTouchPoints int
	// Mobile is the Sec-CH-UA-Mobile hint, nil when the browser did not send it.
	Mobile *bool
	// Platform is the unquoted Sec-CH-UA-Platform hint.
	Platform string
}

// Detector turns device signals into a Profile.
type Detector interface {
	Detect(s Signals) Profile
}

// DetectorFunc adapts an ordinary function to the Detector interface.
type DetectorFunc func(s Signals) Profile

// Detect calls f(s).
func (f DetectorFunc) Detect(s Signals) Profile {
	return f(s)
}

// Sniffer matches tokens in the User-Agent string. See Classify.
type Sniffer struct{}

// Detect implements Detector.
func (Sniffer) Detect(s Signals) Profile {
	return Classify(s.UserAgent, s.MaxTouchPoints)
}

// Hints uses User-Agent Client Hints when present.
// Without a mobile hint the decision is delegated to Fallback (Sniffer when nil).
type Hints struct {
	Fallback Detector
}

// Detect implements Detector.
func (h Hints) Detect(s Signals) Profile {
	fallback := h.Fallback
	if fallback == nil {
		fallback = Sniffer{}
	}
	if s.Mobile == nil {
		return fallback.Detect(s)
	}

	p := Profile{IsMobile: *s.Mobile}
	switch strings.ToLower(s.Platform) {
	case "ios", "ipados":
		p.IsIOS = true
	case "":
		p.IsIOS = fallback.Detect(s).IsIOS
	}
	return p
}

// SignalsFromRequest collects device signals from an HTTP request.
// The touch point count comes from the page script as a header or a query
// value; malformed values count as zero. The body is never read, so handlers
// keep their own form parsing and its errors.
func SignalsFromRequest(r *http.Request) Signals {
	s := Signals{
		UserAgent: r.UserAgent(),
		Platform:  strings.Trim(r.Header.Get(HeaderPlatformHint), `" `),
	}

	switch strings.TrimSpace(r.Header.Get(HeaderMobileHint)) {
	case "?1":
		v := true
		s.Mobile = &v
	case "?0":
		v := false
		s.Mobile = &v
	}

	raw := r.Header.Get(HeaderMaxTouchPoints)
	if raw == "" {
		raw = r.URL.Query().Get(FieldMaxTouchPoints)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		s.MaxTouchPoints = n
	}

	return s
}
