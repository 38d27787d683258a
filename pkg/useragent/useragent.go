package useragent

import (
	"regexp"
	"strings"
)

var (
	mobileTokens = regexp.MustCompile(`(?i)Android|iPhone|iPad|iPod`)
	iosTokens    = regexp.MustCompile(`iPad|iPhone|iPod`)
)

// Profile is the derived device classification. It is never stored.
type Profile struct {
	IsMobile bool `json:"is_mobile"`
	IsIOS    bool `json:"is_ios"`
}

// SMSCapable reports whether sms: links are expected to open a messaging app.
func (p Profile) SMSCapable() bool {
	return p.IsMobile
}

// String implements fmt.Stringer for logging.
func (p Profile) String() string {
	switch {
	case p.IsIOS && p.IsMobile:
		return "ios-mobile"
	case p.IsIOS:
		return "ios"
	case p.IsMobile:
		return "mobile"
	default:
		return "desktop"
	}
}

// Classify derives a Profile from a User-Agent string and the number of
// simultaneous touch points the device reports.
// An empty User-Agent (non-browser client) yields the zero Profile.
func Classify(userAgent string, maxTouchPoints int) Profile {
	if userAgent == "" {
		return Profile{}
	}

	return Profile{
		IsMobile: mobileTokens.MatchString(userAgent),
		IsIOS: iosTokens.MatchString(userAgent) ||
			(strings.Contains(userAgent, "Mac") && maxTouchPoints > 1),
	}
}
