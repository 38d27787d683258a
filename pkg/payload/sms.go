package payload

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

// Scheme is one way of spelling a messaging URL.
type Scheme string

// Supported messaging URL variants.
const (
	// SchemeIOS separates recipient and body with "&", which iOS requires.
	SchemeIOS Scheme = "sms-ios"
	// SchemeGeneric is the common "sms:<recipient>?body=" form.
	SchemeGeneric Scheme = "sms"
	// SchemeSMSTo is the alternate scheme some Android builds prefer.
	SchemeSMSTo Scheme = "smsto"
)

// EncodeComponent percent-encodes s for use inside a URL query value the
// way browsers encode a URI component: spaces become %20, never "+".
func EncodeComponent(s string) string {
	// QueryEscape turns a literal "+" into %2B, so every remaining "+" is a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SMSURL builds a messaging URL for recipient carrying body.
func SMSURL(recipient, body string, scheme Scheme) (string, error) {
	encoded := EncodeComponent(body)
	switch scheme {
	case SchemeIOS:
		return "sms:" + recipient + "&body=" + encoded, nil
	case SchemeGeneric:
		return "sms:" + recipient + "?body=" + encoded, nil
	case SchemeSMSTo:
		return "smsto:" + recipient + "?body=" + encoded, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// SchemeFor returns the platform-aware scheme for a device profile.
func SchemeFor(p useragent.Profile) Scheme {
	if p.IsIOS {
		return SchemeIOS
	}
	return SchemeGeneric
}

// SMSLink is a candidate messaging URL together with the variant that produced it.
type SMSLink struct {
	Scheme Scheme
	URL    string
}

// SMSCandidates returns the ordered messaging URLs to try for a profile:
// platform-aware separator first, then the generic "?" form, then smsto:.
func SMSCandidates(recipient, body string, p useragent.Profile) []SMSLink {
	schemes := []Scheme{SchemeFor(p), SchemeGeneric, SchemeSMSTo}
	links := make([]SMSLink, 0, len(schemes))
	for _, s := range schemes {
		u, _ := SMSURL(recipient, body, s) // schemes above are all known
		links = append(links, SMSLink{Scheme: s, URL: u})
	}
	return links
}

// BodyFromURL extracts and decodes the body parameter of a messaging URL
// built by SMSURL, whichever separator it uses.
func BodyFromURL(rawURL string) (string, error) {
	i := strings.Index(rawURL, "body=")
	if i < 0 || (i > 0 && rawURL[i-1] != '?' && rawURL[i-1] != '&') {
		return "", ErrNoBody
	}
	encoded := rawURL[i+len("body="):]
	if j := strings.IndexByte(encoded, '&'); j >= 0 {
		encoded = encoded[:j]
	}
	body, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return body, nil
}
