// Package payload builds everything the card hands to the visitor: the
// message template with its placeholders, messaging (sms:/smsto:) URLs, the
// follow-up calendar invite and the plain-text template download.
//
// Message templates keep unfilled placeholders verbatim:
//
//	msg := payload.Template(payload.DefaultMessage).Fill("Ada", "")
//	// "... this is Ada ([Your Email]) ..."
//
// Messaging URLs are percent-encoded so the body survives a round trip,
// line breaks included:
//
//	for _, link := range payload.SMSCandidates("+17084917521", msg, profile) {
//		fmt.Println(link.Scheme, link.URL)
//	}
//
// Calendar invites are single all-day events for "tomorrow" in the location
// of the supplied time:
//
//	ics := payload.Invite{Summary: "Follow up with Scott"}.Build(time.Now())
package payload
