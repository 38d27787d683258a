package payload

import (
	"strings"
	"time"
)

const (
	// DateFormat is the compact calendar-date form used for all-day events.
	DateFormat = "20060102"
	// StampFormat is the compact UTC date-time form; it always ends in "Z".
	StampFormat = "20060102T150405Z"

	icalLineLimit = 75
	icalProductID = "-//contactcard//follow-up invite//EN"
)

// Invite describes the follow-up calendar event offered to desktop visitors.
type Invite struct {
	Summary     string
	Description string
	// Domain is appended to the UID to make it globally unique.
	Domain string
}

// Event is the resolved all-day event an Invite produces for a given moment.
type Event struct {
	UID     string
	Stamp   string
	Start   string
	End     string
	Summary string
	Details string
}

// EventAt resolves the all-day event spanning the day after now, using
// now's location as the visitor's local calendar.
func (i Invite) EventAt(now time.Time) Event {
	y, m, d := now.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	after := time.Date(y, m, d+2, 0, 0, 0, 0, now.Location())

	stamp := now.UTC().Format(StampFormat)
	domain := i.Domain
	if domain == "" {
		domain = "contactcard"
	}

	return Event{
		UID:     stamp + "@" + domain,
		Stamp:   stamp,
		Start:   tomorrow.Format(DateFormat),
		End:     after.Format(DateFormat),
		Summary: i.Summary,
		Details: i.Description,
	}
}

// Build renders the iCalendar document for the event at now.
func (i Invite) Build(now time.Time) string {
	ev := i.EventAt(now)

	var b strings.Builder
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icalProductID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + ev.UID,
		"DTSTAMP:" + ev.Stamp,
		"DTSTART;VALUE=DATE:" + ev.Start,
		"DTEND;VALUE=DATE:" + ev.End,
		"SUMMARY:" + escapeText(ev.Summary),
		"DESCRIPTION:" + escapeText(ev.Details),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, l := range lines {
		writeFolded(&b, l)
	}
	return b.String()
}

// escapeText escapes a TEXT property value (RFC 5545 section 3.3.11).
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

// writeFolded writes a content line terminated by CRLF, folding it into
// continuation lines of at most 75 octets without splitting UTF-8 sequences.
func writeFolded(b *strings.Builder, line string) {
	limit := icalLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space, which counts toward the limit
		limit = icalLineLimit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}
