package payload

import "strings"

// Placeholders recognised in message templates.
const (
	PlaceholderName  = "[Your Name]"
	PlaceholderEmail = "[Your Email]"
)

// DefaultMessage is the message visitors send after saving the card.
const DefaultMessage = `Hey Scott - this is [Your Name] ([Your Email]). I would love to connect about marketing with energy mastery and see how we might work together.

Do you have 15 minutes this week for a quick call? Happy to work around your schedule.`

// Template is message text with human-readable placeholders.
type Template string

// Fill replaces every placeholder occurrence with the matching value in a
// single pass, so substituted values are never rescanned.
// Empty values leave the bracketed placeholder in place; no other text changes.
func (t Template) Fill(name, email string) string {
	var pairs []string
	if name != "" {
		pairs = append(pairs, PlaceholderName, name)
	}
	if email != "" {
		pairs = append(pairs, PlaceholderEmail, email)
	}
	if len(pairs) == 0 {
		return string(t)
	}
	return strings.NewReplacer(pairs...).Replace(string(t))
}

// Unfilled lists placeholders still present in the text, in declaration order.
func Unfilled(text string) []string {
	var out []string
	for _, p := range []string{PlaceholderName, PlaceholderEmail} {
		if strings.Contains(text, p) {
			out = append(out, p)
		}
	}
	return out
}

// String returns the raw template text.
func (t Template) String() string {
	return string(t)
}
