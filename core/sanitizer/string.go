package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRegex = regexp.MustCompile(`[ \t\f\v]+`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower converts the string to lowercase.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// MaxLength truncates s to maxLen runes.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// RemoveExtraWhitespace collapses runs of spaces and tabs and trims the
// result. Line breaks are kept.
func RemoveExtraWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// RemoveControlChars drops control characters except line breaks and tabs.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine replaces line breaks with spaces and collapses whitespace.
func SingleLine(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return RemoveExtraWhitespace(RemoveControlChars(s))
}

// StripHTML removes tags and decodes entities.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTagRegex.ReplaceAllString(s, ""))
}

// NormalizeEmail trims, lowercases and removes inner whitespace.
func NormalizeEmail(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
