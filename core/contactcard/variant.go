package contactcard

import "fmt"

// Variant selects which secondary action accompanies the vCard download.
type Variant string

const (
	// VariantPlain downloads the vCard only.
	VariantPlain Variant = "plain"
	// VariantSMS adds the SMS hand-off on mobile.
	VariantSMS Variant = "sms"
	// VariantText adds the SMS hand-off on mobile and the text template on desktop.
	VariantText Variant = "text"
	// VariantCalendar adds the SMS hand-off on mobile and the calendar invite on desktop.
	VariantCalendar Variant = "calendar"
)

// Variants lists every known variant.
var Variants = []Variant{VariantPlain, VariantSMS, VariantText, VariantCalendar}

// ParseVariant validates s.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

// UnmarshalText lets env and flag parsing validate the value.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Variant) Valid() bool {
	switch v {
	case VariantPlain, VariantSMS, VariantText, VariantCalendar:
		return true
	}
	return false
}

// HasSMS reports whether mobile visitors are handed off to the messaging app.
func (v Variant) HasSMS() bool {
	return v == VariantSMS || v == VariantText || v == VariantCalendar
}

// HasTemplateDownload reports whether desktop visitors get the text template.
func (v Variant) HasTemplateDownload() bool {
	return v == VariantText
}

// HasInviteDownload reports whether desktop visitors get the calendar invite.
func (v Variant) HasInviteDownload() bool {
	return v == VariantCalendar
}

// ButtonLabel is the caption of the primary action.
func (v Variant) ButtonLabel() string {
	switch v {
	case VariantSMS, VariantText:
		return "Save Contact + Text Scott"
	case VariantCalendar:
		return "Save Contact + Follow Up"
	default:
		return "Save Contact"
	}
}

func (v Variant) String() string {
	return string(v)
}
