package contactcard

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/contactcard/pkg/payload"
)

// Default timings.
const (
	DefaultPromptDelay = 1200 * time.Millisecond
	DefaultBlobGrace   = 3 * time.Second
)

// Detail is one labelled line on the card. Href, when set, renders the value as a link.
type Detail struct {
	Label string
	Value string
	Href  string
}

// Details parses from "Label=Value[=Href]" entries separated by ";".
type Details []Detail

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Details) UnmarshalText(text []byte) error {
	var out Details
	for entry := range strings.SplitSeq(string(text), ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			return fmt.Errorf("%w: %q", ErrInvalidDetail, entry)
		}
		detail := Detail{
			Label: strings.TrimSpace(parts[0]),
			Value: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			detail.Href = strings.TrimSpace(parts[2])
		}
		out = append(out, detail)
	}
	*d = out
	return nil
}

// Config is the static content and behaviour of one card.
type Config struct {
	Variant      Variant  `env:"CARD_VARIANT" envDefault:"sms"`
	FirstName    string   `env:"CARD_FIRST_NAME" envDefault:"Scott"`
	LastName     string   `env:"CARD_LAST_NAME" envDefault:"Zaleski"`
	NoteTitle    string   `env:"CARD_NOTE_TITLE" envDefault:"Marketing with energy mastery"`
	NoteSubtitle string   `env:"CARD_NOTE_SUBTITLE" envDefault:"Author of Low Pressure Sales"`
	Details      Details  `env:"CARD_DETAILS"`
	Footer       []string `env:"CARD_FOOTER" envSeparator:"|" envDefault:"Business powered by Earth|Relationships built to last, the American Way."`

	SMSRecipient    string `env:"CARD_SMS_RECIPIENT" envDefault:"+17084917521"`
	MessageTemplate string `env:"CARD_MESSAGE_TEMPLATE"`

	VCardPath        string `env:"CARD_VCARD_PATH" envDefault:"public/scott-zaleski.vcf"`
	VCardFilename    string `env:"CARD_VCARD_FILENAME" envDefault:"scott-zaleski.vcf"`
	TemplateFilename string `env:"CARD_TEMPLATE_FILENAME" envDefault:"meeting-text-template.txt"`
	InviteFilename   string `env:"CARD_INVITE_FILENAME" envDefault:"follow-up-with-scott.ics"`

	InviteSummary     string `env:"CARD_INVITE_SUMMARY" envDefault:"Follow up with Scott Zaleski"`
	InviteDescription string `env:"CARD_INVITE_DESCRIPTION" envDefault:"Quick call about marketing with energy mastery."`
	InviteDomain      string `env:"CARD_INVITE_DOMAIN" envDefault:"contactcard"`

	PromptDelay time.Duration `env:"CARD_PROMPT_DELAY" envDefault:"1200ms"`
	BlobGrace   time.Duration `env:"CARD_BLOB_GRACE" envDefault:"3s"`
}

// DefaultConfig returns the built-in card, matching the env defaults.
func DefaultConfig() Config {
	return Config{
		Variant:           VariantSMS,
		FirstName:         "Scott",
		LastName:          "Zaleski",
		NoteTitle:         "Marketing with energy mastery",
		NoteSubtitle:      "Author of Low Pressure Sales",
		Footer:            []string{"Business powered by Earth", "Relationships built to last, the American Way."},
		SMSRecipient:      "+17084917521",
		VCardPath:         "public/" + payload.VCardFilename,
		VCardFilename:     payload.VCardFilename,
		TemplateFilename:  payload.TemplateFilename,
		InviteFilename:    payload.InviteFilename,
		InviteSummary:     "Follow up with Scott Zaleski",
		InviteDescription: "Quick call about marketing with energy mastery.",
		InviteDomain:      "contactcard",
		PromptDelay:       DefaultPromptDelay,
		BlobGrace:         DefaultBlobGrace,
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if !c.Variant.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
	if c.PromptDelay < 0 {
		return fmt.Errorf("contactcard: negative prompt delay %s", c.PromptDelay)
	}
	return nil
}

// FullName joins first and last name.
func (c Config) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ContactDetails returns the configured details, or first and last name when none are set.
func (c Config) ContactDetails() []Detail {
	if len(c.Details) > 0 {
		return c.Details
	}
	var out []Detail
	if c.FirstName != "" {
		out = append(out, Detail{Label: "First Name", Value: c.FirstName})
	}
	if c.LastName != "" {
		out = append(out, Detail{Label: "Last Name", Value: c.LastName})
	}
	return out
}

// Template returns the message template, falling back to the built-in text.
func (c Config) Template() payload.Template {
	if strings.TrimSpace(c.MessageTemplate) == "" {
		return payload.DefaultMessage
	}
	return payload.Template(c.MessageTemplate)
}

// Invite returns the calendar invite description.
func (c Config) Invite() payload.Invite {
	return payload.Invite{
		Summary:     c.InviteSummary,
		Description: c.InviteDescription,
		Domain:      c.InviteDomain,
	}
}

// VCard returns the vCard asset as stored at VCardPath.
func (c Config) VCard() payload.Asset {
	return payload.Asset{Path: c.VCardPath, Filename: c.VCardFilename}
}

// PublicVCardPath is the URL path the card page serves the vCard under.
func (c Config) PublicVCardPath() string {
	return "/" + c.VCard().DownloadName()
}
