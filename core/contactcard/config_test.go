package contactcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/config"
	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/pkg/payload"
)

func TestConfigFromEnv(t *testing.T) {
	t.Parallel()

	t.Run("defaults match DefaultConfig", func(t *testing.T) {
		t.Parallel()
		var cfg contactcard.Config
		require.NoError(t, config.Parse(&cfg, map[string]string{}))
		assert.Equal(t, contactcard.DefaultConfig(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		var cfg contactcard.Config
		require.NoError(t, config.Parse(&cfg, map[string]string{
			"CARD_VARIANT":      "calendar",
			"CARD_DETAILS":      "Phone=+1 708 491 7521=tel:+17084917521; Email=scott@example.com",
			"CARD_PROMPT_DELAY": "0s",
		}))
		assert.Equal(t, contactcard.VariantCalendar, cfg.Variant)
		assert.Zero(t, cfg.PromptDelay)
		assert.Equal(t, contactcard.Details{
			{Label: "Phone", Value: "+1 708 491 7521", Href: "tel:+17084917521"},
			{Label: "Email", Value: "scott@example.com"},
		}, cfg.Details)
	})

	t.Run("unknown variant", func(t *testing.T) {
		t.Parallel()
		var cfg contactcard.Config
		err := config.Parse(&cfg, map[string]string{"CARD_VARIANT": "fancy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), contactcard.ErrUnknownVariant.Error())
	})

	t.Run("malformed detail", func(t *testing.T) {
		t.Parallel()
		var cfg contactcard.Config
		err := config.Parse(&cfg, map[string]string{"CARD_DETAILS": "no separator"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), contactcard.ErrInvalidDetail.Error())
	})
}

func TestConfigHelpers(t *testing.T) {
	t.Parallel()
	cfg := contactcard.DefaultConfig()

	assert.Equal(t, "Scott Zaleski", cfg.FullName())
	assert.Equal(t, []contactcard.Detail{
		{Label: "First Name", Value: "Scott"},
		{Label: "Last Name", Value: "Zaleski"},
	}, cfg.ContactDetails())
	assert.Equal(t, payload.Template(payload.DefaultMessage), cfg.Template())
	assert.Equal(t, "/scott-zaleski.vcf", cfg.PublicVCardPath())

	cfg.MessageTemplate = "Hi [Your Name]"
	assert.Equal(t, payload.Template("Hi [Your Name]"), cfg.Template())

	cfg.PromptDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestVariant(t *testing.T) {
	t.Parallel()

	for _, v := range contactcard.Variants {
		parsed, err := contactcard.ParseVariant(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	assert.False(t, contactcard.VariantPlain.HasSMS())
	assert.True(t, contactcard.VariantSMS.HasSMS())
	assert.True(t, contactcard.VariantText.HasTemplateDownload())
	assert.False(t, contactcard.VariantText.HasInviteDownload())
	assert.True(t, contactcard.VariantCalendar.HasInviteDownload())
	assert.Equal(t, "Save Contact", contactcard.VariantPlain.ButtonLabel())
}

func TestStatusLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, contactcard.StatusIdle.Lines(contactcard.VariantSMS))
	assert.Equal(t, []string{contactcard.MessageSaved, contactcard.MessageCopied}, contactcard.StatusCopied.Lines(contactcard.VariantSMS))
	assert.Equal(t, []string{contactcard.MessageSaved, contactcard.MessageInvite}, contactcard.StatusDownloaded.Lines(contactcard.VariantCalendar))
	assert.Equal(t, []string{contactcard.MessageSaved, contactcard.MessageTemplate}, contactcard.StatusDownloaded.Lines(contactcard.VariantText))
	assert.True(t, contactcard.StatusCopied.Terminal())
	assert.False(t, contactcard.StatusComposing.Terminal())
}
