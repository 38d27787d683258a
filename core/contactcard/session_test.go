package contactcard_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
	"github.com/dmitrymomot/contactcard/pkg/payload"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

var (
	iosProfile     = useragent.Classify("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15", 0)
	androidProfile = useragent.Classify("Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36", 0)
	desktopProfile = useragent.Classify("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", 0)
)

type vcardFetcher struct {
	err error
}

func (vcardFetcher) CanFetch(string) bool { return true }

func (f vcardFetcher) Fetch(context.Context, string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("BEGIN:VCARD\r\nEND:VCARD\r\n"), payload.ContentTypeVCard, nil
}

type brokenClipboard struct{}

func (brokenClipboard) WriteText(context.Context, string) error {
	return errors.New("permission denied")
}

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) contactcard.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every timer that has not been stopped.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()

	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type harness struct {
	plan    *dispatch.Plan
	d       *dispatch.Dispatcher
	clock   *fakeClock
	session *contactcard.Session
	seen    []contactcard.Status
}

func newHarness(t *testing.T, cfg contactcard.Config, dopts ...dispatch.Option) *harness {
	t.Helper()

	h := &harness{
		plan:  dispatch.NewPlan(),
		clock: &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	opts := append([]dispatch.Option{dispatch.WithFetcher(vcardFetcher{}), dispatch.WithGrace(time.Hour)}, dopts...)
	d, err := dispatch.New(h.plan, opts...)
	require.NoError(t, err)
	h.d = d

	s, err := contactcard.NewSession(cfg, d,
		contactcard.WithClock(h.clock),
		contactcard.WithVCardURL("/scott-zaleski.vcf"),
		contactcard.WithObserver(func(st contactcard.Status) { h.seen = append(h.seen, st) }),
	)
	require.NoError(t, err)
	h.session = s
	t.Cleanup(s.Close)
	return h
}

func (h *harness) kinds() []dispatch.Kind {
	var out []dispatch.Kind
	for _, a := range h.plan.Actions() {
		out = append(out, a.Kind)
	}
	return out
}

func (h *harness) blob(t *testing.T, a dispatch.Action) payload.File {
	t.Helper()
	f, err := h.d.Blobs().Get(h.d.Blobs().ID(a.URL))
	require.NoError(t, err)
	return f
}

func configWith(v contactcard.Variant) contactcard.Config {
	cfg := contactcard.DefaultConfig()
	cfg.Variant = v
	return cfg
}

func TestSaveContactDesktop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("text variant downloads the template", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantText))

		st, err := h.session.SaveContact(ctx, desktopProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusDownloaded, st)
		assert.Equal(t, []dispatch.Kind{dispatch.KindDownload, dispatch.KindDownload}, h.kinds())

		actions := h.plan.Actions()
		assert.Equal(t, "scott-zaleski.vcf", actions[0].Filename)
		assert.Equal(t, payload.TemplateFilename, actions[1].Filename)
		assert.Equal(t, payload.DefaultMessage, string(h.blob(t, actions[1]).Data))
		assert.Equal(t, []contactcard.Status{
			contactcard.StatusSaving,
			contactcard.StatusSaved,
			contactcard.StatusDownloaded,
		}, h.seen)
	})

	t.Run("calendar variant downloads tomorrow's invite", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantCalendar))

		st, err := h.session.SaveContact(ctx, desktopProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusDownloaded, st)

		actions := h.plan.Actions()
		require.Len(t, actions, 2)
		assert.Equal(t, payload.InviteFilename, actions[1].Filename)

		invite := string(h.blob(t, actions[1]).Data)
		assert.Contains(t, invite, "DTSTART;VALUE=DATE:20240102\r\n")
		assert.Contains(t, invite, "DTEND;VALUE=DATE:20240103\r\n")
		assert.Contains(t, invite, "20240101T000000Z")
	})

	t.Run("no scheme navigation on desktop", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		st, err := h.session.SaveContact(ctx, desktopProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusSaved, st)
		assert.Equal(t, []dispatch.Kind{dispatch.KindDownload}, h.kinds())
	})

	t.Run("plain variant stays saved", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantPlain))

		st, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusSaved, st)
		assert.Equal(t, []dispatch.Kind{dispatch.KindDownload}, h.kinds())
	})

	t.Run("fetch failure still saves", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantPlain), dispatch.WithFetcher(vcardFetcher{err: errors.New("offline")}))

		st, err := h.session.SaveContact(ctx, desktopProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusSaved, st)
		assert.Equal(t, []dispatch.Action{{Kind: dispatch.KindDownload, URL: "/scott-zaleski.vcf", Filename: "scott-zaleski.vcf"}}, h.plan.Actions())
	})
}

func TestSaveContactMobile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ios navigates with ampersand separator", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		st, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusSMSPrompting, st)

		actions := h.plan.Actions()
		require.Len(t, actions, 2)
		assert.Equal(t, dispatch.KindDownload, actions[0].Kind)
		assert.Equal(t, dispatch.KindNavigate, actions[1].Kind)
		assert.True(t, strings.HasPrefix(actions[1].URL, "sms:+17084917521&body="), actions[1].URL)

		body, err := payload.BodyFromURL(actions[1].URL)
		require.NoError(t, err)
		assert.Equal(t, payload.DefaultMessage, body)
	})

	t.Run("android uses question mark separator", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantText))

		_, err := h.session.SaveContact(ctx, androidProfile)
		require.NoError(t, err)
		actions := h.plan.Actions()
		require.Len(t, actions, 2)
		assert.True(t, strings.HasPrefix(actions[1].URL, "sms:+17084917521?body="))
	})

	t.Run("prompt expires into composing", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		h.clock.Fire()

		assert.Equal(t, contactcard.StatusComposing, h.session.Status())
		assert.Equal(t, payload.DefaultMessage, h.session.Draft())
		assert.Equal(t, []contactcard.Status{
			contactcard.StatusSaving,
			contactcard.StatusSaved,
			contactcard.StatusSMSPrompting,
			contactcard.StatusComposing,
		}, h.seen)
	})

	t.Run("confirmed hand-off wins over the timer", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		assert.True(t, h.session.ConfirmHandoff())
		h.clock.Fire()

		assert.Equal(t, contactcard.StatusSMSSent, h.session.Status())
		assert.False(t, h.session.ConfirmHandoff())
	})

	t.Run("zero delay composes immediately", func(t *testing.T) {
		t.Parallel()
		cfg := configWith(contactcard.VariantSMS)
		cfg.PromptDelay = 0
		h := newHarness(t, cfg)

		st, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusComposing, st)
	})

	t.Run("rejected schemes fall through to smsto", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		h.plan.Reject = func(url string) bool { return strings.HasPrefix(url, "sms:") }

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)

		actions := h.plan.Actions()
		require.Len(t, actions, 2)
		assert.True(t, strings.HasPrefix(actions[1].URL, "smsto:+17084917521?body="))
		assert.Equal(t, contactcard.StatusSMSPrompting, h.session.Status())
	})

	t.Run("a new save cancels the pending prompt", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		_, err = h.session.SaveContact(ctx, desktopProfile)
		require.NoError(t, err)
		h.clock.Fire()

		assert.Equal(t, contactcard.StatusSaved, h.session.Status())
	})
}

func TestComposer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("send fills placeholders and copies", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		h.clock.Fire()

		msg, err := h.session.SendMessage(ctx, iosProfile, contactcard.Compose{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Contains(t, msg, "this is Ada (ada@example.com)")
		assert.Equal(t, contactcard.StatusCopied, h.session.Status())

		actions := h.plan.Actions()
		last := actions[len(actions)-1]
		assert.Equal(t, dispatch.Action{Kind: dispatch.KindCopy, Text: msg}, last)
		assert.Equal(t, dispatch.KindNavigate, actions[len(actions)-2].Kind)
	})

	t.Run("blank fields keep placeholders", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		msg, err := h.session.SendMessage(ctx, androidProfile, contactcard.Compose{Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Contains(t, msg, "this is [Your Name] (ada@example.com)")
	})

	t.Run("edited message is used", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		msg, err := h.session.SendMessage(ctx, androidProfile, contactcard.Compose{Name: "Ada", Message: "Hi, [Your Name] here"})
		require.NoError(t, err)
		assert.Equal(t, "Hi, Ada here", msg)
	})

	t.Run("input is cleaned", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		msg, err := h.session.SendMessage(ctx, androidProfile, contactcard.Compose{
			Name:    " <b>Ada</b>\nLovelace ",
			Email:   " ADA@Example.com ",
			Message: "Hi\x00, [Your Name] <[Your Email]>\n",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hi, Ada Lovelace <ADA@Example.com>", msg)
	})

	t.Run("over limit input is rejected", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		for _, c := range []contactcard.Compose{
			{Name: strings.Repeat("a", contactcard.MaxNameLength+1)},
			{Email: strings.Repeat("b", contactcard.MaxEmailLength-11) + "@example.com"},
			{Message: strings.Repeat("é", contactcard.MaxMessageLength+1)},
		} {
			_, err := h.session.SendMessage(ctx, androidProfile, c)
			require.ErrorIs(t, err, contactcard.ErrInputTooLong)
		}
		assert.Empty(t, h.kinds())
		assert.Equal(t, contactcard.StatusIdle, h.session.Status())
	})

	t.Run("input at the limit is kept whole", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		text := strings.Repeat("é", contactcard.MaxMessageLength)

		msg, err := h.session.SendMessage(ctx, androidProfile, contactcard.Compose{Message: text})
		require.NoError(t, err)
		assert.Equal(t, text, msg)
	})

	t.Run("clipboard failure still reports copied", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS), dispatch.WithClipboard(brokenClipboard{}))

		_, err := h.session.SendMessage(ctx, iosProfile, contactcard.Compose{})
		require.NoError(t, err)
		assert.Equal(t, contactcard.StatusCopied, h.session.Status())
	})

	t.Run("all schemes rejected still copies", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		h.plan.Reject = func(string) bool { return true }

		_, err := h.session.SendMessage(ctx, iosProfile, contactcard.Compose{})
		require.NoError(t, err)
		assert.Equal(t, []dispatch.Kind{dispatch.KindCopy}, h.kinds())
		assert.Equal(t, contactcard.StatusCopied, h.session.Status())
	})

	t.Run("close composer returns to idle", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		assert.False(t, h.session.CloseComposer())

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		h.clock.Fire()

		assert.True(t, h.session.CloseComposer())
		assert.Equal(t, contactcard.StatusIdle, h.session.Status())
	})
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("closed session rejects actions", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))
		h.session.Close()

		_, err := h.session.SaveContact(ctx, iosProfile)
		assert.ErrorIs(t, err, contactcard.ErrSessionClosed)
		_, err = h.session.SendMessage(ctx, iosProfile, contactcard.Compose{})
		assert.ErrorIs(t, err, contactcard.ErrSessionClosed)
		assert.True(t, h.session.IsClosed())
		assert.Empty(t, h.plan.Actions())
	})

	t.Run("close freezes a pending prompt", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, configWith(contactcard.VariantSMS))

		_, err := h.session.SaveContact(ctx, iosProfile)
		require.NoError(t, err)
		h.session.Close()
		h.clock.Fire()

		assert.Equal(t, contactcard.StatusSMSPrompting, h.session.Status())
	})

	t.Run("invalid construction", func(t *testing.T) {
		t.Parallel()
		d, err := dispatch.New(dispatch.NewPlan())
		require.NoError(t, err)

		_, err = contactcard.NewSession(contactcard.DefaultConfig(), nil)
		assert.ErrorIs(t, err, contactcard.ErrNilDispatcher)

		_, err = contactcard.NewSession(configWith("fancy"), d)
		assert.ErrorIs(t, err, contactcard.ErrUnknownVariant)
	})

	t.Run("starts idle", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, contactcard.DefaultConfig())
		assert.Equal(t, contactcard.StatusIdle, h.session.Status())
	})
}
