package contactcard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/sanitizer"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
	"github.com/dmitrymomot/contactcard/pkg/payload"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

// Limits of the compose form fields, in characters.
const (
	MaxNameLength    = 80
	MaxEmailLength   = 254
	MaxMessageLength = 2000
)

// Compose is the visitor's input from the manual compose form. Fields are
// cleaned by SendMessage before they reach the message. The email keeps its
// case.
type Compose struct {
	Name  string `sanitize:"name"`
	Email string `sanitize:"trim,single_line"`
	// Message is the edited template. Empty means the current draft.
	Message string `sanitize:"text"`
}

// validate rejects cleaned fields over their limit instead of cutting them.
func (c Compose) validate() error {
	for _, f := range []struct {
		name  string
		value string
		limit int
	}{
		{"name", c.Name, MaxNameLength},
		{"email", c.Email, MaxEmailLength},
		{"message", c.Message, MaxMessageLength},
	} {
		if utf8.RuneCountInString(f.value) > f.limit {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrInputTooLong, f.name, f.limit)
		}
	}
	return nil
}

// Observer is notified of every status change, in order.
type Observer func(Status)

// Session runs the save-contact flow for one visitor.
// All methods are safe for concurrent use.
type Session struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	clock      Clock
	location   *time.Location
	vcardURL   string
	logger     *slog.Logger
	observer   Observer

	mu     sync.Mutex
	status Status
	draft  string
	timer  Timer
	// gen invalidates prompt timers armed by earlier actions
	gen    uint64
	closed bool

	notifyMu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the visitor's time zone, used for the calendar invite.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithVCardURL overrides the URL the vCard is downloaded from. Defaults to Config.VCardPath.
func WithVCardURL(url string) Option {
	return func(s *Session) {
		if url != "" {
			s.vcardURL = url
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a status observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// NewSession creates an idle session for cfg.
func NewSession(cfg Config, d *dispatch.Dispatcher, opts ...Option) (*Session, error) {
	if d == nil {
		return nil, ErrNilDispatcher
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:        cfg,
		dispatcher: d,
		clock:      SystemClock{},
		vcardURL:   cfg.VCardPath,
		logger:     logger.Nop(),
		status:     StatusIdle,
		draft:      cfg.Template().String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("contactcard"), logger.Variant(cfg.Variant.String()))

	return s, nil
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Draft returns the editable message offered by the compose form.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SaveContact downloads the vCard and continues with the variant's
// secondary action for the visitor's device. Failures along the way fall
// through to the next fallback; only a closed session returns an error.
func (s *Session) SaveContact(ctx context.Context, p useragent.Profile) (Status, error) {
	if err := s.begin(StatusSaving); err != nil {
		return "", err
	}

	log := s.logger.With(logger.Device(p.String()))
	vcard := s.cfg.VCard()
	res, err := s.dispatcher.Dispatch(ctx, dispatch.Download{URL: s.vcardURL, Filename: vcard.DownloadName()})
	if err != nil {
		log.WarnContext(ctx, "vcard download failed", logger.Error(err))
	} else if res.Fallback {
		log.DebugContext(ctx, "vcard fetched directly", logger.Key("url", s.vcardURL))
	}
	s.set(StatusSaved)

	switch {
	case p.SMSCapable() && s.cfg.Variant.HasSMS():
		msg := s.cfg.Template().String()
		s.mu.Lock()
		s.draft = msg
		s.mu.Unlock()

		s.set(StatusSMSPrompting)
		s.handoff(ctx, log, p, msg)
		s.armPrompt()

	case !p.SMSCapable() && s.cfg.Variant.HasTemplateDownload():
		s.downloadSecondary(ctx, log, payload.TextFile(s.cfg.TemplateFilename, s.cfg.Template()))

	case !p.SMSCapable() && s.cfg.Variant.HasInviteDownload():
		now := s.clock.Now()
		if s.location != nil {
			now = now.In(s.location)
		}
		s.downloadSecondary(ctx, log, payload.InviteFile(s.cfg.InviteFilename, s.cfg.Invite(), now))
	}

	return s.Status(), nil
}

// ConfirmHandoff reports that the messaging app took over the page. It moves
// sms-prompting to sms-sent and reports whether it did.
func (s *Session) ConfirmHandoff() bool {
	s.mu.Lock()
	if s.closed || s.status != StatusSMSPrompting {
		s.mu.Unlock()
		return false
	}
	s.stopTimerLocked()
	s.status = StatusSMSSent
	s.mu.Unlock()

	s.notify(StatusSMSSent)
	return true
}

// SendMessage fills the compose form placeholders, retries the SMS hand-off
// and then copies the message to the clipboard. The status ends at copied
// even when the clipboard write fails. It returns the final message, or
// ErrInputTooLong without acting when a field is over its limit.
func (s *Session) SendMessage(ctx context.Context, p useragent.Profile, c Compose) (string, error) {
	if err := sanitizer.SanitizeStruct(&c); err != nil {
		return "", err
	}
	if err := c.validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionClosed
	}
	s.stopTimerLocked()
	s.gen++
	text := c.Message
	if text == "" {
		text = s.draft
	}
	s.mu.Unlock()

	msg := payload.Template(text).Fill(c.Name, c.Email)
	log := s.logger.With(logger.Device(p.String()))
	if missing := payload.Unfilled(msg); len(missing) > 0 {
		log.DebugContext(ctx, "sending with unfilled placeholders", logger.Key("placeholders", missing))
	}

	s.handoff(ctx, log, p, msg)

	if _, err := s.dispatcher.Dispatch(ctx, dispatch.Copy{Text: msg}); err != nil {
		log.WarnContext(ctx, "clipboard write failed", logger.Error(err))
	}
	s.set(StatusCopied)

	return msg, nil
}

// CloseComposer dismisses the compose form, returning to idle.
func (s *Session) CloseComposer() bool {
	s.mu.Lock()
	if s.closed || s.status != StatusComposing {
		s.mu.Unlock()
		return false
	}
	s.status = StatusIdle
	s.mu.Unlock()

	s.notify(StatusIdle)
	return true
}

// Close stops pending timers and freezes the status. Already dispatched
// actions are not undone.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.closed = true
}

// handoff tries the SMS scheme candidates in order and stops at the first
// one the browser accepts.
func (s *Session) handoff(ctx context.Context, log *slog.Logger, p useragent.Profile, msg string) {
	candidates := payload.SMSCandidates(s.cfg.SMSRecipient, msg, p)
	acc, err := dispatch.FirstAccepted(ctx, candidates, func(ctx context.Context, link payload.SMSLink) error {
		_, err := s.dispatcher.Dispatch(ctx, dispatch.Navigate{URL: link.URL})
		return err
	})
	if err != nil {
		log.WarnContext(ctx, "sms hand-off rejected", logger.Error(err))
		return
	}
	log.DebugContext(ctx, "sms hand-off dispatched",
		logger.Scheme(string(acc.Value.Scheme)),
		logger.Key("attempts", acc.Attempts),
	)
}

func (s *Session) downloadSecondary(ctx context.Context, log *slog.Logger, f payload.File) {
	if _, err := s.dispatcher.Dispatch(ctx, dispatch.Inline{File: f}); err != nil {
		log.WarnContext(ctx, "secondary download failed", logger.Filename(f.Name), logger.Error(err))
		return
	}
	s.set(StatusDownloaded)
}

// armPrompt schedules the switch from sms-prompting to composing. There is
// no signal that the messaging app opened, so elapsed time decides.
func (s *Session) armPrompt() {
	s.mu.Lock()
	if s.closed || s.status != StatusSMSPrompting {
		s.mu.Unlock()
		return
	}
	gen := s.gen
	delay := s.cfg.PromptDelay
	if delay <= 0 {
		s.status = StatusComposing
		s.mu.Unlock()
		s.notify(StatusComposing)
		return
	}
	s.timer = s.clock.AfterFunc(delay, func() { s.promptExpired(gen) })
	s.mu.Unlock()
}

func (s *Session) promptExpired(gen uint64) {
	s.mu.Lock()
	if s.closed || s.gen != gen || s.status != StatusSMSPrompting {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.status = StatusComposing
	s.mu.Unlock()

	s.notify(StatusComposing)
}

// begin starts a new action, cancelling whatever the previous one left pending.
func (s *Session) begin(st Status) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.stopTimerLocked()
	s.gen++
	s.status = st
	s.mu.Unlock()

	s.notify(st)
	return nil
}

func (s *Session) set(st Status) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.status = st
	s.mu.Unlock()

	s.notify(st)
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) notify(st Status) {
	if s.observer == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observer(st)
}

// IsClosed reports whether Close was called.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
