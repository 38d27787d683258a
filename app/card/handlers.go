package card

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/core/handler"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/response"
	"github.com/dmitrymomot/contactcard/core/router"
	"github.com/dmitrymomot/contactcard/core/storage"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
	"github.com/dmitrymomot/contactcard/pkg/payload"
	"github.com/dmitrymomot/contactcard/pkg/qrcode"
)

// Form fields posted by the card page.
const (
	fieldTimeZone = "tz"
	fieldReject   = "reject"
	fieldName     = "name"
	fieldEmail    = "email"
	fieldMessage  = "message"
)

// actionResponse tells the page what to replay inside the visitor's click.
type actionResponse struct {
	Status  contactcard.Status `json:"status"`
	Lines   []string           `json:"lines"`
	Actions []dispatch.Action  `json:"actions"`
	// ComposeAfterMS is how long the page waits for the messaging app to
	// take over before showing the compose form.
	ComposeAfterMS int64  `json:"compose_after_ms,omitempty"`
	Message        string `json:"message,omitempty"`
}

type pageData struct {
	Name          string
	NoteTitle     string
	NoteSubtitle  string
	Details       []contactcard.Detail
	Footer        []string
	Variant       contactcard.Variant
	ButtonLabel   string
	VCardURL      string
	TemplateURL   string
	InviteURL     string
	SMSURL        string
	HasSMS        bool
	HasTemplate   bool
	HasInvite     bool
	Mobile        bool
	Draft         string
	PromptDelayMS int64
	QRCode        template.URL
}

func (a *App) cardPage(ctx *Context) handler.Response {
	card := a.config.Card
	data := pageData{
		Name:          card.FullName(),
		NoteTitle:     card.NoteTitle,
		NoteSubtitle:  card.NoteSubtitle,
		Details:       card.ContactDetails(),
		Footer:        card.Footer,
		Variant:       card.Variant,
		ButtonLabel:   card.Variant.ButtonLabel(),
		VCardURL:      card.PublicVCardPath(),
		TemplateURL:   "/downloads/template.txt",
		InviteURL:     "/downloads/invite.ics",
		SMSURL:        "/sms",
		HasSMS:        card.Variant.HasSMS(),
		HasTemplate:   card.Variant.HasTemplateDownload(),
		HasInvite:     card.Variant.HasInviteDownload(),
		Mobile:        ctx.Device().SMSCapable(),
		Draft:         card.Template().String(),
		PromptDelayMS: card.PromptDelay.Milliseconds(),
	}

	if src, err := qrcode.GenerateBase64Image(a.publicURL(ctx.Request()), 192); err != nil {
		a.logger.WarnContext(ctx, "qr code unavailable", logger.Error(err))
	} else {
		data.QRCode = template.URL(src)
	}

	return response.WithCache(response.Template(a.page, "card.html", data), 0)
}

func (a *App) saveContact(ctx *Context) handler.Response {
	req := ctx.Request()
	if err := parseForm(req); err != nil {
		return response.Error(err)
	}
	loc, err := location(req.PostFormValue(fieldTimeZone))
	if err != nil {
		return response.Error(err)
	}

	sess, plan, err := a.newSession(req, contactcard.WithLocation(loc))
	if err != nil {
		return response.Error(err)
	}
	defer sess.Close()

	status, err := sess.SaveContact(ctx, ctx.Device())
	if err != nil {
		return response.Error(err)
	}

	res := actionResponse{
		Status:  status,
		Lines:   status.Lines(a.config.Card.Variant),
		Actions: plan.Actions(),
	}
	switch status {
	case contactcard.StatusSMSPrompting:
		res.ComposeAfterMS = a.config.Card.PromptDelay.Milliseconds()
		res.Message = sess.Draft()
	case contactcard.StatusComposing:
		res.Message = sess.Draft()
	}
	return response.JSON(res)
}

func (a *App) sendMessage(ctx *Context) handler.Response {
	req := ctx.Request()
	if err := parseForm(req); err != nil {
		return response.Error(err)
	}

	sess, plan, err := a.newSession(req)
	if err != nil {
		return response.Error(err)
	}
	defer sess.Close()

	msg, err := sess.SendMessage(ctx, ctx.Device(), contactcard.Compose{
		Name:    strings.TrimSpace(req.PostFormValue(fieldName)),
		Email:   strings.TrimSpace(req.PostFormValue(fieldEmail)),
		Message: req.PostFormValue(fieldMessage),
	})
	if errors.Is(err, contactcard.ErrInputTooLong) {
		return response.Error(response.ErrBadRequest.WithMessage(err.Error()))
	}
	if err != nil {
		return response.Error(err)
	}

	status := sess.Status()
	return response.JSON(actionResponse{
		Status:  status,
		Lines:   status.Lines(a.config.Card.Variant),
		Actions: plan.Actions(),
		Message: msg,
	})
}

// newSession builds a per-request session whose browser is a recorded plan.
func (a *App) newSession(req *http.Request, opts ...contactcard.Option) (*contactcard.Session, *dispatch.Plan, error) {
	plan := dispatch.NewPlan()
	if rejected := req.PostForm[fieldReject]; len(rejected) > 0 {
		plan.Reject = rejectSchemes(rejected)
	}

	d, err := dispatch.New(plan,
		dispatch.WithFetcher(a.fetcher),
		dispatch.WithBlobStore(a.blobs),
		dispatch.WithGrace(a.config.Card.BlobGrace),
		dispatch.WithReleaseOnServe(a.blobTTL()),
		dispatch.WithLogger(a.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	sess, err := contactcard.NewSession(a.config.Card, d, append([]contactcard.Option{
		contactcard.WithClock(a.clock),
		contactcard.WithVCardURL(a.config.Card.PublicVCardPath()),
		contactcard.WithLogger(a.logger),
	}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return sess, plan, nil
}

func (a *App) blobTTL() time.Duration {
	if a.config.BlobTTL > 0 {
		return a.config.BlobTTL
	}
	return dispatch.DefaultServeTTL
}

func (a *App) blob(ctx *Context) handler.Response {
	f, err := a.blobs.Serve(ctx.Param("id"))
	if err != nil {
		return response.Error(response.ErrNotFound.WithMessage("download expired"))
	}
	return response.WithCache(response.Attachment(f.Data, f.Name, f.ContentType), 0)
}

func (a *App) vcard(ctx *Context) handler.Response {
	card := a.config.Card
	src := card.PublicVCardPath()
	if !a.fetcher.CanFetch(src) {
		return response.Error(response.ErrNotFound)
	}

	data, contentType, err := a.fetcher.Fetch(ctx, src)
	switch {
	case errors.Is(err, storage.ErrFileNotFound):
		return response.Error(response.ErrNotFound.WithError(err))
	case err != nil:
		a.logger.ErrorContext(ctx, "vcard unavailable",
			logger.Filename(card.VCard().DownloadName()),
			logger.Error(err),
		)
		return response.Error(response.ErrBadGateway)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = payload.ContentTypeVCard
	}
	return response.Attachment(data, card.VCard().DownloadName(), contentType)
}

func (a *App) templateFile(*Context) handler.Response {
	f := payload.TextFile(a.config.Card.TemplateFilename, a.config.Card.Template())
	return response.Attachment(f.Data, f.Name, f.ContentType)
}

func (a *App) inviteFile(ctx *Context) handler.Response {
	loc, err := location(ctx.Request().URL.Query().Get(fieldTimeZone))
	if err != nil {
		return response.Error(err)
	}
	card := a.config.Card
	f := payload.InviteFile(card.InviteFilename, card.Invite(), a.clock.Now().In(loc))
	return response.WithCache(response.Attachment(f.Data, f.Name, f.ContentType), 0)
}

// smsRedirect hands visitors without scripts straight to the messaging app.
func (a *App) smsRedirect(ctx *Context) handler.Response {
	q := ctx.Request().URL.Query()
	card := a.config.Card
	msg := card.Template().Fill(strings.TrimSpace(q.Get(fieldName)), strings.TrimSpace(q.Get(fieldEmail)))

	links := payload.SMSCandidates(card.SMSRecipient, msg, ctx.Device())
	return response.Redirect(links[0].URL)
}

func (a *App) qrCode(ctx *Context) handler.Response {
	size := qrcode.DefaultSize
	if raw := ctx.Request().URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 1024 {
			return response.Error(response.ErrBadRequest.WithMessage("size must be between 64 and 1024"))
		}
		size = n
	}

	png, err := qrcode.Generate(a.publicURL(ctx.Request()), size)
	if err != nil {
		return response.Error(err)
	}
	return response.WithCache(response.Bytes(png, "image/png"), time.Hour)
}

func (a *App) vcardReady(ctx context.Context) error {
	src := a.config.Card.PublicVCardPath()
	if !a.fetcher.CanFetch(src) {
		return storage.ErrUnsupportedLocation
	}
	_, _, err := a.fetcher.Fetch(ctx, src)
	return err
}

// publicURL is the address encoded in QR codes.
func (a *App) publicURL(r *http.Request) string {
	if a.config.PublicURL != "" {
		return a.config.PublicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

// errorHandler answers action requests with JSON and everything else with text.
func (a *App) errorHandler(ctx *Context, err error) {
	var pe router.PanicError
	if errors.As(err, &pe) {
		a.logger.ErrorContext(ctx, "panic recovered",
			logger.Error(err),
			slog.String("stack", string(pe.Stack())),
		)
	}

	if strings.HasPrefix(ctx.Request().URL.Path, "/actions/") {
		response.JSONErrorHandler(ctx, err)
		return
	}
	response.ErrorHandler(ctx, err)
}

func parseForm(r *http.Request) error {
	err := r.ParseForm()
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return response.ErrRequestEntityTooLarge
	}
	return response.ErrBadRequest.WithError(err)
}

// location resolves an IANA zone name sent by the page. Empty means UTC.
func location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, response.ErrBadRequest.WithMessage("unknown time zone " + strconv.Quote(name))
	}
	return loc, nil
}

// rejectSchemes refuses navigation to URLs using any of the given schemes.
func rejectSchemes(schemes []string) func(string) bool {
	return func(url string) bool {
		for _, s := range schemes {
			if s = strings.TrimSpace(s); s != "" && strings.HasPrefix(url, s+":") {
				return true
			}
		}
		return false
	}
}
