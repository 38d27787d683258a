package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/core/storage"
	"github.com/dmitrymomot/contactcard/integration/storage/s3"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
	"github.com/dmitrymomot/contactcard/pkg/payload"
	"github.com/dmitrymomot/contactcard/pkg/qrcode"
	"github.com/dmitrymomot/contactcard/pkg/useragent"
)

var errUsage = errors.New("usage")

type cli struct {
	cfg       Config
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	log       *slog.Logger
	clock     contactcard.Clock
	clipboard dispatch.Clipboard
	// runner opens URLs. Nil uses the OS opener.
	runner dispatch.Runner
}

type command struct {
	name    string
	summary string
	run     func(c *cli, ctx context.Context, args []string) error
}

var commands = []command{
	{"save", "save the contact, then run the card's follow-up step", (*cli).save},
	{"send", "fill the message, open the messaging app and copy it", (*cli).send},
	{"ics", "write the follow-up calendar invite", (*cli).ics},
	{"txt", "write the message template", (*cli).txt},
	{"sms-url", "print the messaging URL for a device", (*cli).smsURL},
	{"qr", "write a QR code PNG of the card URL", (*cli).qr},
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch args[0] {
	case "help", "-h", "-help", "--help":
		c.usage()
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(c, ctx, args[1:])
		}
	}

	c.usage()
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (c *cli) usage() {
	_, _ = fmt.Fprintln(c.stderr, "usage: cardctl <command> [flags]\n\ncommands:")
	for _, cmd := range commands {
		_, _ = fmt.Fprintf(c.stderr, "  %-8s %s\n", cmd.name, cmd.summary)
	}
}

func (c *cli) save(ctx context.Context, args []string) error {
	fs := c.flags("save")
	dir := fs.String("dir", ".", "directory downloads are written to")
	tz := fs.String("tz", "", "IANA time zone of the calendar invite (default local)")
	wait := fs.Bool("wait", true, "wait for the messaging app before offering the compose step")
	interactive := fs.Bool("i", false, "confirm the hand-off and fill the compose form on stdin")
	device := deviceFlag{name: "desktop"}
	fs.Var(&device, "device", "device to act as: desktop, android or ios")
	if err := parse(fs, args); err != nil {
		return err
	}

	loc := time.Local
	if *tz != "" {
		var err error
		if loc, err = time.LoadLocation(*tz); err != nil {
			return fmt.Errorf("%w: unknown time zone %q", errUsage, *tz)
		}
	}

	f, err := c.newFlow(ctx, *dir, contactcard.WithLocation(loc))
	if err != nil {
		return err
	}
	defer f.Close()

	status, err := f.sess.SaveContact(ctx, device.profile)
	if err != nil {
		return err
	}

	var in *bufio.Scanner
	if *interactive && c.stdin != nil {
		in = bufio.NewScanner(c.stdin)
	}
	if status == contactcard.StatusSMSPrompting && in != nil {
		answer := strings.ToLower(c.ask(in, "Did your messaging app open? [Y/n] "))
		if !strings.HasPrefix(answer, "n") && f.sess.ConfirmHandoff() {
			status = contactcard.StatusSMSSent
		}
	}
	if status == contactcard.StatusSMSPrompting && *wait {
		status = f.await(ctx)
	}

	c.printLines(status)
	if status != contactcard.StatusComposing {
		return nil
	}
	if in == nil {
		_, _ = fmt.Fprintf(c.stdout, "\nDraft:\n%s\n\nSend it with: cardctl send -name <name> -email <email>\n", f.sess.Draft())
		return nil
	}
	return c.compose(ctx, in, f, device.profile)
}

// compose fills the compose form from stdin. An empty name closes the form.
func (c *cli) compose(ctx context.Context, in *bufio.Scanner, f *flow, p useragent.Profile) error {
	_, _ = fmt.Fprintf(c.stdout, "\nDraft:\n%s\n\n", f.sess.Draft())
	name := c.ask(in, "Your name (empty to close): ")
	if name == "" {
		f.sess.CloseComposer()
		_, _ = fmt.Fprintln(c.stdout, "compose form closed")
		return nil
	}
	email := c.ask(in, "Your email: ")

	msg, err := f.sess.SendMessage(ctx, p, contactcard.Compose{Name: name, Email: email})
	if err != nil {
		return composeError(err)
	}
	c.printLines(f.sess.Status())
	_, _ = fmt.Fprintf(c.stdout, "\n%s\n", msg)
	return nil
}

// ask prints the prompt and returns the next answer line, trimmed.
// End of input reads as an empty answer.
func (c *cli) ask(in *bufio.Scanner, prompt string) string {
	_, _ = fmt.Fprint(c.stdout, prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func (c *cli) send(ctx context.Context, args []string) error {
	fs := c.flags("send")
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	message := fs.String("message", "", "message text (default the card's template)")
	device := deviceFlag{name: "desktop"}
	fs.Var(&device, "device", "device to act as: desktop, android or ios")
	if err := parse(fs, args); err != nil {
		return err
	}

	f, err := c.newFlow(ctx, ".")
	if err != nil {
		return err
	}
	defer f.Close()

	msg, err := f.sess.SendMessage(ctx, device.profile, contactcard.Compose{
		Name:    strings.TrimSpace(*name),
		Email:   strings.TrimSpace(*email),
		Message: *message,
	})
	if err != nil {
		return composeError(err)
	}

	c.printLines(f.sess.Status())
	_, _ = fmt.Fprintf(c.stdout, "\n%s\n", msg)
	return nil
}

func (c *cli) ics(_ context.Context, args []string) error {
	fs := c.flags("ics")
	out := fs.String("o", c.cfg.Card.InviteFilename, `output file, "-" for stdout`)
	tz := fs.String("tz", "", "IANA time zone of the invite (default local)")
	if err := parse(fs, args); err != nil {
		return err
	}

	loc := time.Local
	if *tz != "" {
		var err error
		if loc, err = time.LoadLocation(*tz); err != nil {
			return fmt.Errorf("%w: unknown time zone %q", errUsage, *tz)
		}
	}

	f := payload.InviteFile(c.cfg.Card.InviteFilename, c.cfg.Card.Invite(), c.clock.Now().In(loc))
	return c.write(*out, f.Data)
}

func (c *cli) txt(_ context.Context, args []string) error {
	fs := c.flags("txt")
	out := fs.String("o", c.cfg.Card.TemplateFilename, `output file, "-" for stdout`)
	if err := parse(fs, args); err != nil {
		return err
	}

	f := payload.TextFile(c.cfg.Card.TemplateFilename, c.cfg.Card.Template())
	return c.write(*out, f.Data)
}

func (c *cli) smsURL(_ context.Context, args []string) error {
	fs := c.flags("sms-url")
	name := fs.String("name", "", "fills [Your Name]")
	email := fs.String("email", "", "fills [Your Email]")
	all := fs.Bool("all", false, "print every fallback URL in the order they are tried")
	device := deviceFlag{name: "desktop"}
	fs.Var(&device, "device", "device to build the URL for: desktop, android or ios")
	if err := parse(fs, args); err != nil {
		return err
	}

	msg := c.cfg.Card.Template().Fill(strings.TrimSpace(*name), strings.TrimSpace(*email))
	links := payload.SMSCandidates(c.cfg.Card.SMSRecipient, msg, device.profile)
	if !*all {
		links = links[:1]
	}
	for _, l := range links {
		_, _ = fmt.Fprintln(c.stdout, l.URL)
	}
	return nil
}

func (c *cli) qr(_ context.Context, args []string) error {
	fs := c.flags("qr")
	target := fs.String("url", c.cfg.PublicURL, "card URL to encode (default PUBLIC_URL)")
	size := fs.Int("size", qrcode.DefaultSize, "image size in pixels")
	out := fs.String("o", "card-qr.png", `output file, "-" for stdout`)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *target == "" {
		return fmt.Errorf("%w: -url or PUBLIC_URL is required", errUsage)
	}

	png, err := qrcode.Generate(*target, *size)
	if err != nil {
		return err
	}
	return c.write(*out, png)
}

// composeError reports rejected compose input as a usage error.
func composeError(err error) error {
	if errors.Is(err, contactcard.ErrInputTooLong) {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return err
}

func (c *cli) printLines(status contactcard.Status) {
	for _, line := range status.Lines(c.cfg.Card.Variant) {
		_, _ = fmt.Fprintln(c.stdout, line)
	}
}

func (c *cli) write(path string, data []byte) error {
	if path == "-" {
		_, err := c.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(c.stdout, "saved %s\n", path)
	return nil
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	return nil
}

// deviceFlag selects the profile the flow runs for.
type deviceFlag struct {
	name    string
	profile useragent.Profile
}

func (d *deviceFlag) String() string {
	return d.name
}

func (d *deviceFlag) Set(s string) error {
	switch strings.ToLower(s) {
	case "desktop":
		d.profile = useragent.Profile{}
	case "android":
		d.profile = useragent.Profile{IsMobile: true}
	case "ios", "iphone", "ipad":
		d.profile = useragent.Profile{IsMobile: true, IsIOS: true}
	default:
		return fmt.Errorf("unknown device %q", s)
	}
	d.name = strings.ToLower(s)
	return nil
}

// flow is one save-contact session driving the terminal browser.
type flow struct {
	sess     *contactcard.Session
	blobs    *dispatch.BlobStore
	statuses chan contactcard.Status
}

func (c *cli) newFlow(ctx context.Context, dir string, opts ...contactcard.Option) (*flow, error) {
	fetcher, err := c.fetcher(ctx)
	if err != nil {
		return nil, err
	}

	blobs := dispatch.NewBlobStore()
	browserOpts := []dispatch.DirOption{
		dispatch.WithResolver(blobs),
		dispatch.WithSource(fetcher),
	}
	if c.runner != nil {
		browserOpts = append(browserOpts, dispatch.WithRunner(c.runner))
	}
	browser := reporter{Browser: dispatch.NewDirBrowser(dir, browserOpts...), dir: dir, out: c.stdout}

	d, err := dispatch.New(browser,
		dispatch.WithFetcher(fetcher),
		dispatch.WithBlobStore(blobs),
		dispatch.WithClipboard(c.clipboard),
		dispatch.WithGrace(c.cfg.Card.BlobGrace),
		dispatch.WithLogger(c.log),
	)
	if err != nil {
		return nil, err
	}

	f := &flow{blobs: blobs, statuses: make(chan contactcard.Status, 16)}
	f.sess, err = contactcard.NewSession(c.cfg.Card, d, append([]contactcard.Option{
		contactcard.WithClock(c.clock),
		contactcard.WithLogger(c.log),
		contactcard.WithObserver(func(st contactcard.Status) {
			select {
			case f.statuses <- st:
			default:
			}
		}),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// await blocks until the prompt timer settles the hand-off or ctx ends.
func (f *flow) await(ctx context.Context) contactcard.Status {
	for {
		select {
		case st := <-f.statuses:
			if st == contactcard.StatusComposing || st.Terminal() {
				return st
			}
		case <-ctx.Done():
			return f.sess.Status()
		}
	}
}

func (f *flow) Close() {
	f.sess.Close()
	f.blobs.Close()
}

// fetcher reads the vCard from disk, over HTTP or from S3.
func (c *cli) fetcher(ctx context.Context) (storage.Fetcher, error) {
	readers := storage.Multi{
		storage.NewLocalStorage(""),
		storage.NewHTTPStorage(),
	}
	if strings.HasPrefix(c.cfg.Card.VCardPath, s3.URLScheme) {
		s3r, err := s3.New(ctx, c.cfg.S3)
		if err != nil {
			return storage.Fetcher{}, fmt.Errorf("vcard source: %w", err)
		}
		readers = append(readers, s3r)
	}
	return storage.Fetcher{Reader: readers}, nil
}

// reporter prints what the terminal browser did.
type reporter struct {
	dispatch.Browser
	dir string
	out io.Writer
}

func (r reporter) Download(ctx context.Context, href, filename string) error {
	if err := r.Browser.Download(ctx, href, filename); err != nil {
		return err
	}
	if filename == "" {
		filename = filepath.Base(href)
	}
	target := filepath.Join(r.dir, filepath.Base(filename))
	if _, err := os.Stat(target); err == nil {
		_, _ = fmt.Fprintf(r.out, "saved %s\n", target)
	}
	return nil
}

func (r reporter) Navigate(ctx context.Context, url string) error {
	if err := r.Browser.Navigate(ctx, url); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(r.out, "opened %s\n", url)
	return nil
}
