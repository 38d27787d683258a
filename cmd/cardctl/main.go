// Command cardctl runs the contact card flow from a terminal: downloads land
// in a directory, messaging URLs go to the system opener and the clipboard
// fallback uses the system clipboard.
//
//	cardctl save -device ios -dir ~/Downloads
//	cardctl save -device ios -i
//	cardctl send -name Jane -email jane@example.com
//	cardctl ics -tz Europe/Berlin
//	cardctl txt -o -
//	cardctl sms-url -device android -all
//	cardctl qr -url https://card.example.com/ -o card.png
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/contactcard/core/config"
	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/integration/storage/s3"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
)

// Config is the environment of the CLI. Card and S3 share their variables
// with the card server.
type Config struct {
	Card contactcard.Config
	S3   s3.Config

	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	PublicURL string `env:"PUBLIC_URL"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		fatalf(1, "cardctl: %v", err)
	}

	c := &cli{
		cfg:       cfg,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		log:       logger.New(logger.WithOutput(os.Stderr), logger.WithLevel(logger.ParseLevel(cfg.LogLevel))),
		clock:     contactcard.SystemClock{},
		clipboard: dispatch.SystemClipboard{},
	}

	if err := c.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fatalf(2, "cardctl: %v", err)
		}
		fatalf(1, "cardctl: %v", err)
	}
}

func fatalf(code int, format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
