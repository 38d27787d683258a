package card

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/server"
	"github.com/dmitrymomot/contactcard/integration/storage/s3"
	"github.com/dmitrymomot/contactcard/pkg/ratelimiter"
)

// Config is the environment of the card server.
type Config struct {
	Server server.Config
	Card   contactcard.Config
	// S3 is used only when CARD_VCARD_PATH is an s3:// URL.
	S3 s3.Config
	// RateLimit caps actions and QR renders per client address. A zero
	// capacity turns limiting off.
	RateLimit ratelimiter.Config

	AppName  string `env:"APP_NAME" envDefault:"contactcard"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PublicURL is encoded in the QR code. Derived from the request when empty.
	PublicURL string `env:"PUBLIC_URL"`
	// AssetsDir overrides the embedded page assets with files on disk.
	AssetsDir string `env:"ASSETS_DIR"`
	// BlobTTL releases downloads the page never fetched. The grace delay
	// (CARD_BLOB_GRACE) starts when a download is first fetched.
	BlobTTL time.Duration `env:"BLOB_TTL" envDefault:"5m"`
	// VCardCacheTTL keeps the vCard in memory between reads. Zero disables it.
	VCardCacheTTL time.Duration `env:"VCARD_CACHE_TTL" envDefault:"1m"`
}

// IsDevelopment reports whether the app runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// NewLogger builds the logger for the configured environment. LOG_LEVEL
// overrides the environment's level.
func (c Config) NewLogger(opts ...logger.Option) *slog.Logger {
	var env logger.Option
	switch c.Env {
	case "production":
		env = logger.WithProduction(c.AppName)
	case "staging":
		env = logger.WithStaging(c.AppName)
	default:
		env = logger.WithDevelopment(c.AppName)
	}

	all := []logger.Option{env}
	if c.LogLevel != "" {
		all = append(all, logger.WithLevel(logger.ParseLevel(c.LogLevel)))
	}
	return logger.New(append(all, opts...)...)
}
