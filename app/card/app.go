package card

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	_ "time/tzdata" // zone names posted by visitors

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/contactcard/core/config"
	"github.com/dmitrymomot/contactcard/core/contactcard"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/core/router"
	"github.com/dmitrymomot/contactcard/core/server"
	"github.com/dmitrymomot/contactcard/core/storage"
	"github.com/dmitrymomot/contactcard/integration/storage/s3"
	"github.com/dmitrymomot/contactcard/pkg/dispatch"
	"github.com/dmitrymomot/contactcard/pkg/ratelimiter"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed assets
var embeddedAssets embed.FS

// App serves one contact card.
type App struct {
	config     Config
	configured bool
	router     router.Router[*Context]
	server     *server.Server
	logger     *slog.Logger
	blobs      *dispatch.BlobStore
	fetcher    dispatch.Fetcher
	clock      contactcard.Clock
	assets     fs.FS
	page       *template.Template

	buckets *ratelimiter.MemoryStore
	limiter ratelimiter.RateLimiter
}

// AppOption configures the App.
type AppOption func(*App) error

// NewApp wires the card server. Without WithConfig the configuration is
// loaded from the environment.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	app := &App{logger: logger.Nop(), clock: contactcard.SystemClock{}}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	if !app.configured {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}
	if err := app.config.Card.Validate(); err != nil {
		return nil, err
	}

	page, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	app.page = page

	if app.assets == nil {
		if dir := app.config.AssetsDir; dir != "" {
			app.assets = os.DirFS(dir)
		} else {
			sub, err := fs.Sub(embeddedAssets, "assets")
			if err != nil {
				return nil, fmt.Errorf("embedded assets: %w", err)
			}
			app.assets = sub
		}
	}

	if app.fetcher == nil {
		reader, err := app.vcardReader(ctx)
		if err != nil {
			return nil, err
		}
		app.fetcher = storage.Fetcher{
			Reader:  reader,
			Aliases: map[string]string{app.config.Card.PublicVCardPath(): app.config.Card.VCardPath},
		}
	}

	app.blobs = dispatch.NewBlobStore()

	if app.config.RateLimit.Enabled() {
		app.buckets = ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(app.logger))
		limiter, err := ratelimiter.NewBucket(app.buckets, app.config.RateLimit)
		if err != nil {
			return nil, err
		}
		app.limiter = limiter
	} else if app.config.RateLimit.Capacity > 0 {
		return nil, app.config.RateLimit.Validate()
	}

	if app.router == nil {
		app.router = router.New(
			router.WithContextFactory(newContext),
			router.WithErrorHandler(app.errorHandler),
			router.WithLogger[*Context](app.logger),
		)
	}
	app.routes(app.router)

	if app.server == nil {
		s, err := server.New(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

// vcardReader picks the storage backends able to read CARD_VCARD_PATH.
func (a *App) vcardReader(ctx context.Context) (storage.Reader, error) {
	readers := storage.Multi{
		storage.NewLocalStorage(""),
		storage.NewHTTPStorage(),
	}
	if strings.HasPrefix(a.config.Card.VCardPath, "s3://") {
		s3r, err := s3.New(ctx, a.config.S3)
		if err != nil {
			return nil, fmt.Errorf("vcard source: %w", err)
		}
		readers = append(readers, s3r)
	}
	return storage.NewCachedReader(readers, a.config.VCardCacheTTL), nil
}

// WithConfig uses cfg instead of loading the environment.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configured = true
		return nil
	}
}

// WithLogger sets the application logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithFetcher replaces the storage-backed vCard source.
func WithFetcher(f dispatch.Fetcher) AppOption {
	return func(app *App) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		app.fetcher = f
		return nil
	}
}

// WithClock sets the clock used for invites and prompt timers.
func WithClock(c contactcard.Clock) AppOption {
	return func(app *App) error {
		if c == nil {
			return errors.New("clock cannot be nil")
		}
		app.clock = c
		return nil
	}
}

// WithAssets serves page assets from fsys.
func WithAssets(fsys fs.FS) AppOption {
	return func(app *App) error {
		if fsys == nil {
			return errors.New("assets cannot be nil")
		}
		app.assets = fsys
		return nil
	}
}

// WithServer sets a preconfigured HTTP server.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// Config returns the active configuration.
func (a *App) Config() Config {
	return a.config
}

// Handler returns the HTTP handler serving the card.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves the card until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	defer a.blobs.Close()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.server.Run(ctx, a.router)
	})
	if a.buckets != nil {
		eg.Go(a.buckets.Run(ctx))
	}
	return eg.Wait()
}

// CheckVCard reads the configured vCard once, reporting why visitors would
// get the direct-link fallback.
func (a *App) CheckVCard(ctx context.Context) error {
	return a.vcardReady(ctx)
}

// Close releases every pending transient download.
func (a *App) Close() {
	a.blobs.Close()
}
