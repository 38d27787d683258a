package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/contactcard/app/card"
	"github.com/dmitrymomot/contactcard/core/config"
	"github.com/dmitrymomot/contactcard/core/logger"
	"github.com/dmitrymomot/contactcard/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg card.Config
	config.MustLoad(&cfg) // panic on error

	log := cfg.NewLogger(logger.WithContextExtractors(middleware.RequestIDExtractor))

	app, err := card.NewApp(ctx, card.WithConfig(cfg), card.WithLogger(log))
	if err != nil {
		log.Error("Failed to create app", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return app.Run(ctx)
	})

	// A missing vCard is not fatal: visitors get the direct link instead.
	eg.Go(func() error {
		if err := app.CheckVCard(ctx); err != nil {
			log.WarnContext(ctx, "vCard source is not readable",
				logger.Component("storage"),
				logger.Key("path", cfg.Card.VCardPath),
				logger.Error(err),
			)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}
