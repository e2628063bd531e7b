// Package app wires configuration into the product image pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/product-image-generator/internal/browser"
	"github.com/maltedev/product-image-generator/internal/compositor"
	"github.com/maltedev/product-image-generator/internal/config"
	"github.com/maltedev/product-image-generator/internal/events"
	"github.com/maltedev/product-image-generator/internal/generator"
	"github.com/maltedev/product-image-generator/internal/parser"
	"github.com/maltedev/product-image-generator/internal/pricing"
	"github.com/maltedev/product-image-generator/internal/scraper"
)

type App struct {
	Generator *generator.Service
	Fonts     *compositor.FontLibrary

	closers []func() error
}

// New builds every pipeline component. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{}

	httpFetcher := scraper.NewHTTPFetcher(scraper.HTTPOptions{
		PageTimeout:  cfg.Fetch.PageTimeout,
		ImageTimeout: cfg.Fetch.ImageTimeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}, logger)

	var pages scraper.PageFetcher = httpFetcher
	if cfg.Fetch.Mode == config.FetchModeBrowser {
		opts := browser.DefaultOptions()
		opts.Headless = cfg.Browser.Headless
		opts.Timeout = cfg.Browser.Timeout
		opts.UserAgent = cfg.Fetch.UserAgent

		b, err := browser.New(opts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize browser: %w", err)
		}
		a.closers = append(a.closers, b.Close)
		pages = b
	}

	publisher := newPublisher(ctx, cfg.Redis, logger)
	a.closers = append(a.closers, publisher.Close)

	a.Fonts = compositor.LoadFontLibrary(compositor.DefaultFontNames, cfg.Render.FontDirs, logger)
	prices := pricing.NewCalculator(logger)
	comp := compositor.New(a.Fonts, prices, cfg.Render.JPEGQuality, logger)

	productScraper := scraper.NewService(pages, parser.NewProductParser(parser.DefaultSelectors(), logger), logger)
	a.Generator = generator.NewService(productScraper, httpFetcher, comp, publisher, cfg.Render.DefaultFormula, logger)

	return a, nil
}

func newPublisher(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) events.Publisher {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, events disabled")
		return events.NoopPublisher{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, events may be lost", "error", err, "addr", cfg.Addr)
	}

	return events.NewStreamPublisher(client, cfg.Stream, logger)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
