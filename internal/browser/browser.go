package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/product-image-generator/internal/scraper"
)

// Browser fetches pages through headless Chromium for shops that render
// product data with JavaScript. It satisfies scraper.PageFetcher.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    *Options
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      scraper.DefaultUserAgent,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "es-AR,es;q=0.9,en;q=0.8",
		TimezoneID:     "America/Argentina/Buenos_Aires",
		Locale:         "es-AR",
		ExtraHeaders: map[string]string{
			"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		},
	}
}

func New(opts *Options, logger *slog.Logger) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	headers := map[string]string{"Accept-Language": opts.AcceptLanguage}
	for k, v := range opts.ExtraHeaders {
		headers[k] = v
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(opts.UserAgent),
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            playwright.String(opts.Locale),
		TimezoneId:        playwright.String(opts.TimezoneID),
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: headers,
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: browser,
		context: browserCtx,
		opts:    opts,
		logger:  logger.With("component", "browser"),
	}, nil
}

// FetchPage navigates once and returns the rendered DOM. There are no retries.
func (b *Browser) FetchPage(ctx context.Context, url string) (*scraper.Page, error) {
	if err := scraper.ValidateURL(url); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrFetch, err)
	}

	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}
	defer page.Close()

	timeout := navigationTimeout(ctx, b.opts.Timeout, time.Now())
	page.SetDefaultTimeout(float64(timeout.Milliseconds()))

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		b.logger.Error("navigation failed", "error", err, "url", url)
		return nil, fmt.Errorf("%w: failed to navigate to %s: %v", scraper.ErrFetch, url, err)
	}
	if resp != nil && !resp.Ok() {
		return nil, fmt.Errorf("%w: %s returned status %d", scraper.ErrFetch, url, resp.Status())
	}

	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page content: %v", scraper.ErrFetch, err)
	}

	b.logger.Info("rendered page", "url", url, "finalURL", page.URL(), "bytes", len(content))

	return &scraper.Page{
		Body:        []byte(content),
		ContentType: "text/html; charset=utf-8",
		FinalURL:    page.URL(),
	}, nil
}

// navigationTimeout shortens the configured timeout to the context deadline.
func navigationTimeout(ctx context.Context, configured time.Duration, now time.Time) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return configured
	}
	if remaining := deadline.Sub(now); remaining < configured {
		return max(remaining, time.Millisecond)
	}
	return configured
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	return errors.Join(errs...)
}
