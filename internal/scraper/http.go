package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultPageTimeout  = 10 * time.Second
	DefaultImageTimeout = 15 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type HTTPOptions struct {
	PageTimeout  time.Duration
	ImageTimeout time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		PageTimeout:  DefaultPageTimeout,
		ImageTimeout: DefaultImageTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// HTTPFetcher retrieves pages and images with a single attempt per call.
// The underlying client is shared and safe for concurrent use.
type HTTPFetcher struct {
	client *resty.Client
	opts   HTTPOptions
	logger *slog.Logger
}

type response struct {
	body        []byte
	contentType string
	finalURL    string
}

func NewHTTPFetcher(opts HTTPOptions, logger *slog.Logger) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultHTTPOptions()
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaults.PageTimeout
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = defaults.ImageTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaults.MaxBodyBytes
	}

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRetryCount(0)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &HTTPFetcher{
		client: client,
		opts:   opts,
		logger: logger.With("component", "http_fetcher"),
	}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) (*Page, error) {
	resp, err := f.get(ctx, url, f.opts.PageTimeout, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	f.logger.Info("fetched page", "url", url, "finalURL", resp.finalURL, "bytes", len(resp.body))
	return &Page{Body: resp.body, ContentType: resp.contentType, FinalURL: resp.finalURL}, nil
}

// FetchImage downloads an image. Responses whose content type does not
// mention an image fail with ErrNotImage.
func (f *HTTPFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.get(ctx, url, f.opts.ImageTimeout, "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToLower(resp.contentType), "image") {
		return nil, fmt.Errorf("%w: %s has content type %q", ErrNotImage, url, resp.contentType)
	}
	f.logger.Info("fetched image", "url", url, "contentType", resp.contentType, "bytes", len(resp.body))
	return resp.body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string, timeout time.Duration, accept string) (*response, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := f.client.R().
		SetContext(ctx).
		SetHeader("accept", accept).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s: %v", ErrFetch, url, err)
	}
	body := res.RawBody()
	if body == nil {
		return nil, fmt.Errorf("%w: empty response from %s", ErrFetch, url)
	}
	defer body.Close()

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, url, res.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrFetch, url, err)
	}
	if int64(len(data)) > f.opts.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, f.opts.MaxBodyBytes)
	}

	finalURL := url
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &response{
		body:        data,
		contentType: res.Header().Get("Content-Type"),
		finalURL:    finalURL,
	}, nil
}
