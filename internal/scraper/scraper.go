package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrFetch      = errors.New("fetch failed")
	ErrInvalidURL = fmt.Errorf("%w: invalid URL", ErrFetch)
	ErrNotImage   = fmt.Errorf("%w: response is not an image", ErrFetch)
	ErrTooLarge   = fmt.Errorf("%w: response body too large", ErrFetch)
)

// Page is a fetched document before decoding.
type Page struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}
