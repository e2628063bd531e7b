package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maltedev/product-image-generator/internal/scraper"
)

var _ scraper.PageFetcher = (*Browser)(nil)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 1920, opts.ViewportWidth)
	assert.Equal(t, 1080, opts.ViewportHeight)
	assert.Equal(t, "es-AR", opts.Locale)
	assert.NotEmpty(t, opts.UserAgent)
}

func TestNavigationTimeout(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 30*time.Second, navigationTimeout(context.Background(), 30*time.Second, now))

	ctx, cancel := context.WithDeadline(context.Background(), now.Add(5*time.Second))
	defer cancel()
	assert.Equal(t, 5*time.Second, navigationTimeout(ctx, 30*time.Second, now))
	assert.Equal(t, 2*time.Second, navigationTimeout(ctx, 2*time.Second, now))

	expired, cancelExpired := context.WithDeadline(context.Background(), now.Add(-time.Second))
	defer cancelExpired()
	assert.Equal(t, time.Millisecond, navigationTimeout(expired, 30*time.Second, now))
}

func TestFetchPageRejectsInvalidURL(t *testing.T) {
	b := &Browser{opts: DefaultOptions()}

	_, err := b.FetchPage(context.Background(), "javascript:alert(1)")
	assert.ErrorIs(t, err, scraper.ErrInvalidURL)
}
