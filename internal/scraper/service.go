package scraper

import (
	"context"
	"log/slog"

	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/parser"
)

// Service fetches a product page and extracts its record.
type Service struct {
	pages  PageFetcher
	parser parser.Parser
	logger *slog.Logger
}

func NewService(pages PageFetcher, p parser.Parser, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pages:  pages,
		parser: p,
		logger: logger.With("component", "scraper"),
	}
}

// ScrapeProduct fails only when the page cannot be fetched. Anything missing
// from the page falls back to record defaults.
func (s *Service) ScrapeProduct(ctx context.Context, url string) (*models.ProductRecord, error) {
	page, err := s.pages.FetchPage(ctx, url)
	if err != nil {
		s.logger.Error("failed to fetch page", "error", err, "url", url)
		return nil, err
	}

	html, err := parser.DecodeHTML(page.Body, page.ContentType)
	if err != nil {
		s.logger.Warn("failed to decode page, using raw bytes", "error", err, "url", url)
		html = string(page.Body)
	}

	record := s.parser.Extract(html, url)
	return &record, nil
}
