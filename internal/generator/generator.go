package generator

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/maltedev/product-image-generator/internal/events"
	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/pricing"
	"github.com/maltedev/product-image-generator/internal/scraper"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_.\-]`)

type ProductScraper interface {
	ScrapeProduct(ctx context.Context, url string) (*models.ProductRecord, error)
}

type Compositor interface {
	Compose(record *models.ProductRecord, photo []byte, formula string) (image.Image, error)
	EncodeJPEG(img image.Image) ([]byte, error)
}

// GeneratedImage is an encoded JPEG ready to be served. It is never written to disk.
type GeneratedImage struct {
	ID       string
	Filename string
	Formula  string
	Data     []byte
	Product  *models.ProductRecord
}

// Service runs the scrape, photo download and composition pipeline. Each call
// is independent; nothing is cached between requests.
type Service struct {
	scraper        ProductScraper
	images         scraper.ImageFetcher
	compositor     Compositor
	events         events.Publisher
	defaultFormula string
	logger         *slog.Logger
}

func NewService(
	productScraper ProductScraper,
	images scraper.ImageFetcher,
	compositor Compositor,
	publisher events.Publisher,
	defaultFormula string,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if strings.TrimSpace(defaultFormula) == "" {
		defaultFormula = pricing.DefaultFormula
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		scraper:        productScraper,
		images:         images,
		compositor:     compositor,
		events:         publisher,
		defaultFormula: defaultFormula,
		logger:         logger.With("component", "generator"),
	}
}

// DefaultFormula is used when a request does not name one.
func (s *Service) DefaultFormula() string {
	return s.defaultFormula
}

// ExtractDebug returns the raw extraction result for a product page.
func (s *Service) ExtractDebug(ctx context.Context, url string) (*models.ProductRecord, error) {
	record, err := s.scraper.ScrapeProduct(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to extract product: %w", err)
	}
	s.publish(ctx, events.EventTypeProductExtracted, url, events.NewProductExtractedPayload(record))
	return record, nil
}

// GenerateImage scrapes the page, downloads its photo and renders the final
// JPEG. A photo that cannot be downloaded is replaced by a placeholder; only
// page and composition failures abort.
func (s *Service) GenerateImage(ctx context.Context, url, formula string) (*GeneratedImage, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		formula = s.defaultFormula
	}

	record, err := s.scraper.ScrapeProduct(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to extract product: %w", err)
	}
	s.publish(ctx, events.EventTypeProductExtracted, url, events.NewProductExtractedPayload(record))

	img, err := s.compositor.Compose(record, s.fetchPhoto(ctx, record), formula)
	if err != nil {
		s.logger.Error("failed to compose image", "error", err, "url", url, "formula", formula)
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	data, err := s.compositor.EncodeJPEG(img)
	if err != nil {
		s.logger.Error("failed to encode image", "error", err, "url", url)
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	generated := &GeneratedImage{
		ID:       ImageID(url, formula),
		Filename: Filename(record.Name),
		Formula:  formula,
		Data:     data,
		Product:  record,
	}

	s.publish(ctx, events.EventTypeImageGenerated, generated.ID, events.ImageGeneratedPayload{
		ImageID:  generated.ID,
		URL:      url,
		Formula:  formula,
		Filename: generated.Filename,
		Bytes:    len(data),
	})

	s.logger.Info("generated image", "url", url, "id", generated.ID, "bytes", len(data))
	return generated, nil
}

func (s *Service) fetchPhoto(ctx context.Context, record *models.ProductRecord) []byte {
	if !record.HasImage() {
		s.logger.Warn("no product image found, using placeholder", "url", record.SourceURL)
		return nil
	}
	data, err := s.images.FetchImage(ctx, record.ImageURL)
	if err != nil {
		s.logger.Warn("failed to download product image, using placeholder",
			"error", err, "url", record.SourceURL, "imageURL", record.ImageURL)
		return nil
	}
	return data
}

// publishing never fails a request
func (s *Service) publish(ctx context.Context, eventType events.EventType, aggregateID string, payload any) {
	if err := s.events.Publish(ctx, eventType, aggregateID, payload); err != nil {
		s.logger.Warn("failed to publish event", "error", err, "type", eventType, "aggregate_id", aggregateID)
	}
}

// ImageID is stable for the same product URL and formula.
func ImageID(url, formula string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url+formula)).String()
}

// Filename derives the download name from the product name.
func Filename(name string) string {
	return "product_" + unsafeFilenameChars.ReplaceAllString(name, "_") + ".jpg"
}
