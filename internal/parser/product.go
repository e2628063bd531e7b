package parser

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/maltedev/product-image-generator/internal/models"
)

var pricePattern = regexp.MustCompile(`\$?\s*(\d+[.,]\d+)`)

// strategy is one way of finding a field. The first strategy that reports ok wins.
type strategy[T any] struct {
	name string
	find func(doc *goquery.Document) (T, bool)
}

func firstMatch[T any](logger *slog.Logger, field string, doc *goquery.Document, strategies []strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s.find(doc); ok {
			logger.Debug("field extracted", "field", field, "strategy", s.name, "value", v)
			return v, true
		}
	}
	var zero T
	logger.Debug("field not found, using default", "field", field)
	return zero, false
}

// ProductParser extracts product data from shop pages with layered heuristics.
type ProductParser struct {
	selectors Selectors
	logger    *slog.Logger
}

func NewProductParser(selectors Selectors, logger *slog.Logger) *ProductParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductParser{
		selectors: selectors,
		logger:    logger.With("component", "product_parser"),
	}
}

// Extract builds a ProductRecord from the page HTML. It never fails; an
// unparsable document yields a record made of defaults.
func (p *ProductParser) Extract(html string, sourceURL string) models.ProductRecord {
	record := models.ProductRecord{
		Name:            models.DefaultProductName,
		Price:           decimal.Zero,
		SizeColorMatrix: models.NewSizeColorMatrix(),
		SourceURL:       sourceURL,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		p.logger.Warn("failed to parse HTML, using defaults", "error", err, "url", sourceURL)
		return record
	}

	if name, ok := firstMatch(p.logger, "name", doc, p.nameStrategies()); ok {
		record.Name = name
	}
	if price, ok := firstMatch(p.logger, "price", doc, p.priceStrategies()); ok {
		record.Price = price
	}
	if src, ok := firstMatch(p.logger, "image", doc, p.imageStrategies()); ok {
		record.ImageURL = MakeAbsoluteURL(src, sourceURL)
	}
	record.SizeColorMatrix = p.extractSizeColorMatrix(doc)

	p.logger.Info("extracted product",
		"url", sourceURL,
		"name", record.Name,
		"price", record.Price.String(),
		"hasImage", record.HasImage(),
		"sizes", len(record.SizeColorMatrix.Sizes),
		"colors", len(record.SizeColorMatrix.Colors),
	)

	return record
}

func (p *ProductParser) nameStrategies() []strategy[string] {
	return []strategy[string]{
		{name: "description_input", find: func(doc *goquery.Document) (string, bool) {
			value := strings.TrimSpace(doc.Find(p.selectors.DescriptionInput).First().AttrOr("value", ""))
			return value, value != ""
		}},
		{name: "heading", find: func(doc *goquery.Document) (string, bool) {
			for _, selector := range p.selectors.Name {
				text := strings.TrimSpace(doc.Find(selector).First().Text())
				if text != "" {
					return text, true
				}
			}
			return "", false
		}},
	}
}

func (p *ProductParser) priceStrategies() []strategy[decimal.Decimal] {
	return []strategy[decimal.Decimal]{
		{name: "price_input", find: func(doc *goquery.Document) (decimal.Decimal, bool) {
			value, exists := doc.Find(p.selectors.PriceInput).First().Attr("value")
			if !exists {
				return decimal.Zero, false
			}
			return parsePrice(value)
		}},
		{name: "price_text", find: func(doc *goquery.Document) (decimal.Decimal, bool) {
			for _, selector := range p.selectors.Price {
				var found decimal.Decimal
				ok := false
				doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
					match := pricePattern.FindStringSubmatch(strings.TrimSpace(s.Text()))
					if len(match) < 2 {
						return true
					}
					found, ok = parsePrice(strings.Replace(match[1], ",", ".", 1))
					return !ok
				})
				if ok {
					return found, true
				}
			}
			return decimal.Zero, false
		}},
	}
}

func (p *ProductParser) imageStrategies() []strategy[string] {
	return []strategy[string]{
		{name: "gallery", find: func(doc *goquery.Document) (string, bool) {
			for _, selector := range p.selectors.Gallery {
				var src string
				doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
					src = strings.TrimSpace(s.AttrOr("src", ""))
					return src == ""
				})
				if src != "" {
					return src, true
				}
			}
			return "", false
		}},
		{name: "product_upload", find: func(doc *goquery.Document) (string, bool) {
			var src string
			doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				candidate := s.AttrOr("src", "")
				if candidate == "" || !strings.Contains(candidate, p.selectors.UploadSegment) {
					return true
				}
				if p.isThumbnail(candidate) {
					return true
				}
				src = candidate
				return false
			})
			return src, src != ""
		}},
	}
}

func (p *ProductParser) isThumbnail(src string) bool {
	lower := strings.ToLower(src)
	for _, marker := range p.selectors.ThumbnailMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractSizeColorMatrix reads sizes from the table head and colors from the
// label spans in the body. Every color is marked available in every size; the
// individual body cells are not inspected.
func (p *ProductParser) extractSizeColorMatrix(doc *goquery.Document) models.SizeColorMatrix {
	matrix := models.NewSizeColorMatrix()

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return matrix
	}

	// first header cell is the blank corner above the color column
	table.Find("thead").First().Find("th").Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		if size := strings.TrimSpace(s.Text()); size != "" && !slices.Contains(matrix.Sizes, size) {
			matrix.Sizes = append(matrix.Sizes, size)
		}
	})
	if len(matrix.Sizes) == 0 {
		matrix.Sizes = []string{models.DefaultSize}
	}

	table.Find("tbody").First().Find("span").Each(func(_ int, s *goquery.Selection) {
		matrix.AddColor(strings.TrimSpace(s.Text()))
	})

	return matrix
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, false
	}
	return price, true
}
