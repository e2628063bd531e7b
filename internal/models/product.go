package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	DefaultProductName = "Generic Product"
	DefaultSize        = "UNICO"
)

// ProductRecord is the structured result of extracting a single product page.
// It is built once per scrape and treated as read-only afterwards.
type ProductRecord struct {
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url,omitempty"`
	SizeColorMatrix SizeColorMatrix `json:"sizes_colors"`
	SourceURL       string          `json:"original_url"`
}

// HasImage reports whether an image URL was found on the page.
func (p *ProductRecord) HasImage() bool {
	return p.ImageURL != ""
}

// MarshalJSON renders the price as a JSON number instead of decimal's quoted string.
func (p ProductRecord) MarshalJSON() ([]byte, error) {
	type alias ProductRecord
	return json.Marshal(struct {
		alias
		Price float64 `json:"price"`
	}{
		alias: alias(p),
		Price: p.Price.InexactFloat64(),
	})
}

// SizeColorMatrix holds the sizes and colors offered for a product and which
// combinations are available.
type SizeColorMatrix struct {
	Sizes        []string                   `json:"sizes"`
	Colors       []string                   `json:"colors"`
	Availability map[string]map[string]bool `json:"availability"`
}

func NewSizeColorMatrix() SizeColorMatrix {
	return SizeColorMatrix{
		Sizes:        make([]string, 0),
		Colors:       make([]string, 0),
		Availability: make(map[string]map[string]bool),
	}
}

// AddColor appends a color in document order and marks it available in every
// known size. Duplicate colors are ignored. It returns false for duplicates.
func (m *SizeColorMatrix) AddColor(color string) bool {
	if color == "" {
		return false
	}
	if m.Availability == nil {
		m.Availability = make(map[string]map[string]bool)
	}
	if _, exists := m.Availability[color]; exists {
		return false
	}

	m.Colors = append(m.Colors, color)
	sizes := make(map[string]bool, len(m.Sizes))
	for _, size := range m.Sizes {
		sizes[size] = true
	}
	m.Availability[color] = sizes
	return true
}

// IsEmpty reports whether there is nothing to render as a table.
func (m SizeColorMatrix) IsEmpty() bool {
	return len(m.Sizes) == 0 || len(m.Colors) == 0
}

// Available reports availability for a color/size pair. Unknown pairs are unavailable.
func (m SizeColorMatrix) Available(color, size string) bool {
	return m.Availability[color][size]
}

// ScrapeResult is the envelope returned to API callers for diagnostic scrapes.
type ScrapeResult struct {
	Success bool           `json:"success"`
	Product *ProductRecord `json:"debug_data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func NewScrapeResult(product *ProductRecord, err error) ScrapeResult {
	if err != nil {
		return ScrapeResult{Success: false, Error: err.Error()}
	}
	return ScrapeResult{Success: true, Product: product}
}
