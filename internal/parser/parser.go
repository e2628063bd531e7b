package parser

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/maltedev/product-image-generator/internal/models"
)

// Parser turns a product page into a ProductRecord. Implementations never fail:
// fields that cannot be found fall back to their defaults.
type Parser interface {
	Extract(html string, sourceURL string) models.ProductRecord
}

// DecodeHTML converts a fetched page body to UTF-8 using the declared content
// type and any <meta charset> in the document.
func DecodeHTML(data []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// already utf-8 bytes are usable as-is
		if !utf8.Valid(data) {
			return "", fmt.Errorf("failed to decode page: %w", err)
		}
		utf8data = data
	}
	return string(utf8data), nil
}
