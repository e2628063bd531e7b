package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		base     string
		expected string
	}{
		{"protocol relative", "//cdn.example.com/a.jpg", "https://shop.test/p/1", "https://cdn.example.com/a.jpg"},
		{"protocol relative keeps http", "//cdn.example.com/a.jpg", "http://shop.test/p/1", "http://cdn.example.com/a.jpg"},
		{"root relative", "/img/a.jpg", "https://shop.test/p/1", "https://shop.test/img/a.jpg"},
		{"absolute", "https://other.test/a.jpg", "https://shop.test/p/1", "https://other.test/a.jpg"},
		{"path relative resolves to host root", "uploads/products/LC7326.jpg", "https://shop.test/catalog/p/1", "https://shop.test/uploads/products/LC7326.jpg"},
		{"keeps port", "/a.jpg", "http://localhost:8080/p", "http://localhost:8080/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MakeAbsoluteURL(tt.src, tt.base))
		})
	}
}
