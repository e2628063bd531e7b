package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/product-image-generator/internal/models"
)

const productPage = `<!doctype html><html><body>
<form>
  <input type="hidden" name="descripcion" value="  Blue Dress ">
  <input type="hidden" name="precio" value="1000">
</form>
<h3>Heading Name</h3>
<div class="tz-gallery">
  <div class="col-sm-12 col-md-12">
    <a class="lightbox" href="uploads/products/dress.jpg"><img class="img-responsive" src="uploads/products/dress.jpg"></a>
  </div>
</div>
<table>
  <thead><tr><th></th><th>S</th><th>M</th></tr></thead>
  <tbody>
    <tr><td><span>Red</span></td><td><input type="number"></td><td><input type="number"></td></tr>
    <tr><td><span>Blue</span></td><td><input type="number"></td><td><input type="number"></td></tr>
  </tbody>
</table>
</body></html>`

func newTestParser() *ProductParser {
	return NewProductParser(DefaultSelectors(), nil)
}

func TestExtractFullPage(t *testing.T) {
	rec := newTestParser().Extract(productPage, "https://shop.test/p/1")

	assert.Equal(t, "Blue Dress", rec.Name)
	assert.True(t, decimal.NewFromInt(1000).Equal(rec.Price), "price %s", rec.Price)
	assert.Equal(t, "https://shop.test/uploads/products/dress.jpg", rec.ImageURL)
	assert.Equal(t, "https://shop.test/p/1", rec.SourceURL)

	m := rec.SizeColorMatrix
	assert.Equal(t, []string{"S", "M"}, m.Sizes)
	assert.Equal(t, []string{"Red", "Blue"}, m.Colors)
	for _, color := range m.Colors {
		for _, size := range m.Sizes {
			assert.True(t, m.Available(color, size), "%s/%s should be available", color, size)
		}
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"description input wins", `<input name="descripcion" value="Input Name"><h1>Heading</h1>`, "Input Name"},
		{"empty input falls through", `<input name="descripcion" value="   "><h1>Heading</h1>`, "Heading"},
		{"h3 before h1", `<h1>One</h1><h3>Three</h3>`, "Three"},
		{"empty first h3 skips selector", `<h3> </h3><h3>Second</h3><h1>One</h1>`, "One"},
		{"class selector", `<div class="product-name">By Class</div>`, "By Class"},
		{"default", `<p>nothing here</p>`, models.DefaultProductName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestParser().Extract(tt.html, "https://shop.test/p/1")
			assert.Equal(t, tt.expected, rec.Name)
		})
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"hidden input", `<input name="precio" value="1500.50">`, "1500.5"},
		{"input with spaces", `<input name="precio" value=" 42 ">`, "42"},
		{"bad input falls through to text", `<input name="precio" value="n/a"><p class="title"><strong>$ 1234,56</strong></p>`, "1234.56"},
		{"negative input falls through", `<input name="precio" value="-5"><span class="price">$10.00</span>`, "10"},
		{"precio class", `<div class="precio">Precio: $2.500</div>`, "2.5"},
		{"skips elements without match", `<span class="price">call us</span><span class="price">$9,99</span>`, "9.99"},
		{"integer text is not a price", `<span class="price">$1000</span>`, "0"},
		{"no price selector", `<div>$100.00</div>`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestParser().Extract(tt.html, "https://shop.test/p/1")
			expected := decimal.RequireFromString(tt.expected)
			assert.True(t, expected.Equal(rec.Price), "want %s, got %s", expected, rec.Price)
		})
	}
}

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "main gallery image",
			html:     `<div class="tz-gallery"><img src="/a/second.jpg"><div class="col-sm-12 col-md-12"><img class="img-responsive" src="/a/main.jpg"></div></div>`,
			expected: "https://shop.test/a/main.jpg",
		},
		{
			name:     "any gallery image",
			html:     `<div class="tz-gallery"><img src=""><img src=" //cdn.test/g.jpg "></div>`,
			expected: "https://cdn.test/g.jpg",
		},
		{
			name:     "lightbox image",
			html:     `<a class="lightbox" href="#"><img src="http://img.test/l.jpg"></a>`,
			expected: "http://img.test/l.jpg",
		},
		{
			name:     "product upload skips thumbnails",
			html:     `<img src="/logo.png"><img src="uploads/products/THUMB_a.jpg"><img src="uploads/products/small/a.jpg"><img src="uploads/products/a.jpg">`,
			expected: "https://shop.test/uploads/products/a.jpg",
		},
		{
			name:     "absent",
			html:     `<img src="/logo.png"><img src="uploads/products/mini.jpg">`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestParser().Extract(tt.html, "https://shop.test/p/1")
			assert.Equal(t, tt.expected, rec.ImageURL)
			assert.Equal(t, tt.expected != "", rec.HasImage())
		})
	}
}

func TestExtractSizeColorMatrix(t *testing.T) {
	t.Run("no table", func(t *testing.T) {
		rec := newTestParser().Extract(`<div>no table</div>`, "https://shop.test/p/1")
		assert.Empty(t, rec.SizeColorMatrix.Sizes)
		assert.Empty(t, rec.SizeColorMatrix.Colors)
		assert.True(t, rec.SizeColorMatrix.IsEmpty())
	})

	t.Run("no header sizes defaults to UNICO", func(t *testing.T) {
		html := `<table><tbody><tr><td><span>Negro</span></td></tr><tr><td><span>Negro</span></td></tr><tr><td><span>Blanco</span></td></tr></tbody></table>`
		rec := newTestParser().Extract(html, "https://shop.test/p/1")
		m := rec.SizeColorMatrix
		assert.Equal(t, []string{models.DefaultSize}, m.Sizes)
		assert.Equal(t, []string{"Negro", "Blanco"}, m.Colors)
		assert.True(t, m.Available("Blanco", models.DefaultSize))
	})

	t.Run("only the first table is read", func(t *testing.T) {
		html := `<table><thead><tr><th>x</th><th>XL</th></tr></thead><tbody><tr><td><span>Rojo</span></td></tr></tbody></table>
<table><thead><tr><th>x</th><th>S</th></tr></thead><tbody><tr><td><span>Verde</span></td></tr></tbody></table>`
		rec := newTestParser().Extract(html, "https://shop.test/p/1")
		assert.Equal(t, []string{"XL"}, rec.SizeColorMatrix.Sizes)
		assert.Equal(t, []string{"Rojo"}, rec.SizeColorMatrix.Colors)
	})
}

func TestExtractCustomSelectors(t *testing.T) {
	sel := DefaultSelectors()
	sel.DescriptionInput = `input[name="title"]`
	sel.PriceInput = `input[name="amount"]`

	rec := NewProductParser(sel, nil).Extract(`<input name="title" value="Custom"><input name="amount" value="12">`, "https://shop.test/")
	require.Equal(t, "Custom", rec.Name)
	assert.True(t, decimal.NewFromInt(12).Equal(rec.Price))
}
