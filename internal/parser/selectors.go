package parser

// Selectors configures where each field is looked up. Lists are tried in order.
type Selectors struct {
	DescriptionInput string
	Name             []string
	PriceInput       string
	Price            []string
	Gallery          []string
	UploadSegment    string
	ThumbnailMarkers []string
}

// DefaultSelectors matches the wholesale shop markup the generator was built for.
func DefaultSelectors() Selectors {
	return Selectors{
		DescriptionInput: `input[name="descripcion"]`,
		Name: []string{
			"h3",
			"h1",
			".product-title",
			".product-name",
		},
		PriceInput: `input[name="precio"]`,
		Price: []string{
			".title strong",
			"p.title strong",
			".precio",
			".price",
		},
		Gallery: []string{
			".tz-gallery .col-sm-12.col-md-12 img.img-responsive",
			".tz-gallery img.img-responsive",
			".tz-gallery img",
			"a.lightbox img",
		},
		UploadSegment:    "uploads/products/",
		ThumbnailMarkers: []string{"thumb", "small", "mini"},
	}
}
