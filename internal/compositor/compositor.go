package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"

	"github.com/fogleman/gg"

	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/pricing"
)

const DefaultJPEGQuality = 95

var ErrComposition = errors.New("image composition failed")

// Compositor renders the marketing image for a product record. It holds only
// read-only state and is safe for concurrent use.
type Compositor struct {
	fonts   *FontLibrary
	prices  *pricing.Calculator
	quality int
	logger  *slog.Logger
}

func New(fonts *FontLibrary, prices *pricing.Calculator, quality int, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	if fonts == nil {
		fonts = &FontLibrary{}
	}
	if prices == nil {
		prices = pricing.NewCalculator(logger)
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Compositor{
		fonts:   fonts,
		prices:  prices,
		quality: quality,
		logger:  logger.With("component", "compositor"),
	}
}

// Compose draws the table, photo, title and adjusted price onto a white
// canvas. A nil or undecodable photo is replaced by the placeholder.
func (c *Compositor) Compose(record *models.ProductRecord, photo []byte, formula string) (img image.Image, err error) {
	if record == nil {
		return nil, fmt.Errorf("%w: no product record", ErrComposition)
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while composing image", "panic", r, "url", record.SourceURL)
			img, err = nil, fmt.Errorf("%w: %v", ErrComposition, r)
		}
	}()

	faces := c.fonts.Faces()

	src, decodeErr := decodePhoto(photo)
	if decodeErr != nil {
		if photo != nil {
			c.logger.Warn("using placeholder photo", "error", decodeErr, "url", record.SourceURL)
		}
		src = Placeholder(faces)
	}

	b := src.Bounds()
	plan := CalculateLayout(b.Dx(), b.Dy(), record.SizeColorMatrix)
	c.logger.Debug("calculated layout",
		"photo", b.Size(),
		"canvas", image.Pt(plan.CanvasWidth, plan.CanvasHeight),
		"product", plan.ProductSize,
		"tableHeight", plan.TableHeight,
	)

	dc := gg.NewContext(plan.CanvasWidth, plan.CanvasHeight)
	dc.SetColor(color.White)
	dc.Clear()

	drawn := drawTable(dc, record.SizeColorMatrix, plan.CanvasWidth, faces)
	position := plan.ProductPosition.Add(image.Pt(0, drawn))
	dc.DrawImage(ResizePhoto(src, plan.ProductSize), position.X, position.Y)

	price := c.prices.Price(record.Price, formula)
	drawTexts(dc, record.Name, pricing.Format(price), faces, plan.CanvasWidth, position, plan.ProductSize)

	c.logger.Info("composed image",
		"name", record.Name,
		"originalPrice", record.Price.String(),
		"price", price.String(),
		"width", plan.CanvasWidth,
		"height", plan.CanvasHeight,
	)

	return dc.Image(), nil
}

// EncodeJPEG encodes the composed image at the configured quality.
func (c *Compositor) EncodeJPEG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nothing to encode", ErrComposition)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode jpeg: %v", ErrComposition, err)
	}
	return buf.Bytes(), nil
}
