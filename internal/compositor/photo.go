package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "golang.org/x/image/webp"
)

const (
	placeholderSide = 400
	placeholderText = "Image unavailable"
)

var (
	placeholderFill = color.RGBA{0xd3, 0xd3, 0xd3, 0xff}
	placeholderInk  = color.RGBA{0xa9, 0xa9, 0xa9, 0xff}

	errEmptyPhoto = errors.New("empty photo")
)

// decodePhoto decodes any supported format and applies EXIF orientation.
func decodePhoto(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errEmptyPhoto
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errEmptyPhoto
	}
	return img, nil
}

// Placeholder renders the stand-in used when no product photo is available.
func Placeholder(faces Faces) image.Image {
	dc := gg.NewContext(placeholderSide, placeholderSide)
	dc.SetColor(placeholderFill)
	dc.Clear()
	faces.Placeholder.draw(dc, placeholderText, placeholderSide/2, placeholderSide/2, 0.5, 0.5, placeholderInk)
	return dc.Image()
}

// ResizePhoto scales img to fit inside target keeping its aspect ratio.
func ResizePhoto(img image.Image, target image.Point) image.Image {
	b := img.Bounds()
	ratio := math.Min(float64(target.X)/float64(b.Dx()), float64(target.Y)/float64(b.Dy()))

	width := max(1, int(float64(b.Dx())*ratio))
	height := max(1, int(float64(b.Dy())*ratio))
	if width == b.Dx() && height == b.Dy() {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
