package compositor

import (
	"image"
	"math"

	"github.com/maltedev/product-image-generator/internal/models"
)

const (
	horizontalMargin = 100
	verticalMargin   = 200
	topMargin        = 50

	minCanvasWidth  = 800
	minCanvasHeight = 600
	smallPhotoSide  = 300

	// space reserved per table row, larger than the drawn row so text below the
	// photo never collides with the table
	reservedRowHeight = 35
	reservedTablePad  = 50
)

// LayoutPlan positions the photo on a canvas sized for the photo and table.
// ProductPosition is the base position before the drawn table shifts it down.
type LayoutPlan struct {
	CanvasWidth     int
	CanvasHeight    int
	ProductSize     image.Point
	ProductPosition image.Point
	TableHeight     int
}

// ReservedTableHeight is the vertical space kept free for the size/color table.
func ReservedTableHeight(matrix models.SizeColorMatrix) int {
	if matrix.IsEmpty() {
		return 0
	}
	return (len(matrix.Colors)+1)*reservedRowHeight + reservedTablePad
}

// CalculateLayout derives the canvas and product box from the photo size and
// the matrix dimensions.
func CalculateLayout(imgWidth, imgHeight int, matrix models.SizeColorMatrix) LayoutPlan {
	tableHeight := ReservedTableHeight(matrix)

	var canvasWidth, canvasHeight int
	switch {
	case imgWidth > minCanvasWidth || imgHeight > minCanvasHeight:
		canvasWidth = max(minCanvasWidth, imgWidth+horizontalMargin)
		canvasHeight = max(minCanvasHeight+tableHeight, imgHeight+verticalMargin+tableHeight)
	case imgWidth < smallPhotoSide || imgHeight < smallPhotoSide:
		canvasWidth = minCanvasWidth
		canvasHeight = minCanvasHeight + tableHeight
	default:
		canvasWidth = imgWidth + horizontalMargin
		canvasHeight = imgHeight + verticalMargin + tableHeight
	}

	maxWidth := canvasWidth - horizontalMargin
	maxHeight := canvasHeight - verticalMargin - tableHeight

	var productWidth, productHeight int
	if imgWidth > maxWidth || imgHeight > maxHeight {
		ratio := math.Min(float64(maxWidth)/float64(imgWidth), float64(maxHeight)/float64(imgHeight))
		productWidth = int(float64(imgWidth) * ratio)
		productHeight = int(float64(imgHeight) * ratio)
	} else {
		productWidth = min(imgWidth, maxWidth)
		productHeight = min(imgHeight, maxHeight)
	}

	return LayoutPlan{
		CanvasWidth:     canvasWidth,
		CanvasHeight:    canvasHeight,
		ProductSize:     image.Pt(productWidth, productHeight),
		ProductPosition: image.Pt((canvasWidth-productWidth)/2, topMargin),
		TableHeight:     tableHeight,
	}
}
