package compositor

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/maltedev/product-image-generator/internal/models"
)

const (
	tableTop       = 20
	rowHeight      = 30
	sizeColWidth   = 80
	colorColWidth  = 150
	tableGap       = 10
	colorNameLimit = 18
	colorHeader    = "COLORES"
)

var (
	tableBackground = color.RGBA{0xf8, 0xf9, 0xfa, 0xff}
	tableBorder     = color.RGBA{0xde, 0xe2, 0xe6, 0xff}
	headerFill      = color.RGBA{0x34, 0x3a, 0x40, 0xff}
	colorCellFill   = color.RGBA{0xe9, 0xec, 0xef, 0xff}
	availableFill   = color.RGBA{0xd4, 0xed, 0xda, 0xff}
	availableMark   = color.RGBA{0x15, 0x57, 0x24, 0xff}
	missingFill     = color.RGBA{0xf8, 0xd7, 0xda, 0xff}
	missingMark     = color.RGBA{0x72, 0x1c, 0x24, 0xff}
)

// TableWidth is the drawn width of a table with the given number of sizes.
func TableWidth(sizes int) int {
	return colorColWidth + sizes*sizeColWidth
}

// DrawnTableHeight is the vertical space the drawn table occupies, gap included.
func DrawnTableHeight(matrix models.SizeColorMatrix) int {
	if matrix.IsEmpty() {
		return 0
	}
	return (len(matrix.Colors)+1)*rowHeight + tableGap
}

// drawTable renders the availability grid centered at the top of the canvas
// and returns the height it used. Nothing is drawn for an empty matrix.
func drawTable(dc *gg.Context, matrix models.SizeColorMatrix, canvasWidth int, faces Faces) int {
	if matrix.IsEmpty() {
		return 0
	}

	width := float64(TableWidth(len(matrix.Sizes)))
	height := float64((len(matrix.Colors) + 1) * rowHeight)
	left := float64((canvasWidth - TableWidth(len(matrix.Sizes))) / 2)
	top := float64(tableTop)

	cell(dc, left, top, width, height, tableBackground)

	// header row
	cell(dc, left, top, colorColWidth, rowHeight, headerFill)
	faces.TableHeader.draw(dc, colorHeader, left+colorColWidth/2, top+rowHeight/2, 0.5, 0.5, color.White)
	for i, size := range matrix.Sizes {
		x := left + colorColWidth + float64(i*sizeColWidth)
		cell(dc, x, top, sizeColWidth, rowHeight, headerFill)
		faces.TableHeader.draw(dc, size, x+sizeColWidth/2, top+rowHeight/2, 0.5, 0.5, color.White)
	}

	for row, name := range matrix.Colors {
		y := top + float64((row+1)*rowHeight)

		cell(dc, left, y, colorColWidth, rowHeight, colorCellFill)
		faces.TableCell.draw(dc, truncate(name, colorNameLimit), left+5, y+rowHeight/2, 0, 0.5, color.Black)

		for col, size := range matrix.Sizes {
			x := left + colorColWidth + float64(col*sizeColWidth)
			cx, cy := x+sizeColWidth/2, y+rowHeight/2
			if matrix.Available(name, size) {
				cell(dc, x, y, sizeColWidth, rowHeight, availableFill)
				drawCheck(dc, cx, cy, availableMark)
			} else {
				cell(dc, x, y, sizeColWidth, rowHeight, missingFill)
				drawCross(dc, cx, cy, missingMark)
			}
		}
	}

	return int(height) + tableGap
}

func cell(dc *gg.Context, x, y, w, h float64, fill color.Color) {
	dc.DrawRectangle(x, y, w, h)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(tableBorder)
	dc.SetLineWidth(1)
	dc.Stroke()
}

// marks are stroked instead of drawn as ✓/✗ glyphs, which the fallback font lacks
func drawCheck(dc *gg.Context, cx, cy float64, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.MoveTo(cx-6, cy)
	dc.LineTo(cx-2, cy+5)
	dc.LineTo(cx+7, cy-6)
	dc.Stroke()
}

func drawCross(dc *gg.Context, cx, cy float64, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.DrawLine(cx-5, cy-5, cx+5, cy+5)
	dc.Stroke()
	dc.DrawLine(cx-5, cy+5, cx+5, cy-5)
	dc.Stroke()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
