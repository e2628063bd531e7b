package compositor

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	charWidthEstimate = 8
	singleLineChars   = 25
	maxTitleLines     = 3
	overflowKeepChars = 15

	textTopGap       = 30
	titleLineSpacing = 35
	singleLinePriceY = 50
	multiLinePriceY  = 20
	titleSideMargin  = 100
)

var priceColor = color.RGBA{0xff, 0x00, 0x00, 0xff}

type textStyle struct {
	face  font.Face
	scale float64
}

// draw places s anchored at (x, y). Styles with a scale above one are
// rendered at native size and enlarged.
func (s textStyle) draw(dc *gg.Context, text string, x, y, ax, ay float64, c color.Color) {
	if s.scale <= 1 {
		dc.SetFontFace(s.face)
		dc.SetColor(c)
		dc.DrawStringAnchored(text, x, y, ax, ay)
		return
	}
	dc.DrawImageAnchored(s.render(text, c), int(x), int(y), ax, ay)
}

func (s textStyle) render(text string, c color.Color) image.Image {
	const pad = 2

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(s.face)
	w, h := measure.MeasureString(text)

	label := gg.NewContext(int(math.Ceil(w))+pad*2, int(math.Ceil(h))+pad*2)
	label.SetFontFace(s.face)
	label.SetColor(c)
	label.DrawStringAnchored(text, float64(label.Width())/2, float64(label.Height())/2, 0.5, 0.5)

	width := int(float64(label.Width()) * s.scale)
	height := int(float64(label.Height()) * s.scale)
	return imaging.Resize(label.Image(), width, height, imaging.NearestNeighbor)
}

// WrapText splits a product name into at most three lines using an estimated
// width of 8px per character. Names of 25 characters or fewer stay on one
// line. When the name does not fit, the third line holds the first 15
// characters of the remaining text followed by "...".
func WrapText(text string, maxWidth int) []string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= singleLineChars {
		return []string{text}
	}

	words := strings.Fields(text)
	lines := make([]string, 0, maxTitleLines)
	var current []string

	for i, word := range words {
		candidate := word
		if len(current) > 0 {
			candidate = strings.Join(current, " ") + " " + word
		}
		if len([]rune(candidate))*charWidthEstimate <= maxWidth {
			current = append(current, word)
			continue
		}

		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}

		if len(lines) >= maxTitleLines-1 {
			rest := strings.Join(words[i:], " ")
			if len([]rune(rest)) > overflowKeepChars {
				rest = string([]rune(rest)[:overflowKeepChars]) + "..."
			}
			return append(lines, rest)
		}
	}

	if len(current) > 0 && len(lines) < maxTitleLines {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// drawTexts writes the wrapped name and the price centered below the photo box.
func drawTexts(dc *gg.Context, name, price string, faces Faces, canvasWidth int, photoPos, photoSize image.Point) {
	startY := float64(photoPos.Y + photoSize.Y + textTopGap)
	centerX := float64(canvasWidth / 2)

	lines := WrapText(name, canvasWidth-titleSideMargin)
	for i, line := range lines {
		faces.Title.draw(dc, line, centerX, startY+float64(i*titleLineSpacing), 0.5, 0.5, color.Black)
	}

	priceY := startY + singleLinePriceY
	if len(lines) > 1 {
		priceY = startY + float64(len(lines)*titleLineSpacing) + multiLinePriceY
	}
	faces.Price.draw(dc, price, centerX, priceY, 0.5, 0.5, priceColor)
}
