package compositor

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	TitleSize       = 36
	PriceSize       = 52
	TableHeaderSize = 14
	TableCellSize   = 12
	PlaceholderSize = 20

	// nominal sizes the bitmap fallback is enlarged to for title and price
	fallbackTitleSize = 50
	fallbackPriceSize = 70
	fallbackGlyphSize = 13
)

var DefaultFontNames = []string{"arial.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf"}

var DefaultFontDirs = []string{
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts",
	"/Library/Fonts",
	`C:\Windows\Fonts`,
}

// FontLibrary holds the parsed TrueType font used for all text, or nothing
// when no candidate could be loaded and the built-in bitmap font applies.
// The parsed font is read-only; faces are created per composition.
type FontLibrary struct {
	font *truetype.Font
	path string
}

// LoadFontLibrary tries every name as given and then inside every directory,
// keeping the first file that parses.
func LoadFontLibrary(names, dirs []string, logger *slog.Logger) *FontLibrary {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "fonts")

	for _, name := range names {
		candidates := append([]string{name}, joinAll(dirs, name)...)
		for _, path := range candidates {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				logger.Warn("failed to parse font", "path", path, "error", err)
				continue
			}
			logger.Info("loaded font", "path", path)
			return &FontLibrary{font: f, path: path}
		}
	}

	logger.Warn("no TrueType font found, using built-in bitmap font", "names", names)
	return &FontLibrary{}
}

func joinAll(dirs []string, name string) []string {
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// Path returns the loaded font file, empty for the bitmap fallback.
func (l *FontLibrary) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Scalable reports whether a TrueType font was loaded.
func (l *FontLibrary) Scalable() bool {
	return l != nil && l.font != nil
}

// Faces is the set of text styles for one composition.
type Faces struct {
	Title       textStyle
	Price       textStyle
	TableHeader textStyle
	TableCell   textStyle
	Placeholder textStyle
}

// Faces returns fresh font faces. truetype faces keep glyph caches and must
// not be shared across goroutines.
func (l *FontLibrary) Faces() Faces {
	if !l.Scalable() {
		return Faces{
			Title:       textStyle{face: basicfont.Face7x13, scale: fallbackTitleSize / float64(fallbackGlyphSize)},
			Price:       textStyle{face: basicfont.Face7x13, scale: fallbackPriceSize / float64(fallbackGlyphSize)},
			TableHeader: textStyle{face: basicfont.Face7x13, scale: 1},
			TableCell:   textStyle{face: basicfont.Face7x13, scale: 1},
			Placeholder: textStyle{face: basicfont.Face7x13, scale: 1},
		}
	}
	return Faces{
		Title:       textStyle{face: l.face(TitleSize), scale: 1},
		Price:       textStyle{face: l.face(PriceSize), scale: 1},
		TableHeader: textStyle{face: l.face(TableHeaderSize), scale: 1},
		TableCell:   textStyle{face: l.face(TableCellSize), scale: 1},
		Placeholder: textStyle{face: l.face(PlaceholderSize), scale: 1},
	}
}

func (l *FontLibrary) face(size float64) font.Face {
	return truetype.NewFace(l.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}
