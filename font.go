package pngascii

import (
	"fmt"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontSize is the point size used for TrueType faces when none is
// configured. At 72 DPI one point is one pixel.
const DefaultFontSize = 13.0

// LoadFontFace loads a TrueType font from path as a face of the given
// point size. An empty path returns the built-in 7x13 bitmap face.
func LoadFontFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	if size <= 0 {
		size = DefaultFontSize
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// cellMetrics returns the pixel size of one character cell and the
// baseline offset within it. Monospace faces are assumed; the advance of
// 'M' is taken as the cell width.
func cellMetrics(face font.Face) (width, height, ascent int) {
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		adv = face.Metrics().Height / 2
	}
	m := face.Metrics()
	return max(1, adv.Ceil()), max(1, m.Height.Ceil()), m.Ascent.Ceil()
}
