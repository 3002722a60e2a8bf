// Package pngascii renders decoded PNG images as text. Pixels are
// subsampled on a grid sized for a target character width, and each sample
// is mapped to a glyph of a dark-to-bright ramp by its luminance.
package pngascii

import (
	"fmt"
	"math"
	"strings"

	"github.com/wbrown/pngascii/pngdec"
)

const (
	// DefaultRamp orders glyphs from darkest to brightest.
	DefaultRamp = " .:-=+*#%@"

	DefaultTargetWidth = 80

	// CellAspect is the width/height ratio of a terminal cell. Rows are
	// sampled this much more densely than columns' step would suggest, so
	// the preview keeps the image's proportions.
	CellAspect = 0.55
)

// Cell is one sampled position of the preview: the chosen glyph and the
// color it was sampled from.
type Cell struct {
	Glyph   rune
	R, G, B uint8
}

// Preview is the rendered text image.
type Preview struct {
	Width  uint32
	Height uint32
	Lines  []string
}

// String formats the preview the way the CLI prints it: a "PNG WxH"
// header followed by one line per sampled row.
func (p *Preview) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PNG %dx%d\n", p.Width, p.Height)
	for _, line := range p.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Rec. 709 luma weights scaled by 10000. Integer sums keep pure white at
// exactly 1.0.
const (
	lumaR     = 2126
	lumaG     = 7152
	lumaB     = 722
	lumaScale = (lumaR + lumaG + lumaB) * 255
)

func luma(r, g, b uint8) int {
	return lumaR*int(r) + lumaG*int(g) + lumaB*int(b)
}

// Luminance returns the Rec. 709 relative luminance of an 8-bit color in
// [0, 1].
func Luminance(r, g, b uint8) float64 {
	return float64(luma(r, g, b)) / lumaScale
}

// GlyphIndex quantizes a luminance into one of n ramp positions.
func GlyphIndex(l float64, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(math.Floor(l * float64(n-1)))
	if idx < 0 {
		return 0
	}
	return min(n-1, idx)
}

// glyphIndexRGB is GlyphIndex(Luminance(r, g, b), n) without the float
// rounding.
func glyphIndexRGB(r, g, b uint8, n int) int {
	if n <= 1 {
		return 0
	}
	return min(n-1, luma(r, g, b)*(n-1)/lumaScale)
}

// SampleSteps returns the column and row step used to subsample an image of
// the given width down to roughly targetWidth glyphs.
func SampleSteps(width uint32, targetWidth int) (xStep, yStep int) {
	if targetWidth <= 0 {
		targetWidth = DefaultTargetWidth
	}
	xStep = max(1, int(width)/targetWidth)
	yStep = max(1, int(math.Floor(float64(xStep)*CellAspect)))
	return xStep, yStep
}

// Sample subsamples img and maps every sampled pixel to a glyph of ramp.
// Alpha is ignored.
func Sample(img *pngdec.Image, targetWidth int, ramp []rune) [][]Cell {
	if len(ramp) == 0 {
		ramp = []rune(DefaultRamp)
	}
	xStep, yStep := SampleSteps(img.Width, targetWidth)
	width, height := int(img.Width), int(img.Height)

	var rows [][]Cell
	for y := 0; y < height; y += yStep {
		row := make([]Cell, 0, (width+xStep-1)/xStep)
		for x := 0; x < width; x += xStep {
			r, g, b, _ := img.At(x, y)
			row = append(row, Cell{
				Glyph: ramp[glyphIndexRGB(r, g, b, len(ramp))],
				R:     r,
				G:     g,
				B:     b,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// Lines joins the glyphs of each sampled row.
func Lines(cells [][]Cell) []string {
	lines := make([]string, len(cells))
	for i, row := range cells {
		var sb strings.Builder
		sb.Grow(len(row))
		for _, c := range row {
			sb.WriteRune(c.Glyph)
		}
		lines[i] = sb.String()
	}
	return lines
}

// RenderLines is Sample followed by Lines with the default ramp.
func RenderLines(img *pngdec.Image, targetWidth int) []string {
	return Lines(Sample(img, targetWidth, nil))
}
