package pngascii

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/pngascii/imageutil"
)

// RenderOptions configures rasterizing a preview back into an image.
type RenderOptions struct {
	// Face draws the glyphs; nil uses the built-in 7x13 face.
	Face font.Face
	// UseColor draws each glyph in its sampled color instead of Foreground.
	UseColor   bool
	Foreground color.Color
	Background color.Color
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Face == nil {
		o.Face, _ = LoadFontFace("", 0)
	}
	if o.Foreground == nil {
		o.Foreground = color.White
	}
	if o.Background == nil {
		o.Background = color.Black
	}
	return o
}

// RenderCellsImage draws the sampled glyph grid with a font face, one
// character cell per Cell.
func RenderCellsImage(cells [][]Cell, opts RenderOptions) *imageutil.RGBAImage {
	opts = opts.withDefaults()
	cellW, cellH, ascent := cellMetrics(opts.Face)

	cols := 0
	for _, row := range cells {
		cols = max(cols, len(row))
	}
	img := imageutil.NewRGBAImage(cols*cellW, len(cells)*cellH)
	draw.Draw(img.RGBA, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img.RGBA,
		Src:  image.NewUniform(opts.Foreground),
		Face: opts.Face,
	}
	for y, row := range cells {
		for x, c := range row {
			if c.Glyph == ' ' {
				continue
			}
			if opts.UseColor {
				d.Src = image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
			d.Dot = fixed.P(x*cellW, y*cellH+ascent)
			d.DrawString(string(c.Glyph))
		}
	}
	return img
}

// SaveCellsToPNG rasterizes the glyph grid and writes it to path. The
// format follows the file extension (png, jpg, gif).
func SaveCellsToPNG(cells [][]Cell, path string, opts RenderOptions) error {
	return imageutil.SaveImage(RenderCellsImage(cells, opts), path)
}
