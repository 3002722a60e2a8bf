// Package imageutil converts decoded pixel buffers to standard library
// images and provides the scaling, saving and fixture helpers used around
// the decoder.
package imageutil

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(rgba.RGBA, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// NRGBAFromRaw wraps row-major RGB or RGBA bytes (bpp 3 or 4) in an
// image.NRGBA. RGB input gets an opaque alpha channel. Missing trailing
// bytes read as zero.
func NRGBAFromRaw(pix []byte, width, height, bpp int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	at := func(i int) uint8 {
		if i < len(pix) {
			return pix[i]
		}
		return 0
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * bpp
			dst := img.PixOffset(x, y)
			img.Pix[dst] = at(src)
			img.Pix[dst+1] = at(src + 1)
			img.Pix[dst+2] = at(src + 2)
			if bpp == 4 {
				img.Pix[dst+3] = at(src + 3)
			} else {
				img.Pix[dst+3] = 0xff
			}
		}
	}
	return img
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}
