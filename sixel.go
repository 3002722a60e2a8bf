package pngascii

import (
	"io"

	"github.com/mattn/go-sixel"

	"github.com/wbrown/pngascii/imageutil"
	"github.com/wbrown/pngascii/pngdec"
)

// DefaultSixelWidth bounds the pixel width of sixel output.
const DefaultSixelWidth = 640

// WriteSixel writes the decoded pixels to w as a DEC sixel sequence,
// scaled down to maxWidth pixels when wider.
func WriteSixel(w io.Writer, img *pngdec.Image, maxWidth int) error {
	if maxWidth <= 0 {
		maxWidth = DefaultSixelWidth
	}
	src := imageutil.NRGBAFromRaw(img.Pix, int(img.Width), int(img.Height), img.BytesPerPixel())
	scaled := imageutil.ResizeToWidth(src, maxWidth, imageutil.InterpolationArea)
	return sixel.NewEncoder(w).Encode(scaled.RGBA)
}
