package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality; keeps hard pixel edges.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	}
	return draw.CatmullRom
}

// Resize scales any image to the specified dimensions using the given
// interpolation method.
func Resize(img image.Image, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio. Images already narrower than width are only converted.
func ResizeToWidth(img image.Image, width int, interp Interpolation) *RGBAImage {
	b := img.Bounds()
	if b.Dx() <= width || b.Dx() == 0 {
		return RGBAImageFromImage(img)
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}
