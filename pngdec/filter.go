package pngdec

import (
	"fmt"
	"math/bits"
)

// FilterType is the per-scanline predictor tag.
type FilterType uint8

const (
	FilterNone FilterType = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterSub:
		return "sub"
	case FilterUp:
		return "up"
	case FilterAverage:
		return "average"
	case FilterPaeth:
		return "paeth"
	}
	return fmt.Sprintf("filter(%d)", uint8(f))
}

// paeth picks whichever of left (a), up (b) and upper-left (c) is closest to
// a+b-c. Ties go to a, then b.
func paeth(a, b, c int) int {
	p := a + b - c
	pa := abs(p - a)
	pb := abs(p - b)
	pc := abs(p - c)

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Reconstruct reverses the scanline filters of an inflated IDAT stream and
// returns Height*Stride raw pixel bytes. The stream must hold at least
// Height*(1+Stride) bytes; anything beyond that is ignored.
func Reconstruct(filtered []byte, h Header) ([]byte, error) {
	bpp := h.BytesPerPixel()
	if bpp == 0 {
		return nil, &FormatError{Kind: UnsupportedColorType, Value: int(h.ColorType)}
	}
	need, ok := scanlineBytes(h)
	if !ok || need > uint64(len(filtered)) {
		return nil, truncated(fmt.Sprintf("%dx%d scanlines do not fit in %d bytes", h.Width, h.Height, len(filtered)))
	}
	// need <= len(filtered), so every product below fits in an int.
	stride := h.Stride()

	raw := make([]byte, int(h.Height)*stride)
	var prev []byte
	src := 0
	for y := 0; y < int(h.Height); y++ {
		f := FilterType(filtered[src])
		cur := raw[y*stride : (y+1)*stride]
		if err := unfilterRow(f, filtered[src+1:src+1+stride], cur, prev, bpp); err != nil {
			return nil, err
		}
		src += 1 + stride
		prev = cur
	}
	return raw, nil
}

// scanlineBytes returns Height*(1+Stride), the size of the filtered stream,
// and false if it does not fit in 64 bits.
func scanlineBytes(h Header) (uint64, bool) {
	hi, stride := bits.Mul64(uint64(h.Width), uint64(h.BytesPerPixel()))
	if hi != 0 {
		return 0, false
	}
	hi, need := bits.Mul64(uint64(h.Height), 1+stride)
	return need, hi == 0
}

// unfilterRow writes the reconstructed bytes of one scanline into cur. prev
// is the previous reconstructed row, nil for the first one. Bytes are
// produced left to right, so cur[x-bpp] is always final when it is read.
func unfilterRow(f FilterType, in, cur, prev []byte, bpp int) error {
	switch f {
	case FilterNone:
		copy(cur, in)
	case FilterSub:
		for x := range in {
			var left byte
			if x >= bpp {
				left = cur[x-bpp]
			}
			cur[x] = in[x] + left
		}
	case FilterUp:
		for x := range in {
			var up byte
			if prev != nil {
				up = prev[x]
			}
			cur[x] = in[x] + up
		}
	case FilterAverage:
		for x := range in {
			var left, up int
			if x >= bpp {
				left = int(cur[x-bpp])
			}
			if prev != nil {
				up = int(prev[x])
			}
			cur[x] = in[x] + byte((left+up)/2)
		}
	case FilterPaeth:
		for x := range in {
			var left, up, upLeft int
			if x >= bpp {
				left = int(cur[x-bpp])
			}
			if prev != nil {
				up = int(prev[x])
				if x >= bpp {
					upLeft = int(prev[x-bpp])
				}
			}
			cur[x] = in[x] + byte(paeth(left, up, upLeft))
		}
	default:
		return &FormatError{Kind: BadFilterType, Value: int(f)}
	}
	return nil
}
