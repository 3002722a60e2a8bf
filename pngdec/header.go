package pngdec

import (
	"encoding/binary"
	"fmt"
)

// ColorType is the IHDR color type. Only the two 8-bit truecolor layouts
// are decodable.
type ColorType uint8

const (
	Truecolor      ColorType = 2
	TruecolorAlpha ColorType = 6
)

// BytesPerPixel returns 3 for Truecolor, 4 for TruecolorAlpha and 0 for
// anything else.
func (c ColorType) BytesPerPixel() int {
	switch c {
	case Truecolor:
		return 3
	case TruecolorAlpha:
		return 4
	}
	return 0
}

func (c ColorType) String() string {
	switch c {
	case Truecolor:
		return "truecolor"
	case TruecolorAlpha:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("colortype(%d)", uint8(c))
}

// Header holds the IHDR fields the decoder consumes.
type Header struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType ColorType
}

const ihdrMinLength = 10

func parseIHDR(data []byte) (Header, error) {
	if len(data) < ihdrMinLength {
		return Header{}, truncated(fmt.Sprintf("IHDR is %d bytes", len(data)))
	}
	return Header{
		Width:     binary.BigEndian.Uint32(data[0:4]),
		Height:    binary.BigEndian.Uint32(data[4:8]),
		BitDepth:  data[8],
		ColorType: ColorType(data[9]),
	}, nil
}

// Validate reports whether the header is in the 8-bit truecolor subset the
// decoder handles.
func (h Header) Validate() error {
	if h.BitDepth != 8 {
		return &FormatError{Kind: UnsupportedBitDepth, Value: int(h.BitDepth)}
	}
	if h.ColorType.BytesPerPixel() == 0 {
		return &FormatError{Kind: UnsupportedColorType, Value: int(h.ColorType)}
	}
	return nil
}

func (h Header) BytesPerPixel() int {
	return h.ColorType.BytesPerPixel()
}

// Stride is the number of unfiltered bytes in one row.
func (h Header) Stride() int {
	return int(h.Width) * h.BytesPerPixel()
}

// Pixels returns Width*Height without overflowing.
func (h Header) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// HasAlpha reports whether each pixel carries a fourth, alpha byte.
func (h Header) HasAlpha() bool {
	return h.ColorType == TruecolorAlpha
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%d %d-bit %s", h.Width, h.Height, h.BitDepth, h.ColorType)
}
