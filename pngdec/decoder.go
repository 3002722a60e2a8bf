// Package pngdec decodes 8-bit truecolor PNG images into raw pixel bytes.
//
// Decoding is a linear pipeline: the chunk stream is walked for IHDR and
// IDAT, the IDAT payload is handed to an Inflater, and the inflated
// scanlines are defiltered into a row-major buffer. Interlacing, palettes,
// other bit depths and CRC checks are not supported.
//
// A Decoder holds no per-call state, so one value may be shared between
// goroutines as long as each call gets its own input.
package pngdec

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Image is a fully reconstructed pixel buffer: Height rows of Stride bytes,
// RGB or RGBA per pixel depending on ColorType.
type Image struct {
	Header
	Pix []byte
}

// At returns the channel bytes of pixel (x, y). Channels that fall outside
// Pix read as zero.
func (img *Image) At(x, y int) (r, g, b, a uint8) {
	bpp := img.BytesPerPixel()
	i := (y*int(img.Width) + x) * bpp
	r, g, b = img.byteAt(i), img.byteAt(i+1), img.byteAt(i+2)
	a = 0xff
	if img.HasAlpha() {
		a = img.byteAt(i + 3)
	}
	return r, g, b, a
}

func (img *Image) byteAt(i int) uint8 {
	if i < 0 || i >= len(img.Pix) {
		return 0
	}
	return img.Pix[i]
}

// Decoder runs the decode pipeline with a configurable Inflater.
type Decoder struct {
	inflater   Inflater
	logger     zerolog.Logger
	pixelLimit uint64
}

// DecoderOption is a functional option for configuring a Decoder.
type DecoderOption func(*Decoder)

// WithInflater replaces the default zlib Inflater.
func WithInflater(in Inflater) DecoderOption {
	return func(d *Decoder) {
		d.inflater = in
	}
}

// WithLogger sets the logger used for per-stage debug events.
func WithLogger(logger zerolog.Logger) DecoderOption {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// WithPixelLimit rejects headers whose Width*Height exceeds n before any
// decompression happens. Zero disables the check, which is the default.
func WithPixelLimit(n uint64) DecoderOption {
	return func(d *Decoder) {
		d.pixelLimit = n
	}
}

// NewDecoder creates a Decoder. Defaults: ZlibInflater, no logging, no
// pixel limit.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		inflater: ZlibInflater{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode turns a complete PNG file into an Image. On error nothing is
// returned besides the error.
func (d *Decoder) Decode(data []byte) (*Image, error) {
	hdr, compressed, err := ReadChunks(data)
	if err != nil {
		return nil, err
	}
	d.logger.Debug().
		Uint32("width", hdr.Width).
		Uint32("height", hdr.Height).
		Stringer("color_type", hdr.ColorType).
		Int("idat_bytes", len(compressed)).
		Msg("read chunk stream")

	if d.pixelLimit > 0 && hdr.Pixels() > d.pixelLimit {
		return nil, fmt.Errorf("%w: %dx%d is more than %d pixels",
			ErrImageTooLarge, hdr.Width, hdr.Height, d.pixelLimit)
	}

	filtered, err := inflate(d.inflater, compressed)
	if err != nil {
		return nil, err
	}
	d.logger.Debug().Int("inflated_bytes", len(filtered)).Msg("inflated scanlines")

	pix, err := Reconstruct(filtered, hdr)
	if err != nil {
		return nil, err
	}
	need, _ := scanlineBytes(hdr)
	if extra := uint64(len(filtered)) - need; extra > 0 {
		d.logger.Debug().Uint64("bytes", extra).Msg("ignoring trailing scanline data")
	}
	return &Image{Header: hdr, Pix: pix}, nil
}

var defaultDecoder = NewDecoder()

// Decode decodes data with a default Decoder.
func Decode(data []byte) (*Image, error) {
	return defaultDecoder.Decode(data)
}
