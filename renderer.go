package pngascii

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/wbrown/pngascii/imageutil"
	"github.com/wbrown/pngascii/pngdec"
)

// Renderer decodes PNG files and turns them into text previews. A Renderer
// is not mutated by rendering, so one value can serve concurrent calls.
type Renderer struct {
	// Configuration options
	TargetWidth int
	Ramp        []rune
	Color       bool
	Profile     termenv.Profile
	MaxPixels   uint64
	MaxBytes    int64

	inflater pngdec.Inflater
	logger   zerolog.Logger
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: TargetWidth=80, Ramp=DefaultRamp, no color, no pixel or
// byte limits, zlib inflation and a no-op logger.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		TargetWidth: DefaultTargetWidth,
		Ramp:        []rune(DefaultRamp),
		Profile:     termenv.Ascii,
		inflater:    pngdec.ZlibInflater{},
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithTargetWidth sets the target width in characters.
func WithTargetWidth(width int) RendererOption {
	return func(r *Renderer) {
		if width > 0 {
			r.TargetWidth = width
		}
	}
}

// WithRamp replaces the glyph ramp. Glyphs must be ordered dark to bright;
// an empty ramp keeps the default.
func WithRamp(ramp string) RendererOption {
	return func(r *Renderer) {
		if ramp != "" {
			r.Ramp = []rune(ramp)
		}
	}
}

// WithColor tints every glyph with its sampled color, downgraded to the
// given terminal profile.
func WithColor(profile termenv.Profile) RendererOption {
	return func(r *Renderer) {
		r.Color = profile != termenv.Ascii
		r.Profile = profile
	}
}

// WithMaxPixels rejects images with more than n pixels before their
// scanlines are inflated. Zero means unbounded.
func WithMaxPixels(n uint64) RendererOption {
	return func(r *Renderer) {
		r.MaxPixels = n
	}
}

// WithMaxBytes caps the size of files read by RenderFile.
func WithMaxBytes(n int64) RendererOption {
	return func(r *Renderer) {
		r.MaxBytes = n
	}
}

// WithInflater replaces the zlib inflater.
func WithInflater(in pngdec.Inflater) RendererOption {
	return func(r *Renderer) {
		r.inflater = in
	}
}

// WithLogger sets the logger handed to the decoder.
func WithLogger(logger zerolog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func (r *Renderer) decoder() *pngdec.Decoder {
	return pngdec.NewDecoder(
		pngdec.WithInflater(r.inflater),
		pngdec.WithLogger(r.logger),
		pngdec.WithPixelLimit(r.MaxPixels),
	)
}

// Decode decodes a PNG file held in memory.
func (r *Renderer) Decode(data []byte) (*pngdec.Image, error) {
	return r.decoder().Decode(data)
}

// DecodeFile reads and decodes the PNG at path.
func (r *Renderer) DecodeFile(path string) (*pngdec.Image, error) {
	data, err := imageutil.ReadFile(path, r.MaxBytes)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("read file")
	return r.Decode(data)
}

// Cells samples a decoded image with the renderer's width and ramp.
func (r *Renderer) Cells(img *pngdec.Image) [][]Cell {
	return Sample(img, r.TargetWidth, r.Ramp)
}

// Render turns a decoded image into a Preview. With color enabled every
// line carries the escape sequences of the configured profile.
func (r *Renderer) Render(img *pngdec.Image) *Preview {
	cells := r.Cells(img)
	lines := Lines(cells)
	if r.Color {
		lines = ColorLines(cells, r.Profile)
	}
	return &Preview{
		Width:  img.Width,
		Height: img.Height,
		Lines:  lines,
	}
}

// Preview decodes and renders data in one step. Nothing is returned on a
// decode error.
func (r *Renderer) Preview(data []byte) (*Preview, error) {
	img, err := r.Decode(data)
	if err != nil {
		return nil, err
	}
	return r.Render(img), nil
}

// RenderFile decodes the PNG at path and renders it.
func (r *Renderer) RenderFile(path string) (*Preview, error) {
	img, err := r.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return r.Render(img), nil
}

// WritePreview renders data and writes it to w.
func (r *Renderer) WritePreview(w io.Writer, data []byte) error {
	p, err := r.Preview(data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, p.String())
	return err
}
