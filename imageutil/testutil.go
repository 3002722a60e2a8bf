package imageutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image/color"
	"math"

	"github.com/klauspost/compress/zlib"
)

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(1, width-1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			isWhite := ((x/squareSize)+(y/squareSize))%2 == 0
			if isWhite {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(1, width/len(colors))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CreateNoisePixels returns width*height*bpp pseudo-random bytes from a
// fixed LCG, so every run sees the same "photographic" data.
func CreateNoisePixels(width, height, bpp int, seed uint32) []byte {
	pix := make([]byte, width*height*bpp)
	s := seed
	for i := range pix {
		s = s*1664525 + 1013904223
		pix[i] = byte(s >> 24)
	}
	return pix
}

// RawPixels flattens an RGBAImage into row-major RGB (bpp 3) or RGBA
// (bpp 4) bytes, the layout the decoder produces.
func RawPixels(img *RGBAImage, bpp int) []byte {
	w, h := img.Width(), img.Height()
	pix := make([]byte, 0, w*h*bpp)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(x, y)
			pix = append(pix, c.R, c.G, c.B)
			if bpp == 4 {
				pix = append(pix, c.A)
			}
		}
	}
	return pix
}

// CalculateMSE calculates the Mean Squared Error between two RGBA images.
func CalculateMSE(img1, img2 *RGBAImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height * 3) // 3 channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.RGBAAt(x, y)
			c2 := img2.RGBAAt(x, y)
			dr := float64(c1.R) - float64(c2.R)
			dg := float64(c1.G) - float64(c2.G)
			db := float64(c1.B) - float64(c2.B)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}

// Chunk is a raw chunk for EncodePNG to emit verbatim.
type Chunk struct {
	Type string
	Data []byte
}

// PNGOptions controls how EncodePNG lays out a fixture file.
type PNGOptions struct {
	// ColorType is written to IHDR as is; 2 and 6 are the decodable ones.
	ColorType uint8
	// BitDepth defaults to 8.
	BitDepth uint8
	// Filters picks the filter byte per row, cycling when shorter than the
	// image. Empty means filter 0 everywhere. Values above 4 are written
	// verbatim and the row data is left unfiltered.
	Filters []byte
	// IDATChunks splits the compressed stream into this many IDAT chunks.
	IDATChunks int
	// Before and After are emitted around the IDAT run, after IHDR.
	Before []Chunk
	After  []Chunk
	// OmitIEND leaves out the trailing IEND chunk.
	OmitIEND bool
	// Trailer is appended after IEND.
	Trailer []byte
}

// EncodePNG writes a PNG file for width x height pixels given as row-major
// bytes with bpp bytes per pixel. It is a fixture builder: it performs the
// forward scanline filters so decoders can be checked against known input.
func EncodePNG(pix []byte, width, height int, opts PNGOptions) []byte {
	bpp := 3
	if opts.ColorType == 6 {
		bpp = 4
	}
	depth := opts.BitDepth
	if depth == 0 {
		depth = 8
	}

	compressed := Deflate(FilterScanlines(pix, width, height, bpp, opts.Filters))

	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = depth
	ihdr[9] = opts.ColorType
	WriteChunk(&buf, "IHDR", ihdr)

	for _, c := range opts.Before {
		WriteChunk(&buf, c.Type, c.Data)
	}
	parts := max(1, opts.IDATChunks)
	size := (len(compressed) + parts - 1) / parts
	for i := 0; i < parts; i++ {
		lo := min(i*size, len(compressed))
		hi := min(lo+size, len(compressed))
		WriteChunk(&buf, "IDAT", compressed[lo:hi])
	}
	for _, c := range opts.After {
		WriteChunk(&buf, c.Type, c.Data)
	}
	if !opts.OmitIEND {
		WriteChunk(&buf, "IEND", nil)
	}
	buf.Write(opts.Trailer)
	return buf.Bytes()
}

// WriteChunk appends a length-prefixed, CRC-terminated chunk.
func WriteChunk(buf *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])
	buf.WriteString(typ)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	buf.Write(n[:])
}

// Deflate zlib-compresses data. Writing to a bytes.Buffer cannot fail, so
// any error is a bug in the fixture and panics.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		panic(fmt.Sprintf("deflate fixture: %v", err))
	}
	if err := zw.Close(); err != nil {
		panic(fmt.Sprintf("deflate fixture: %v", err))
	}
	return buf.Bytes()
}

// FilterScanlines prefixes every row with its filter byte and applies the
// forward filter, producing the stream a PNG encoder would deflate.
func FilterScanlines(pix []byte, width, height, bpp int, filters []byte) []byte {
	stride := width * bpp
	out := make([]byte, 0, height*(stride+1))
	var prev []byte
	for y := 0; y < height; y++ {
		row := pix[y*stride : (y+1)*stride]
		var f byte
		if len(filters) > 0 {
			f = filters[y%len(filters)]
		}
		out = append(out, f)
		out = append(out, filterRow(f, row, prev, bpp)...)
		prev = row
	}
	return out
}

func filterRow(f byte, row, prev []byte, bpp int) []byte {
	out := make([]byte, len(row))
	for x := range row {
		var a, b, c int
		if x >= bpp {
			a = int(row[x-bpp])
		}
		if prev != nil {
			b = int(prev[x])
			if x >= bpp {
				c = int(prev[x-bpp])
			}
		}
		var pred int
		switch f {
		case 1:
			pred = a
		case 2:
			pred = b
		case 3:
			pred = (a + b) / 2
		case 4:
			pred = paethPredictor(a, b, c)
		}
		out[x] = row[x] - byte(pred)
	}
	return out
}

func paethPredictor(a, b, c int) int {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
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
