package imageutil

import (
	"bytes"
	"errors"
	"image"
	"io"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestNRGBAFromRaw(t *testing.T) {
	rgb := []byte{10, 20, 30, 40, 50, 60}
	img := NRGBAFromRaw(rgb, 2, 1, 3)
	if got := img.NRGBAAt(1, 0); got.R != 40 || got.G != 50 || got.B != 60 || got.A != 255 {
		t.Errorf("RGB pixel should be opaque 40,50,60, got %v", got)
	}

	rgba := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img = NRGBAFromRaw(rgba, 2, 1, 4)
	if got := img.NRGBAAt(1, 0); got.R != 5 || got.A != 8 {
		t.Errorf("RGBA pixel should keep alpha 8, got %v", got)
	}

	// Short buffers read as zero instead of panicking
	img = NRGBAFromRaw([]byte{9}, 2, 1, 3)
	if got := img.NRGBAAt(1, 0); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Missing bytes should be zero, got %v", got)
	}
}

func TestRawPixelsRoundTrip(t *testing.T) {
	src := CreateColorBarsImage(16, 4)
	raw := RawPixels(src, 3)
	if len(raw) != 16*4*3 {
		t.Fatalf("Expected %d bytes, got %d", 16*4*3, len(raw))
	}
	back := RGBAImageFromImage(NRGBAFromRaw(raw, 16, 4, 3))
	if mse := CalculateMSE(src, back); mse != 0 {
		t.Errorf("Round trip through raw bytes should be lossless, MSE %f", mse)
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)
	resized := Resize(img, 50, 25, InterpolationArea)

	if resized.Width() != 50 || resized.Height() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeToWidth(t *testing.T) {
	img := CreateCheckerboardImage(200, 100, 10)
	resized := ResizeToWidth(img, 50, InterpolationNearest)
	if resized.Width() != 50 || resized.Height() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", resized.Width(), resized.Height())
	}

	// Narrower images are left alone
	small := ResizeToWidth(img, 400, InterpolationNearest)
	if small.Width() != 200 || small.Height() != 100 {
		t.Errorf("Expected 200x100, got %dx%d", small.Width(), small.Height())
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.png")

	img := CreateColorBarsImage(80, 60)
	if err := SaveImage(img, path); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	data, err := ReadFile(path, 0)
	if err != nil {
		t.Fatalf("Failed to read image: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode image: %v", err)
	}
	if mse := CalculateMSE(img, RGBAImageFromImage(decoded)); mse > 0 {
		t.Errorf("PNG save/load should be lossless, got MSE %f", mse)
	}

	if _, err := ReadFile(path, 16); err == nil {
		t.Error("ReadFile should refuse files above the size limit")
	}
	if _, err := ReadFile(filepath.Join(tmpDir, "missing.png"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestCalculateMSE(t *testing.T) {
	img1 := CreateSolidImage(10, 10, RGB{R: 100, G: 100, B: 100})
	img2 := CreateSolidImage(10, 10, RGB{R: 100, G: 100, B: 100})

	if mse := CalculateMSE(img1, img2); mse != 0 {
		t.Errorf("Identical images should have MSE 0, got %f", mse)
	}

	img3 := CreateSolidImage(10, 10, RGB{R: 110, G: 100, B: 100})
	// Only R differs by 10, so MSE = (10^2) / 3
	expected := 100.0 / 3.0
	if mse := CalculateMSE(img1, img3); mse < expected-0.01 || mse > expected+0.01 {
		t.Errorf("Expected MSE ~%f, got %f", expected, mse)
	}
}

// The fixture encoder is checked against image/png so the decoder tests can
// trust it for every filter type.
func TestEncodePNGMatchesStandardDecoder(t *testing.T) {
	tests := []struct {
		name      string
		colorType uint8
		bpp       int
		filters   []byte
	}{
		{"rgb none", 2, 3, nil},
		{"rgb sub", 2, 3, []byte{1}},
		{"rgb up", 2, 3, []byte{2}},
		{"rgb average", 2, 3, []byte{3}},
		{"rgb paeth", 2, 3, []byte{4}},
		{"rgba mixed", 6, 4, []byte{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const w, h = 13, 7
			pix := CreateNoisePixels(w, h, tt.bpp, 42)
			data := EncodePNG(pix, w, h, PNGOptions{
				ColorType:  tt.colorType,
				Filters:    tt.filters,
				IDATChunks: 3,
				Before:     []Chunk{{Type: "tEXt", Data: []byte("Comment\x00fixture")}},
			})

			decoded, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("image/png rejected fixture: %v", err)
			}
			got := image.NewNRGBA(decoded.Bounds())
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					got.Set(x, y, decoded.At(x, y))
				}
			}
			want := NRGBAFromRaw(pix, w, h, tt.bpp)
			if !bytes.Equal(got.Pix, want.Pix) {
				t.Error("Decoded fixture differs from source pixels")
			}
		})
	}
}

func TestDeflateInflatesBack(t *testing.T) {
	for _, data := range [][]byte{nil, {0}, CreateNoisePixels(64, 64, 4, 2)} {
		var compressed []byte
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Deflate panicked on %d bytes: %v", len(data), r)
				}
			}()
			compressed = Deflate(data)
		}()

		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			t.Fatalf("Deflate output is not a zlib stream: %v", err)
		}
		back, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("Failed to inflate %d bytes: %v", len(data), err)
		}
		if !bytes.Equal(back, data) && len(data) > 0 {
			t.Errorf("Round trip of %d bytes changed the data", len(data))
		}
	}
}
