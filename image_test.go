package pngascii

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/pngascii/imageutil"
	"github.com/wbrown/pngascii/pngdec"
)

func TestRenderCellsImageSize(t *testing.T) {
	cells := [][]Cell{
		{{Glyph: '@', R: 255, G: 255, B: 255}, {Glyph: ' '}, {Glyph: '#', R: 200}},
		{{Glyph: ' '}, {Glyph: '@', R: 255, G: 255, B: 255}},
	}
	img := RenderCellsImage(cells, RenderOptions{})
	assert.Equal(t, 3*7, img.Width())
	assert.Equal(t, 2*13, img.Height())
}

func TestRenderCellsImageDrawsGlyphs(t *testing.T) {
	cells := [][]Cell{{{Glyph: '@', R: 255, G: 0, B: 0}, {Glyph: ' '}}}

	img := RenderCellsImage(cells, RenderOptions{UseColor: true})
	var lit, blankLit int
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			if x < 7 && c.R > 0 {
				lit++
				assert.Zero(t, c.G, "glyph should be drawn in its sampled color")
			}
			if x >= 7 && (c.R|c.G|c.B) != 0 {
				blankLit++
			}
		}
	}
	assert.Positive(t, lit, "glyph cell should contain ink")
	assert.Zero(t, blankLit, "space cell should stay background")

	mono := RenderCellsImage(cells, RenderOptions{Background: color.White, Foreground: color.Black})
	assert.Equal(t, imageutil.RGB{R: 255, G: 255, B: 255}, mono.GetRGB(mono.Width()-1, 0))
}

func TestSaveCellsToPNG(t *testing.T) {
	data := imageutil.EncodePNG(checker2x2, 2, 2, imageutil.PNGOptions{ColorType: 2})
	img, err := pngdec.Decode(data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, SaveCellsToPNG(Sample(img, 2, nil), path, RenderOptions{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Width)
	assert.Equal(t, 26, cfg.Height)
}

func TestLoadFontFace(t *testing.T) {
	face, err := LoadFontFace("", 0)
	require.NoError(t, err)
	w, h, ascent := cellMetrics(face)
	assert.Equal(t, 7, w)
	assert.Equal(t, 13, h)
	assert.Equal(t, 11, ascent)

	_, err = LoadFontFace(filepath.Join(t.TempDir(), "missing.ttf"), 12)
	assert.Error(t, err)

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a font"), 0o644))
	_, err = LoadFontFace(bogus, 12)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to parse font"))
}
