package pngascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ParseProfile maps a profile name to a termenv profile. "auto" inspects
// the environment (NO_COLOR, COLORTERM, TERM).
func ParseProfile(name string) (termenv.Profile, error) {
	switch strings.ToLower(name) {
	case "", "none", "ascii":
		return termenv.Ascii, nil
	case "ansi", "ansi16":
		return termenv.ANSI, nil
	case "ansi256", "256":
		return termenv.ANSI256, nil
	case "truecolor", "24bit":
		return termenv.TrueColor, nil
	case "auto":
		return termenv.EnvColorProfile(), nil
	}
	return termenv.Ascii, fmt.Errorf("unknown color profile %q, options are ascii, ansi, ansi256, truecolor or auto", name)
}

func cellHex(c Cell) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ColorLines renders each row of cells with its glyphs colored by the
// sampled pixel. Adjacent cells with the same color share one escape
// sequence. With termenv.Ascii the result equals Lines(cells).
func ColorLines(cells [][]Cell, profile termenv.Profile) []string {
	if profile == termenv.Ascii {
		return Lines(cells)
	}
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(profile)

	lines := make([]string, len(cells))
	for i, row := range cells {
		var sb strings.Builder
		for start := 0; start < len(row); {
			hex := cellHex(row[start])
			end := start + 1
			for end < len(row) && cellHex(row[end]) == hex {
				end++
			}
			var run strings.Builder
			for _, c := range row[start:end] {
				run.WriteRune(c.Glyph)
			}
			style := renderer.NewStyle().Foreground(lipgloss.Color(hex))
			sb.WriteString(style.Render(run.String()))
			start = end
		}
		lines[i] = sb.String()
	}
	return lines
}
