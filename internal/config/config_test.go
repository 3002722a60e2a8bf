package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 120
ramp = " .oO@"
color = true
color_profile = "ansi256"
max_pixels = 1000
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, " .oO@", cfg.Ramp)
	assert.True(t, cfg.Color)
	assert.Equal(t, "ansi256", cfg.ColorProfile)
	assert.Equal(t, uint64(1000), cfg.MaxPixels)
	// Untouched keys keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 640, cfg.SixelWidth)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	require.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnknownKeys(t *testing.T) {
	path := writeConfig(t, "widht = 10\n")
	_, err := Load(path, true)
	var unknown *UnknownKeysError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, err.Error(), "widht")
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, "width = \n")
	_, err := Load(path, true)
	require.Error(t, err)
}
