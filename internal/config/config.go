// Package config loads the CLI defaults from a TOML file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Width        int     `toml:"width"`
	Ramp         string  `toml:"ramp"`
	Color        bool    `toml:"color"`
	ColorProfile string  `toml:"color_profile"`
	MaxPixels    uint64  `toml:"max_pixels"`
	MaxBytes     int64   `toml:"max_bytes"`
	LogLevel     string  `toml:"log_level"`
	Font         string  `toml:"font"`
	FontSize     float64 `toml:"font_size"`
	SixelWidth   int     `toml:"sixel_width"`
}

// Default returns the settings used when no file overrides them. The pixel
// limit keeps a hostile IHDR from allocating gigabytes.
func Default() Config {
	return Config{
		Width:        80,
		Ramp:         " .:-=+*#%@",
		ColorProfile: "auto",
		MaxPixels:    64 << 20,
		MaxBytes:     256 << 20,
		LogLevel:     "info",
		FontSize:     13,
		SixelWidth:   640,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/pngascii/config.toml or its platform
// equivalent. It is empty when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pngascii", "config.toml")
}

// Load reads path on top of Default. A missing file is only an error when
// required is set, i.e. when the user named the file explicitly.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), &UnknownKeysError{Path: path, Keys: undecoded}
	}
	return cfg, nil
}

// UnknownKeysError reports keys in the config file that no setting uses,
// which is almost always a typo.
type UnknownKeysError struct {
	Path string
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	msg := e.Path + ": unknown keys:"
	for _, k := range e.Keys {
		msg += " " + k.String()
	}
	return msg
}
