package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wbrown/pngascii"
	"github.com/wbrown/pngascii/imageutil"
	"github.com/wbrown/pngascii/internal/config"
	"github.com/wbrown/pngascii/internal/logging"
	"github.com/wbrown/pngascii/internal/oops"
	"github.com/wbrown/pngascii/pngdec"
)

type options struct {
	configPath string
	verbose    bool

	width     int
	ramp      string
	color     bool
	profile   string
	maxPixels uint64
	pngOut    string
	font      string
	fontSize  float64
	sixel     bool
}

func newRootCommand() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "pngascii [file]",
		Short: "Preview an 8-bit truecolor PNG as ASCII art",
		Args:  cobra.ExactArgs(1),
		// Errors are logged by the commands themselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &opts, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "TOML config file (default "+config.DefaultPath()+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log decode stages")

	f := root.Flags()
	f.IntVarP(&opts.width, "width", "w", 0, "Target width in characters")
	f.StringVar(&opts.ramp, "ramp", "", "Glyphs ordered dark to bright")
	f.BoolVarP(&opts.color, "color", "c", false, "Color each glyph with its sampled pixel")
	f.StringVar(&opts.profile, "profile", "", "Color profile: ascii, ansi, ansi256, truecolor or auto")
	f.Uint64Var(&opts.maxPixels, "max-pixels", 0, "Refuse images with more pixels than this (0 keeps the config value)")
	f.StringVarP(&opts.pngOut, "output", "o", "", "Also rasterize the preview to this image file")
	f.StringVar(&opts.font, "font", "", "TrueType font for --output (default built-in 7x13)")
	f.Float64Var(&opts.fontSize, "font-size", 0, "Point size for --font")
	f.BoolVar(&opts.sixel, "sixel", false, "Print the decoded image as sixel graphics instead of text")

	root.AddCommand(newChunksCommand(&opts), newHeaderCommand(&opts))
	return root
}

// loadConfig reads the config file, applies command line overrides and
// sets up logging.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	path, required := opts.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	logging.Init(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		err = oops.File(path, err, "failed to load config")
		logging.Error().Err(err).Msg("bad config")
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("ramp") {
		cfg.Ramp = opts.ramp
	}
	if flags.Changed("color") {
		cfg.Color = opts.color
	}
	if flags.Changed("profile") {
		cfg.ColorProfile = opts.profile
	}
	if flags.Changed("max-pixels") && opts.maxPixels > 0 {
		cfg.MaxPixels = opts.maxPixels
	}
	if flags.Changed("font") {
		cfg.Font = opts.font
	}
	if flags.Changed("font-size") {
		cfg.FontSize = opts.fontSize
	}
	return cfg, nil
}

func newRenderer(cfg config.Config) (*pngascii.Renderer, error) {
	rOpts := []pngascii.RendererOption{
		pngascii.WithTargetWidth(cfg.Width),
		pngascii.WithRamp(cfg.Ramp),
		pngascii.WithMaxPixels(cfg.MaxPixels),
		pngascii.WithMaxBytes(cfg.MaxBytes),
		pngascii.WithLogger(*logging.GlobalLogger()),
	}
	if cfg.Color {
		profile, err := pngascii.ParseProfile(cfg.ColorProfile)
		if err != nil {
			return nil, err
		}
		rOpts = append(rOpts, pngascii.WithColor(profile))
	}
	return pngascii.NewRenderer(rOpts...), nil
}

func runRender(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("bad renderer settings")
		return err
	}

	img, err := r.DecodeFile(path)
	if err != nil {
		err = oops.File(path, err, "failed to decode")
		logging.Error().Err(err).Msg("decode failed")
		return err
	}
	logging.Debug().Stringer("header", img.Header).Msg("decoded")

	out := cmd.OutOrStdout()
	if opts.sixel {
		if err := pngascii.WriteSixel(out, img, cfg.SixelWidth); err != nil {
			err = oops.New(err, "failed to write sixel output")
			logging.Error().Err(err).Msg("sixel failed")
			return err
		}
	} else if _, err := io.WriteString(out, r.Render(img).String()); err != nil {
		return err
	}

	if opts.pngOut != "" {
		face, err := pngascii.LoadFontFace(cfg.Font, cfg.FontSize)
		if err != nil {
			err = oops.File(cfg.Font, err, "failed to load font")
			logging.Error().Err(err).Msg("font failed")
			return err
		}
		err = pngascii.SaveCellsToPNG(r.Cells(img), opts.pngOut, pngascii.RenderOptions{
			Face:     face,
			UseColor: cfg.Color,
		})
		if err != nil {
			err = oops.File(opts.pngOut, err, "failed to write rendered preview")
			logging.Error().Err(err).Msg("export failed")
			return err
		}
		logging.Info().Str("path", opts.pngOut).Msg("wrote rendered preview")
	}
	return nil
}

func readInput(cmd *cobra.Command, opts *options, path string) ([]byte, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	data, err := imageutil.ReadFile(path, cfg.MaxBytes)
	if err != nil {
		err = oops.File(path, err, "failed to read")
		logging.Error().Err(err).Msg("read failed")
		return nil, err
	}
	return data, nil
}

func newChunksCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chunks [file]",
		Short: "List the chunks of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, opts, args[0])
			if err != nil {
				return err
			}
			chunks, err := pngdec.ListChunks(data)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tLENGTH\tCRC\tCRITICAL")
			for _, c := range chunks {
				fmt.Fprintf(tw, "%s\t%d\t%08x\t%t\n", c.Type, c.Length, c.CRC, c.Critical())
			}
			tw.Flush()

			if err != nil {
				logging.Error().Err(err).Int("chunks", len(chunks)).Msg("chunk stream is malformed")
			}
			return err
		},
	}
}

func newHeaderCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "header [file]",
		Short: "Print the IHDR fields of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, opts, args[0])
			if err != nil {
				return err
			}
			hdr, err := pngdec.ReadHeader(data)
			if err != nil {
				logging.Error().Err(err).Msg("malformed PNG")
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, hdr)
			if err := hdr.Validate(); err != nil {
				fmt.Fprintf(out, "unsupported: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "stride: %d bytes\n", hdr.Stride())
			return nil
		},
	}
}
