package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/lixenwraith/weatherfx/config"
	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/terminal"
)

// cliOptions is the environment configuration with command-line overrides applied
type cliOptions struct {
	cfg       *config.Config
	colorMode terminal.ColorMode
	list      bool
}

// parseArgs overlays flags on cfg; flag defaults show the environment values
func parseArgs(args []string, cfg *config.Config, out io.Writer) (cliOptions, error) {
	fs := flag.NewFlagSet("weatherfx", flag.ContinueOnError)
	fs.SetOutput(out)

	effectName := fs.String("effect", string(cfg.Effect), "Effect tag (see -list)")
	fs.Float64Var(&cfg.Opacity, "opacity", cfg.Opacity, "Opacity percent 0-100")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Frames per second")
	fs.StringVar(&cfg.Worker, "worker", cfg.Worker, "Isolated renderer: auto, off")
	fs.BoolVar(&cfg.SnowAccumulation, "snow-accumulation", cfg.SnowAccumulation, "Snow builds up on dashboard cards")
	fs.StringVar(&cfg.MatrixColor, "matrix-color", cfg.MatrixColor, "Digital rain color, #rgb or #rrggbb")
	fs.BoolVar(&cfg.ReducedMotion, "reduced-motion", cfg.ReducedMotion, "Simulate a reduced-motion preference")
	fs.BoolVar(&cfg.LowPower, "low-power", cfg.LowPower, "Use low-power particle counts")
	fs.BoolVar(&cfg.Audio, "audio", cfg.Audio, "Thunder sound on lightning strikes")
	fs.StringVar(&cfg.ControlAddr, "control", cfg.ControlAddr, "HTTP control address, empty disables")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Write logs to logs/weatherfx.log")
	colorFlag := fs.String("color", "auto", "Color mode: auto, truecolor, 256")
	list := fs.Bool("list", false, "List effects and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	tag, err := effect.Parse(*effectName)
	if err != nil {
		return cliOptions{}, err
	}
	cfg.Effect = tag
	if err := cfg.Validate(); err != nil {
		return cliOptions{}, err
	}

	var mode terminal.ColorMode
	switch *colorFlag {
	case "256":
		mode = terminal.ColorMode256
	case "truecolor", "true", "24bit":
		mode = terminal.ColorModeTrueColor
	case "auto":
		mode = terminal.DetectColorMode()
	default:
		return cliOptions{}, fmt.Errorf("unknown color mode %q", *colorFlag)
	}

	return cliOptions{cfg: cfg, colorMode: mode, list: *list}, nil
}
