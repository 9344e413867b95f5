// Command weatherfx-snapshot renders frames of an effect headlessly to PNG files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/snapshot"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "weatherfx-snapshot: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("weatherfx-snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)

	effectName := fs.String("effect", string(effect.Rain), "Effect tag")
	opacity := fs.Float64("opacity", 100, "Opacity percent 0-100")
	cols := fs.Int("cols", 100, "Grid width in cells")
	rows := fs.Int("rows", 36, "Grid height in cells")
	frames := fs.Int("frames", 120, "Frames to simulate at 60 FPS")
	every := fs.Int("every", 0, "Save every Nth frame; 0 saves only the last")
	dir := fs.String("out", "snapshots", "Output directory")
	prefix := fs.String("prefix", "", "File name prefix, defaults to the effect tag")
	seed := fs.Uint64("seed", 1, "Randomness seed")
	backdrop := fs.String("backdrop", "#1a1b26", "Backdrop color")
	accumulate := fs.Bool("snow-accumulation", false, "Enable snow accumulation bands")
	matrixColor := fs.String("matrix-color", "", "Digital rain color")
	verbose := fs.Bool("v", false, "Log each saved frame to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tag, err := effect.Parse(*effectName)
	if err != nil {
		return err
	}
	bg, err := render.ParseColor(*backdrop)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	strikes := 0
	paths, err := snapshot.Capture(ctx, snapshot.Options{
		Effect:   tag,
		Opacity:  *opacity,
		Extras:   effect.Extras{SnowAccumulation: *accumulate, MatrixRainColor: *matrixColor},
		Cols:     *cols,
		Rows:     *rows,
		Backdrop: bg,
		Frames:   *frames,
		Every:    *every,
		Dir:      *dir,
		Prefix:   *prefix,
		Seed:     *seed,
		Logger:   logger,
		OnStrike: func(effect.Strike) { strikes++ },
	})
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	if err != nil {
		return err
	}
	if strikes > 0 {
		logger.Info("lightning strikes during capture", "count", strikes)
	}
	return nil
}
