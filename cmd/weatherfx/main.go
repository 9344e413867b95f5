// Command weatherfx paints weather effects over a terminal dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"slices"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lixenwraith/weatherfx/audio"
	"github.com/lixenwraith/weatherfx/config"
	"github.com/lixenwraith/weatherfx/control"
	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/engine"
	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/renderer"
	"github.com/lixenwraith/weatherfx/terminal"
)

// opacityStep is the +/- key increment in percent
const opacityStep = 10.0

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(2)
	}
	opts, err := parseArgs(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if opts.list {
		for _, t := range effect.Tags() {
			fmt.Println(t)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "weatherfx: %v\n", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	cfg := opts.cfg
	logFile, logger := setupLogging(cfg.Debug, cfg.LogLevel, cfg.LogFormat)
	if logFile != nil {
		defer logFile.Close()
	}
	engine.SetLogger(logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	// Panic recovery: ensure the terminal is restored even if the demo crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mWEATHERFX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetricsWithRegistry(reg)

	var thunder *audio.AudioEngine
	if cfg.Audio {
		acfg := audio.DefaultAudioConfig()
		acfg.Backend = cfg.AudioBackend
		acfg.MasterVolume = cfg.AudioVolume
		thunder = audio.NewAudioEngine(acfg, logger)
		if err := thunder.Start(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		}
		defer thunder.Stop()
	}

	dash := newDashboard(screen)
	container := terminal.NewContainer(screen, terminal.ContainerOptions{
		Rows:          dash.overlayRows(),
		Mode:          opts.colorMode,
		Mobile:        cfg.LowPower,
		ReducedMotion: cfg.ReducedMotion,
	})

	clock := clockwork.NewRealClock()
	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMetrics(m),
		engine.WithClock(clock),
		engine.WithFrameSource(renderer.NewTimerScheduler(clock, cfg.FrameInterval())),
		engine.WithStrikeHandler(func(s effect.Strike) {
			if thunder != nil {
				thunder.Strike(s.Intensity)
			}
		}),
	}
	if !cfg.UseWorker() {
		engineOpts = append(engineOpts, engine.WithoutWorker())
	}
	fx, err := engine.New(container, engineOpts...)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer fx.Destroy()
	logger.Info("engine created", "id", fx.ID(), "effect", cfg.Effect, "worker", cfg.Worker)

	app := &app{
		cfg:       cfg,
		screen:    screen,
		dash:      dash,
		container: container,
		fx:        fx,
		thunder:   thunder,
		logger:    logger,
		tags:      slices.DeleteFunc(effect.Tags(), func(t effect.Tag) bool { return t == effect.None }),
	}
	app.current = slices.Index(app.tags, cfg.Effect)

	if cfg.ControlAddr != "" {
		srv := control.NewServer(cfg.ControlAddr, fx,
			control.WithGatherer(reg),
			control.WithLogger(logger),
			control.WithReducedMotionDefault(cfg.RespectReducedMotion),
		)
		go func() {
			if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
				logger.Error("control server stopped", "error", err)
			}
		}()
	}

	app.redraw()
	fx.UpdateSnowSurfaces(dash.surfaces())
	app.start(cfg.Effect)

	return app.loop(ctx)
}

// app wires host input to the engine
type app struct {
	cfg       *config.Config
	screen    tcell.Screen
	dash      *dashboard
	container *terminal.Container
	fx        *engine.Engine
	thunder   *audio.AudioEngine
	logger    *slog.Logger

	tags    []effect.Tag
	current int // index into tags, -1 when stopped
}

func (a *app) start(tag effect.Tag) {
	if tag == effect.None {
		a.fx.Stop()
		a.current = -1
	} else {
		a.fx.Start(tag,
			engine.WithOpacity(a.fx.Opacity()),
			engine.WithReducedMotion(a.cfg.RespectReducedMotion),
			engine.WithSnowAccumulation(a.cfg.SnowAccumulation),
			engine.WithMatrixRainColor(a.cfg.MatrixColor),
		)
	}
	a.redraw()
}

// redraw repaints the host with overlay frames held off
func (a *app) redraw() {
	name := string(a.fx.ActiveEffect())
	if name == "" {
		name = "stopped"
	}
	audioState := "off"
	if a.thunder != nil {
		switch {
		case a.thunder.IsEnabled():
			audioState = a.thunder.Backend()
		case a.thunder.IsMuted():
			audioState = "muted"
		default:
			audioState = "silent"
		}
	}
	a.dash.setStatus(name, a.fx.Opacity(), a.fx.Path().String(), a.fx.State().String(), audioState)
	a.container.Redraw(a.dash.draw)
}

func (a *app) step(delta int) {
	if len(a.tags) == 0 {
		return
	}
	a.current = (max(a.current, 0) + delta + len(a.tags)) % len(a.tags)
	a.start(a.tags[a.current])
}

func (a *app) loop(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
				a.dash.layout()
				a.container.SetBounds(0, 0, 0, a.dash.overlayRows())
				a.fx.HandleResize()
				a.fx.UpdateSnowSurfaces(a.dash.surfaces())
				a.redraw()

			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return nil
				}
			}
		}
	}
}

// handleKey applies one key press; false quits
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		a.step(1)
		return true
	case tcell.KeyLeft:
		a.step(-1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'n':
		a.step(1)
	case 'p':
		a.step(-1)
	case '+', '=':
		a.fx.SetOpacity(a.fx.Opacity() + opacityStep)
		a.redraw()
	case '-':
		a.fx.SetOpacity(a.fx.Opacity() - opacityStep)
		a.redraw()
	case ' ':
		if a.fx.ActiveEffect() != "" {
			a.start(effect.None)
		} else {
			a.step(0)
		}
	case 'r':
		a.container.SetReducedMotion(!a.container.PrefersReducedMotion())
		a.logger.Info("reduced motion toggled", "on", a.container.PrefersReducedMotion())
		a.step(0)
	case 'm':
		if a.thunder != nil {
			a.thunder.ToggleMute()
			a.redraw()
		}
	}
	return true
}
