package engine

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/renderer"
	"github.com/lixenwraith/weatherfx/worker"
)

// Worker is the isolated renderer as seen from the engine
type Worker interface {
	Post(msg worker.Message) error
	Responses() <-chan worker.Response
	Terminate()
}

// WorkerFactory starts an isolated renderer
type WorkerFactory func(opts worker.Options) (Worker, error)

// SpawnWorker is the default WorkerFactory
func SpawnWorker(opts worker.Options) (Worker, error) {
	return worker.Spawn(opts), nil
}

type options struct {
	logger       *slog.Logger
	metrics      *metrics.Metrics
	clock        clockwork.Clock
	supported    func() bool
	spawn        WorkerFactory
	newRenderer  worker.CoreFactory
	onStrike     func(effect.Strike)
	readyTimeout time.Duration
	seed         uint64
	frameSource  renderer.FrameSource
}

// Option configures an Engine
type Option func(*options)

func defaultOptions() options {
	return options{
		clock:        clockwork.NewRealClock(),
		supported:    func() bool { return true },
		spawn:        SpawnWorker,
		newRenderer:  worker.NewRendererCore,
		readyTimeout: parameter.WorkerReadyTimeout,
	}
}

// WithLogger overrides the package default logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records engine and renderer metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the clock for frame timers and the ready timeout
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithWorkerSupport overrides capability detection for the isolated path
func WithWorkerSupport(supported func() bool) Option {
	return func(o *options) {
		if supported != nil {
			o.supported = supported
		}
	}
}

// WithoutWorker forces the in-process path
func WithoutWorker() Option {
	return WithWorkerSupport(func() bool { return false })
}

// WithWorkerFactory replaces how the isolated renderer is started
func WithWorkerFactory(f WorkerFactory) Option {
	return func(o *options) {
		if f != nil {
			o.spawn = f
		}
	}
}

// WithRendererFactory replaces how the in-process renderer is constructed
func WithRendererFactory(f worker.CoreFactory) Option {
	return func(o *options) {
		if f != nil {
			o.newRenderer = f
		}
	}
}

// WithStrikeHandler receives lightning strikes from either path
func WithStrikeHandler(fn func(effect.Strike)) Option {
	return func(o *options) { o.onStrike = fn }
}

// WithReadyTimeout bounds the wait for the worker's Ready; zero disables it
func WithReadyTimeout(d time.Duration) Option {
	return func(o *options) { o.readyTimeout = d }
}

// WithFrameSource supplies the host's frame primitive; nil falls back to the timer shim
func WithFrameSource(src renderer.FrameSource) Option {
	return func(o *options) { o.frameSource = src }
}

// WithSeed fixes effect randomness
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// ===== START OPTIONS =====

type startParams struct {
	opacity       float64
	respectMotion bool
	extras        effect.Extras
}

// StartOption configures one Start call
type StartOption func(*startParams)

// WithOpacity sets the effect opacity percent; omitted keeps the current one
func WithOpacity(v float64) StartOption {
	return func(p *startParams) { p.opacity = v }
}

// WithReducedMotion honours the container's reduced-motion preference
func WithReducedMotion(respect bool) StartOption {
	return func(p *startParams) { p.respectMotion = respect }
}

// WithSnowAccumulation enables surface accumulation for snow effects
func WithSnowAccumulation(on bool) StartOption {
	return func(p *startParams) { p.extras.SnowAccumulation = on }
}

// WithMatrixRainColor tints the digital rain; empty keeps the default green
func WithMatrixRainColor(color string) StartOption {
	return func(p *startParams) { p.extras.MatrixRainColor = color }
}
