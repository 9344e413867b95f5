package worker

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/renderer"
)

// Core is the renderer surface the adapter drives
type Core interface {
	Start(tag effect.Tag, opacity float64, extras effect.Extras)
	Stop()
	SetOpacity(value float64)
	SetSnowSurfaces(surfaces []effect.SnowSurface)
	Resize(width, height int, pixelRatio float64, mobile bool)
	Destroy()
}

// CoreFactory constructs the renderer on Init
type CoreFactory func(opts renderer.Options) (Core, error)

// NewRendererCore is the default CoreFactory
func NewRendererCore(opts renderer.Options) (Core, error) {
	r, err := renderer.New(opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Adapter forwards messages to a privately held renderer
// Not safe for concurrent use; the worker loop is its only caller
type Adapter struct {
	post    func(Response)
	factory CoreFactory
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	seed    uint64

	core Core
}

// NewAdapter creates an adapter that reports through post
func NewAdapter(post func(Response), factory CoreFactory, clock clockwork.Clock, logger *slog.Logger, m *metrics.Metrics, seed uint64) *Adapter {
	if factory == nil {
		factory = NewRendererCore
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		post:    post,
		factory: factory,
		clock:   clock,
		logger:  logger,
		metrics: m,
		seed:    seed,
	}
}

// Handle processes one message; panics become Error responses
func (a *Adapter) Handle(msg Message) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("worker message panicked", "kind", msg.Kind(), "panic", p)
			a.post(errorf("%s: %v", msg.Kind(), p))
		}
	}()

	if m, ok := msg.(Init); ok {
		a.init(m)
		return
	}
	if a.core == nil {
		// Renderer not built yet or already disposed
		a.logger.Debug("message dropped, no renderer", "kind", msg.Kind())
		return
	}

	switch m := msg.(type) {
	case Start:
		a.core.Start(m.Effect, m.Opacity, m.Extras)
	case SetOpacity:
		a.core.SetOpacity(m.Value)
	case Resize:
		a.core.Resize(m.Width, m.Height, m.PixelRatio, m.Mobile)
	case SetSnowSurfaces:
		a.core.SetSnowSurfaces(m.Surfaces)
	case Stop:
		a.core.Stop()
	case Dispose:
		a.Close()
	}
}

func (a *Adapter) init(m Init) {
	if a.core != nil {
		a.post(errorf("INIT: renderer already initialized"))
		return
	}
	core, err := a.factory(renderer.Options{
		Surface:     m.Surface,
		FrameSource: m.FrameSource,
		PixelRatio:  m.PixelRatio,
		Width:       m.Width,
		Height:      m.Height,
		Mobile:      m.Mobile,
		Clock:       a.clock,
		Logger:      a.logger,
		Metrics:     a.metrics,
		Seed:        a.seed,
		OnStrike:    func(s effect.Strike) { a.post(Strike{Intensity: s.Intensity}) },
		OnError:     func(err error) { a.post(Error{Message: err.Error()}) },
	})
	if err != nil {
		a.logger.Error("renderer construction failed", "error", err)
		a.post(errorf("INIT: %v", err))
		return
	}
	a.core = core
	a.post(Ready{})
}

// Close destroys the renderer if one was built; idempotent
func (a *Adapter) Close() {
	if a.core == nil {
		return
	}
	a.core.Destroy()
	a.core = nil
}

// Initialized reports whether a renderer is held
func (a *Adapter) Initialized() bool {
	return a.core != nil
}
