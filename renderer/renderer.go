// Package renderer owns the render target and the frame loop for one active effect.
// The same Renderer runs in-process or inside a worker; only the scheduler differs.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// ErrNoSurface is returned when a renderer is constructed without a render target
var ErrNoSurface = errors.New("renderer: no surface")

// Options configures a Renderer
type Options struct {
	Surface    render.Surface
	PixelRatio float64
	Width      int // viewport, device-independent pixels
	Height     int
	Mobile     bool

	// Scheduler overrides frame scheduling; otherwise FrameSource or a timer shim on Clock
	Scheduler   Scheduler
	FrameSource FrameSource
	Clock       clockwork.Clock

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Factory builds effects; defaults to effect.New
	Factory effect.Builder
	Seed    uint64

	// OnStrike receives lightning strikes from the active effect
	OnStrike func(effect.Strike)
	// OnError receives frame failures; the loop halts before it is called
	OnError func(error)
}

// Renderer drives one effect instance into one surface
// Methods are safe for concurrent use; frame ticks arrive on scheduler goroutines
type Renderer struct {
	mu sync.Mutex

	surface   render.Surface
	scheduler Scheduler
	clock     clockwork.Clock
	factory   effect.Builder
	logger    *slog.Logger
	metrics   *metrics.Metrics
	onStrike  func(effect.Strike)
	onError   func(error)
	seed      uint64

	buf    *render.Buffer
	root   *scene.Group
	camera *scene.Camera
	view   render.View
	mobile bool

	active    effect.Effect
	activeTag effect.Tag
	extras    effect.Extras
	opacity   float64 // percent
	surfaces  []effect.SnowSurface

	running   bool
	frame     FrameID
	gen       uint64 // bumped per loop start; ticks from older loops are dropped
	strikes   []effect.Strike // collected during a frame, delivered after unlock
	last      time.Time
	elapsed   float64
	frames    uint64
	builds    uint64
	destroyed bool
}

// New constructs a renderer bound to opts.Surface
func New(opts Options) (*Renderer, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = SelectScheduler(opts.FrameSource, clock, parameter.FrameInterval)
	}
	factory := opts.Factory
	if factory == nil {
		factory = effect.New
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(clock.Now().UnixNano())
	}

	r := &Renderer{
		surface:   opts.Surface,
		scheduler: scheduler,
		clock:     clock,
		factory:   factory,
		logger:    logger,
		metrics:   opts.Metrics,
		onStrike:  opts.OnStrike,
		onError:   opts.OnError,
		seed:      seed,
		root:      scene.NewGroup("root"),
		opacity:   parameter.OpacityDefault,
	}
	r.buf = render.NewBuffer(0, 0)
	r.camera = scene.NewCamera(render.View{})
	r.resizeLocked(opts.Width, opts.Height, opts.PixelRatio, opts.Mobile)
	return r, nil
}

// ===== PUBLIC OPERATIONS =====

// Start activates tag; an unchanged tag and extras only update opacity and keep the instance
func (r *Renderer) Start(tag effect.Tag, opacity float64, extras effect.Extras) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	if tag == effect.None || tag == "" {
		r.stopLocked()
		return
	}

	if r.active != nil && tag == r.activeTag && extras == r.extras {
		r.setOpacityLocked(opacity)
		r.startLoopLocked()
		return
	}

	r.disposeActiveLocked()
	r.activeTag = tag
	r.extras = extras
	r.opacity = vmath.Clamp(opacity, parameter.OpacityMin, parameter.OpacityMax)
	if !r.buildLocked() {
		r.logger.Debug("no effect for tag, renderer idle", "effect", tag)
		r.stopLocked()
		return
	}
	r.elapsed = 0
	r.startLoopLocked()
}

// Stop disposes the active effect and halts the loop; idempotent
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// SetOpacity clamps percent to [0, 100] and forwards it to the active effect
func (r *Renderer) SetOpacity(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setOpacityLocked(value)
}

// SetSnowSurfaces stores surfaces and forwards them to a surface-aware effect
func (r *Renderer) SetSnowSurfaces(surfaces []effect.SnowSurface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.surfaces = slices.Clone(surfaces)
	if sa, ok := r.active.(effect.SurfaceAware); ok {
		sa.SetSnowSurfaces(r.surfaces)
	}
}

// Resize recomputes the logical view and adapts or rebuilds the active effect
func (r *Renderer) Resize(width, height int, pixelRatio float64, mobile bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.resizeLocked(width, height, pixelRatio, mobile)

	if r.active == nil {
		return
	}
	if rs, ok := r.active.(effect.Resizer); ok {
		rs.OnResize(r.buildContext())
		return
	}
	// No resize hook: rebuild so internals match the new dimensions
	r.logger.Debug("rebuilding effect after resize", "effect", r.activeTag)
	r.disposeActiveLocked()
	if !r.buildLocked() {
		r.stopLocked()
	}
}

// Destroy stops, releases the surface and clears the scene; idempotent
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.stopLocked()
	r.destroyed = true
	r.root.Dispose()
	r.surface.Release()
}

// ===== INTROSPECTION =====

// Active returns the live effect instance, nil when idle
func (r *Renderer) Active() effect.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// ActiveTag returns the tag of the live effect, empty when idle
func (r *Renderer) ActiveTag() effect.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeTag
}

// Running reports whether the frame loop is scheduled
func (r *Renderer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Opacity returns the current opacity percent
func (r *Renderer) Opacity() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opacity
}

// View returns the current logical view
func (r *Renderer) View() render.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Frames returns the number of presented frames
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Destroyed reports whether Destroy has run
func (r *Renderer) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// ===== INTERNALS (caller holds mu) =====

func (r *Renderer) resizeLocked(width, height int, pixelRatio float64, mobile bool) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.mobile = mobile
	r.surface.Resize(width, height, pixelRatio)
	cols, rows := r.surface.Size()
	r.buf.Resize(cols, rows)
	r.view = render.NewView(width, height, pixelRatio, cols, rows)
	r.camera.SetView(r.view)
}

func (r *Renderer) buildContext() effect.BuildContext {
	return effect.BuildContext{
		ViewWidth:      r.view.Width,
		ViewHeight:     r.view.Height,
		ViewportWidth:  r.view.ViewportWidth,
		ViewportHeight: r.view.ViewportHeight,
		PixelRatio:     r.view.PixelRatio,
		Cols:           r.view.Cols,
		Rows:           r.view.Rows,
		Mobile:         r.mobile,
		Effect:         r.activeTag,
		Opacity:        r.opacity / 100,
		Extras:         r.extras,
		Seed:           vmath.Seed64(r.seed, r.builds),
		OnStrike:       r.strike,
	}
}

// buildLocked constructs the effect for activeTag, returns false when the factory yields none
func (r *Renderer) buildLocked() bool {
	r.builds++
	e := r.factory(r.buildContext())
	if e == nil {
		return false
	}
	r.active = e
	r.root.Add(e.Group())
	e.SetOpacity(r.opacity)
	if sa, ok := e.(effect.SurfaceAware); ok && len(r.surfaces) > 0 {
		sa.SetSnowSurfaces(r.surfaces)
	}
	r.metrics.EffectBuilt(string(r.activeTag))
	r.logger.Debug("effect built", "effect", r.activeTag, "cols", r.view.Cols, "rows", r.view.Rows)
	return true
}

func (r *Renderer) disposeActiveLocked() {
	if r.active == nil {
		return
	}
	r.root.Remove(r.active.Group())
	r.active.Dispose()
	r.active = nil
	r.metrics.EffectDisposed()
}

func (r *Renderer) stopLocked() {
	r.disposeActiveLocked()
	r.activeTag = ""
	r.extras = effect.Extras{}
	r.elapsed = 0
	r.haltLocked()

	// Present an empty frame so the overlay disappears
	if !r.destroyed && r.buf.TouchedCount() > 0 {
		r.buf.Clear()
		if err := r.surface.Present(r.buf); err != nil {
			r.logger.Warn("clear present failed", "error", err)
		}
	}
}

func (r *Renderer) haltLocked() {
	if r.running {
		r.scheduler.Cancel(r.frame)
	}
	r.running = false
	r.frame = 0
}

func (r *Renderer) setOpacityLocked(value float64) {
	r.opacity = vmath.Clamp(value, parameter.OpacityMin, parameter.OpacityMax)
	if r.active != nil {
		r.active.SetOpacity(r.opacity)
	}
}

func (r *Renderer) startLoopLocked() {
	if r.running || r.active == nil {
		return
	}
	r.running = true
	r.gen++
	r.last = r.clock.Now()
	r.requestLocked()
}

// requestLocked schedules the next tick bound to the current loop generation
func (r *Renderer) requestLocked() {
	gen := r.gen
	r.frame = r.scheduler.Request(func(now time.Time) { r.tick(gen, now) })
}

// strike is invoked by effects during Update with mu held, so delivery is deferred
func (r *Renderer) strike(s effect.Strike) {
	r.metrics.Strike()
	if r.onStrike != nil {
		r.strikes = append(r.strikes, s)
	}
}

// ===== FRAME LOOP =====

// tick advances, draws, presents and reschedules one frame
// Callbacks run after the lock is released so they may call back into the renderer
func (r *Renderer) tick(gen uint64, now time.Time) {
	strikes, err := r.advance(gen, now)
	for _, s := range strikes {
		r.onStrike(s)
	}
	if err != nil && r.onError != nil {
		r.onError(err)
	}
}

func (r *Renderer) advance(gen uint64, now time.Time) (strikes []effect.Strike, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A callback dequeued before Stop may run after a later Start
	if !r.running || r.destroyed || r.active == nil || gen != r.gen {
		return nil, nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("frame panic in %s: %v", r.activeTag, p)
		}
		strikes, r.strikes = r.strikes, nil
		if err != nil {
			r.haltLocked()
			r.metrics.RenderError()
			r.logger.Error("frame failed, loop halted", "effect", r.activeTag, "error", err)
		}
	}()

	start := r.clock.Now()
	dt := now.Sub(r.last)
	dt = min(max(dt, 0), parameter.MaxFrameDelta)
	r.last = now
	r.elapsed += dt.Seconds()

	r.active.Update(dt.Seconds(), r.elapsed)
	r.buf.Clear()
	r.root.Draw(r.buf, r.camera)
	if err := r.surface.Present(r.buf); err != nil {
		return nil, fmt.Errorf("present: %w", err)
	}
	r.frames++
	r.metrics.Frame(r.clock.Since(start).Seconds())

	r.requestLocked()
	return nil, nil
}
