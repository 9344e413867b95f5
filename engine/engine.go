// Package engine is the public entry point: it mounts the overlay and routes every
// operation to an isolated worker renderer or, when that is unavailable or has failed,
// to an in-process renderer.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/renderer"
	"github.com/lixenwraith/weatherfx/vmath"
	"github.com/lixenwraith/weatherfx/worker"
)

// ErrNoContainer is returned by New without a mount point
var ErrNoContainer = errors.New("engine: no container")

// State tracks the isolated path; Failed is terminal
type State uint8

const (
	StateIdle State = iota
	StatePending
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Path is where operations are currently routed
type Path uint8

const (
	PathNone Path = iota
	PathWorker
	PathLocal
)

func (p Path) String() string {
	switch p {
	case PathWorker:
		return "worker"
	case PathLocal:
		return "local"
	}
	return "none"
}

// startRequest is the last effect asked for, replayed into a fallback renderer
type startRequest struct {
	tag     effect.Tag
	opacity float64
	extras  effect.Extras
}

// Engine orchestrates one overlay on one container
// Public methods never panic and never return runtime errors; failures are logged
type Engine struct {
	id        string
	container Container
	opts      options
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	canvas *render.Canvas

	worker     Worker
	queue      []worker.Message
	readyTimer clockwork.Timer

	local       worker.Core
	localBuilds int

	last        *startRequest
	opacity     float64
	surfaces    []effect.SnowSurface
	hasSurfaces bool
	destroyed   bool
}

// New mounts a canvas in container; no renderer is built until Start
func New(container Container, opts ...Option) (*Engine, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	base := o.logger
	if base == nil {
		base = Logger()
	}
	e := &Engine{
		id:        id,
		container: container,
		opts:      o,
		logger:    base.With("engine", id),
		opacity:   parameter.OpacityDefault,
	}
	canvas, err := e.mountCanvas()
	if err != nil {
		return nil, err
	}
	e.canvas = canvas
	return e, nil
}

// ===== PUBLIC API =====

// Start runs tag on the preferred path, or stops when reduced motion is respected and requested
func (e *Engine) Start(tag effect.Tag, opts ...StartOption) {
	defer e.recover("start")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}

	if tag == effect.None || tag == "" {
		e.stopLocked()
		return
	}

	p := startParams{opacity: e.opacity}
	for _, opt := range opts {
		opt(&p)
	}
	if p.respectMotion && e.prefersReducedMotion() {
		e.logger.Info("reduced motion preferred, effect suppressed", "effect", tag)
		e.stopLocked()
		return
	}

	opacity := vmath.Clamp(p.opacity, parameter.OpacityMin, parameter.OpacityMax)
	e.opacity = opacity
	e.last = &startRequest{tag: tag, opacity: opacity, extras: p.extras}

	e.route(worker.Start{Effect: tag, Opacity: opacity, Extras: p.extras}, func(c worker.Core) {
		c.Start(tag, opacity, p.extras)
	})
}

// SetOpacity clamps value to [0, 100] and applies it to the running effect
func (e *Engine) SetOpacity(value float64) {
	defer e.recover("set opacity")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	value = vmath.Clamp(value, parameter.OpacityMin, parameter.OpacityMax)
	e.opacity = value
	if e.last != nil {
		e.last.opacity = value
	}
	if e.activePath() == PathNone {
		return
	}
	e.route(worker.SetOpacity{Value: value}, func(c worker.Core) { c.SetOpacity(value) })
}

// UpdateSnowSurfaces replaces the accumulation surface set
func (e *Engine) UpdateSnowSurfaces(surfaces []effect.SnowSurface) {
	defer e.recover("update snow surfaces")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.surfaces = slices.Clone(surfaces)
	e.hasSurfaces = true
	if e.activePath() == PathNone {
		return
	}
	s := slices.Clone(e.surfaces)
	e.route(worker.SetSnowSurfaces{Surfaces: s}, func(c worker.Core) { c.SetSnowSurfaces(s) })
}

// HandleResize re-reads the container viewport and forwards it
func (e *Engine) HandleResize() {
	defer e.recover("resize")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || e.activePath() == PathNone {
		return
	}
	w, h := e.container.Size()
	ratio, mobile := e.container.PixelRatio(), e.container.Mobile()
	e.route(worker.Resize{Width: w, Height: h, PixelRatio: ratio, Mobile: mobile}, func(c worker.Core) {
		c.Resize(w, h, ratio, mobile)
	})
}

// Stop halts the effect on whichever path is active
func (e *Engine) Stop() {
	defer e.recover("stop")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.stopLocked()
}

// Destroy tears down the active path and detaches the canvas; safe in any state
func (e *Engine) Destroy() {
	defer e.recover("destroy")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.stopReadyTimer()
	if e.worker != nil {
		e.worker.Terminate()
		e.worker = nil
	}
	e.queue = nil
	if e.local != nil {
		e.local.Destroy()
		e.local = nil
	}
	if e.canvas != nil {
		e.container.Detach(e.canvas)
		e.canvas = nil
	}
	e.opts.metrics.Path(PathNone.String())
	e.logger.Debug("engine destroyed")
}

// ===== INTROSPECTION =====

// ID identifies this engine in logs
func (e *Engine) ID() string { return e.id }

// State returns the isolated path state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Path returns where operations are routed
func (e *Engine) Path() Path {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activePath()
}

// Opacity returns the last requested opacity percent
func (e *Engine) Opacity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opacity
}

// ActiveEffect returns the last started tag, empty when stopped
func (e *Engine) ActiveEffect() effect.Tag {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return ""
	}
	return e.last.tag
}

// Queued returns the number of messages waiting for the worker's Ready
func (e *Engine) Queued() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// LocalBuilds returns how many in-process renderers were constructed
func (e *Engine) LocalBuilds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.localBuilds
}

// ===== ROUTING (caller holds mu) =====

func (e *Engine) activePath() Path {
	switch {
	case e.worker != nil:
		return PathWorker
	case e.local != nil:
		return PathLocal
	}
	return PathNone
}

// route sends msg to the worker, or applies fn to the local renderer
// The worker is spawned on first use while the isolated path is supported and not failed
func (e *Engine) route(msg worker.Message, fn func(worker.Core)) {
	if e.worker == nil && e.local == nil && e.preferWorker() {
		if err := e.spawnLocked(); err != nil {
			e.failLocked(err)
			// failLocked replayed the last start; only other operations still need applying
			if _, isStart := msg.(worker.Start); isStart {
				return
			}
		}
	}
	if e.worker != nil {
		e.sendLocked(msg)
		return
	}
	if err := e.ensureLocalLocked(); err != nil {
		e.logger.Error("local renderer unavailable", "error", err)
		return
	}
	fn(e.local)
}

func (e *Engine) preferWorker() bool {
	return e.state != StateFailed && e.opts.supported()
}

func (e *Engine) stopLocked() {
	e.last = nil
	if e.activePath() == PathNone {
		return
	}
	e.route(worker.Stop{}, func(c worker.Core) { c.Stop() })
}

// sendLocked posts directly once Ready, queues before
func (e *Engine) sendLocked(msg worker.Message) {
	if e.state != StateReady {
		e.queue = append(e.queue, msg)
		e.opts.metrics.Queue(len(e.queue))
		return
	}
	if err := e.worker.Post(msg); err != nil {
		e.failLocked(fmt.Errorf("post %s: %w", msg.Kind(), err))
	}
}

// ===== WORKER PATH =====

func (e *Engine) spawnLocked() error {
	surface, err := e.canvas.TransferControl()
	if err != nil {
		return fmt.Errorf("transfer canvas: %w", err)
	}
	w, err := e.opts.spawn(worker.Options{
		Clock:   e.opts.clock,
		Logger:  e.logger.With("path", PathWorker.String()),
		Metrics: e.opts.metrics,
		Seed:    e.opts.seed,
	})
	if err != nil {
		surface.Release()
		return fmt.Errorf("spawn worker: %w", err)
	}
	e.worker = w
	e.state = StatePending
	e.opts.metrics.WorkerStarted()
	e.opts.metrics.Path(PathWorker.String())

	width, height := e.container.Size()
	init := worker.Init{
		Surface:     surface,
		FrameSource: e.opts.frameSource,
		PixelRatio:  e.container.PixelRatio(),
		Width:       width,
		Height:      height,
		Mobile:      e.container.Mobile(),
	}
	if err := w.Post(init); err != nil {
		return fmt.Errorf("post INIT: %w", err)
	}
	if e.opts.readyTimeout > 0 {
		e.readyTimer = e.opts.clock.AfterFunc(e.opts.readyTimeout, func() { e.readyTimeout(w) })
	}
	go e.listen(w)
	e.logger.Debug("worker spawned, awaiting ready")
	return nil
}

func (e *Engine) listen(w Worker) {
	for r := range w.Responses() {
		e.handleResponse(w, r)
	}
}

func (e *Engine) handleResponse(w Worker, r worker.Response) {
	defer e.recover("worker response")

	if s, ok := r.(worker.Strike); ok {
		if fn := e.strikeHandler(w); fn != nil {
			fn(effect.Strike{Intensity: s.Intensity})
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker != w || e.destroyed {
		return
	}
	switch m := r.(type) {
	case worker.Ready:
		e.readyLocked()
	case worker.Error:
		e.failLocked(m)
	}
}

// strikeHandler returns the handler while w is still the live worker
func (e *Engine) strikeHandler(w Worker) func(effect.Strike) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker != w || e.destroyed {
		return nil
	}
	return e.opts.onStrike
}

// readyLocked flushes the queue in order exactly once
func (e *Engine) readyLocked() {
	if e.state != StatePending {
		return
	}
	e.state = StateReady
	e.stopReadyTimer()
	queue := e.queue
	e.queue = nil
	e.opts.metrics.Queue(0)
	e.logger.Debug("worker ready", "flushed", len(queue))
	for _, msg := range queue {
		if err := e.worker.Post(msg); err != nil {
			e.failLocked(fmt.Errorf("flush %s: %w", msg.Kind(), err))
			return
		}
	}
}

func (e *Engine) readyTimeout(w Worker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker != w || e.state != StatePending || e.destroyed {
		return
	}
	e.failLocked(fmt.Errorf("worker not ready after %s", e.opts.readyTimeout))
}

func (e *Engine) stopReadyTimer() {
	if e.readyTimer != nil {
		e.readyTimer.Stop()
		e.readyTimer = nil
	}
}

// failLocked permanently demotes to the in-process path and replays the last request
func (e *Engine) failLocked(cause error) {
	if e.state == StateFailed {
		return
	}
	e.logger.Warn("worker path failed, falling back to in-process renderer", "error", cause)
	e.opts.metrics.WorkerFailed()
	e.state = StateFailed
	e.queue = nil
	e.opts.metrics.Queue(0)
	e.stopReadyTimer()

	if e.worker != nil {
		e.worker.Terminate()
		e.worker = nil
	}

	// The old canvas was handed to the worker and cannot be reclaimed
	e.container.Detach(e.canvas)
	canvas, err := e.mountCanvas()
	if err != nil {
		e.canvas = nil
		e.logger.Error("fallback canvas unavailable", "error", err)
		return
	}
	e.canvas = canvas

	if e.last == nil && !e.hasSurfaces {
		return
	}
	if err := e.ensureLocalLocked(); err != nil {
		e.logger.Error("fallback renderer unavailable", "error", err)
		return
	}
	if e.hasSurfaces {
		e.local.SetSnowSurfaces(slices.Clone(e.surfaces))
	}
	if e.last != nil {
		e.local.Start(e.last.tag, e.last.opacity, e.last.extras)
	}
}

// ===== LOCAL PATH =====

func (e *Engine) ensureLocalLocked() error {
	if e.local != nil {
		return nil
	}
	if e.canvas == nil {
		return errors.New("no canvas")
	}
	surface, err := e.canvas.Surface()
	if err != nil {
		return err
	}
	width, height := e.container.Size()
	core, err := e.opts.newRenderer(renderer.Options{
		Surface:     surface,
		FrameSource: e.opts.frameSource,
		PixelRatio:  e.container.PixelRatio(),
		Width:       width,
		Height:      height,
		Mobile:      e.container.Mobile(),
		Clock:       e.opts.clock,
		Logger:      e.logger.With("path", PathLocal.String()),
		Metrics:     e.opts.metrics,
		Seed:        e.opts.seed,
		OnStrike:    e.opts.onStrike,
		OnError: func(err error) {
			e.logger.Error("in-process frame failed", "error", err)
		},
	})
	if err != nil {
		return fmt.Errorf("construct renderer: %w", err)
	}
	e.local = core
	e.localBuilds++
	e.opts.metrics.Path(PathLocal.String())
	e.logger.Debug("in-process renderer constructed", "builds", e.localBuilds)
	return nil
}

// ===== HELPERS =====

func (e *Engine) mountCanvas() (*render.Canvas, error) {
	canvas, err := e.container.NewCanvas()
	if err != nil {
		return nil, fmt.Errorf("engine: new canvas: %w", err)
	}
	if err := e.container.Attach(canvas); err != nil {
		return nil, fmt.Errorf("engine: attach canvas: %w", err)
	}
	return canvas, nil
}

func (e *Engine) prefersReducedMotion() bool {
	mp, ok := e.container.(MotionPreference)
	return ok && mp.PrefersReducedMotion()
}

// recover logs a panic from a public operation instead of propagating it
func (e *Engine) recover(op string) {
	if r := recover(); r != nil {
		e.logger.Error("engine operation panicked", "op", op, "panic", r, "stack", string(debug.Stack()))
	}
}
