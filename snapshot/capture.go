package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/renderer"
)

// ErrNoFrames is returned when a capture asks for zero frames
var ErrNoFrames = errors.New("snapshot: frame count must be positive")

// Stepper is a frame source advanced by hand, one frame per Step
type Stepper struct {
	mu      sync.Mutex
	next    renderer.FrameID
	pending map[renderer.FrameID]func(time.Time)
}

// NewStepper creates an empty stepper
func NewStepper() *Stepper {
	return &Stepper{pending: make(map[renderer.FrameID]func(time.Time))}
}

// Request queues fn for the next Step
func (s *Stepper) Request(fn func(now time.Time)) renderer.FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// Cancel drops a queued callback
func (s *Stepper) Cancel(id renderer.FrameID) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Step runs every queued callback with now; callbacks requested during Step wait for the next one
func (s *Stepper) Step(now time.Time) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[renderer.FrameID]func(time.Time))
	s.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// Pending returns queued callback count
func (s *Stepper) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Options configures a headless capture
type Options struct {
	Effect  effect.Tag
	Opacity float64
	Extras  effect.Extras

	Cols, Rows int
	Backdrop   render.RGB

	// Frames simulated at parameter.FrameInterval; Every saves each Nth frame, 0 saves only the last
	Frames int
	Every  int

	Dir    string
	Prefix string

	Seed     uint64
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	OnStrike func(effect.Strike)
}

// Capture simulates opts.Frames frames of an effect on a fake clock and writes PNGs to opts.Dir
// Returns the written file paths in frame order
func Capture(ctx context.Context, opts Options) ([]string, error) {
	if opts.Frames <= 0 {
		return nil, ErrNoFrames
	}
	if opts.Prefix == "" {
		opts.Prefix = string(opts.Effect)
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	surface, err := NewSurface(opts.Cols, opts.Rows, opts.Backdrop)
	if err != nil {
		return nil, err
	}
	defer surface.Release()

	var frameErr error
	clock := clockwork.NewFakeClockAt(time.Unix(0, 0))
	stepper := NewStepper()
	cols, rows := surface.Size()

	r, err := renderer.New(renderer.Options{
		Surface:    surface,
		PixelRatio: 1,
		Width:      cols * parameter.CellPixelWidth,
		Height:     rows * parameter.CellPixelHeight,
		Scheduler:  stepper,
		Clock:      clock,
		Logger:     logger,
		Metrics:    opts.Metrics,
		Seed:       opts.Seed,
		OnStrike:   opts.OnStrike,
		OnError:    func(err error) { frameErr = err },
	})
	if err != nil {
		return nil, err
	}
	defer r.Destroy()

	r.Start(opts.Effect, opts.Opacity, opts.Extras)
	if !r.Running() {
		return nil, fmt.Errorf("snapshot: effect %q did not start", opts.Effect)
	}

	var paths []string
	for i := 1; i <= opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		clock.Advance(parameter.FrameInterval)
		stepper.Step(clock.Now())
		if frameErr != nil {
			return paths, fmt.Errorf("snapshot: frame %d: %w", i, frameErr)
		}

		save := i == opts.Frames || (opts.Every > 0 && i%opts.Every == 0)
		if !save {
			continue
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s-%04d.png", opts.Prefix, i))
		if err := surface.SavePNG(path); err != nil {
			return paths, fmt.Errorf("snapshot: save %s: %w", path, err)
		}
		logger.Debug("frame saved", "path", path, "frame", i)
		paths = append(paths, path)
	}
	return paths, nil
}
