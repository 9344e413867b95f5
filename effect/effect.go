// Package effect implements the weather phenomena drawn by the renderer.
// Every effect owns a scene.Group, derives particle positions from elapsed
// time, and loops particles that leave the logical view.
package effect

import (
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// Effect is one running phenomenon
type Effect interface {
	// Group is the visual root attached to the renderer scene
	Group() *scene.Group
	// Update advances the effect; dt is the capped frame delta, elapsed the time since build, both in seconds
	Update(dt, elapsed float64)
	// SetOpacity takes percent [0, 100]; idempotent
	SetOpacity(value float64)
	// Dispose releases the visual group; idempotent
	Dispose()
}

// Resizer is implemented by effects that can adapt to new dimensions in place
// Effects without it are rebuilt by the renderer on resize
type Resizer interface {
	OnResize(ctx BuildContext)
}

// SurfaceAware is implemented by effects that render snow accumulation
type SurfaceAware interface {
	SetSnowSurfaces(surfaces []SnowSurface)
}

// SnowSurface is a region in physical pixels where snow builds up
type SnowSurface struct {
	ID           string  `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Thickness    float64 `json:"thickness"`
	CornerRadius float64 `json:"corner_radius"`
}

// Extras carries effect-specific options; compared with == to decide reuse
type Extras struct {
	SnowAccumulation bool   `json:"snow_accumulation"`
	MatrixRainColor  string `json:"matrix_rain_color,omitempty"`
}

// Strike describes one lightning discharge
type Strike struct {
	Intensity float64 // [0, 1]
}

// BuildContext is everything needed to construct an effect
type BuildContext struct {
	// Logical view, height fixed at render.ViewHeight
	ViewWidth  float64
	ViewHeight float64

	// Viewport in device-independent pixels
	ViewportWidth  int
	ViewportHeight int
	PixelRatio     float64

	// Target cell grid, used by grid-aligned effects
	Cols int
	Rows int

	Mobile  bool
	Effect  Tag
	Opacity float64 // normalized [0, 1]
	Extras  Extras
	Seed    uint64

	// OnStrike is invoked from Update when lightning fires; may be nil
	OnStrike func(Strike)
}

// View returns the render view the context describes
func (c BuildContext) View() render.View {
	v := render.NewView(c.ViewportWidth, c.ViewportHeight, c.PixelRatio, c.Cols, c.Rows)
	if c.ViewWidth > 0 {
		v.Width = c.ViewWidth
	}
	if c.ViewHeight > 0 {
		v.Height = c.ViewHeight
	}
	return v
}

// count selects the device-tier particle count
func (c BuildContext) count(desktop, mobile int) int {
	if c.Mobile {
		return mobile
	}
	return desktop
}

// rng returns a generator for an independent stream of this build
func (c BuildContext) rng(stream uint64) *vmath.FastRand {
	return vmath.NewFastRand(vmath.Seed64(c.Seed, stream))
}

func (c BuildContext) dims() (float64, float64) {
	w, h := c.ViewWidth, c.ViewHeight
	if h <= 0 {
		h = render.ViewHeight
	}
	if w <= 0 {
		w = h
	}
	return w, h
}

// base carries the state every effect shares
type base struct {
	group    *scene.Group
	opacity  float64
	disposed bool
}

func newBase(name string, ctx BuildContext) base {
	return base{group: scene.NewGroup(name), opacity: vmath.Clamp01(ctx.Opacity)}
}

// Group returns the visual root
func (b *base) Group() *scene.Group {
	return b.group
}

// SetOpacity normalizes percent to [0, 1]
func (b *base) SetOpacity(value float64) {
	b.opacity = vmath.Clamp(value, 0, 100) / 100
}

// Opacity returns the normalized opacity factor
func (b *base) Opacity() float64 {
	return b.opacity
}

// Disposed reports whether Dispose has run
func (b *base) Disposed() bool {
	return b.disposed
}

// release disposes the group once, returns false on repeated calls
func (b *base) release() bool {
	if b.disposed {
		return false
	}
	b.disposed = true
	b.group.Dispose()
	return true
}
