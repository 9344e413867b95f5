package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// RNG streams per build
const (
	streamParticles uint64 = iota + 1
	streamStrikes
	streamNoise
	streamSwaps
	streamSurfaces
)

// drops holds per-particle attributes, normalized so resize rescales without reseeding
type drops struct {
	x     []float64 // [0, 1) of view width
	phase []float64 // [0, 1) of the fall cycle
	speed []float64 // logical units per second
	depth []float64 // [0.5, 1], scales alpha and length
}

func newDrops(n int, speedMin, speedMax float64, rng *vmath.FastRand) drops {
	d := drops{
		x:     make([]float64, n),
		phase: make([]float64, n),
		speed: make([]float64, n),
		depth: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.x[i] = rng.Float64()
		d.phase[i] = rng.Float64()
		d.depth[i] = rng.Range(0.5, 1)
		// Far drops fall slower for parallax
		d.speed[i] = rng.Range(speedMin, speedMax) * (0.6 + 0.4*d.depth[i])
	}
	return d
}

// fall returns the head position of drop i at time t for a streak of length l
// The head spans [0, viewH+l) so the tail enters from above the view
func (d *drops) fall(i int, t, viewW, viewH, l, slant float64) (x, y float64) {
	span := viewH + l
	y = vmath.Wrap(d.phase[i]*span+d.speed[i]*t, span)
	x = vmath.Wrap(d.x[i]*viewW+slant*y, viewW)
	return x, y
}

// RainEffect is the rain family: slanted falling streaks with optional lightning
type RainEffect struct {
	base
	preset parameter.RainPreset
	color  render.RGB

	viewW, viewH float64
	mobile       bool

	drops   drops
	streaks *scene.Streaks
	strikes *strikes
}

// NewRain builds a rain variant from a preset
func NewRain(ctx BuildContext, preset parameter.RainPreset) *RainEffect {
	return newRain(ctx, preset, "rain", visual.RgbRain)
}

func newRain(ctx BuildContext, preset parameter.RainPreset, name string, color render.RGB) *RainEffect {
	r := &RainEffect{
		base:   newBase(name, ctx),
		preset: preset,
		color:  color,
	}
	if preset.Lightning {
		r.color = visual.RgbRainStorm
	}
	r.viewW, r.viewH = ctx.dims()
	r.buildParticles(ctx)

	if preset.Lightning {
		r.strikes = newStrikes(ctx, preset.LightningMin, preset.LightningMax, streamStrikes)
		r.group.Add(r.strikes.group)
	}
	return r
}

// buildParticles (re)allocates drops for the current device tier
func (r *RainEffect) buildParticles(ctx BuildContext) {
	if r.streaks != nil {
		r.group.Remove(r.streaks)
		r.streaks.Dispose()
		r.streaks = nil
	}
	r.mobile = ctx.Mobile
	n := ctx.count(r.preset.Count, r.preset.MobileCount)
	if n <= 0 {
		// Strike-only preset: no particle system at all
		r.drops = drops{}
		return
	}
	r.drops = newDrops(n, r.preset.SpeedMin, r.preset.SpeedMax, ctx.rng(streamParticles))
	r.streaks = scene.NewStreaks(n, scene.NewMaterial(r.color, render.BlendAlphaFg))
	r.streaks.Alpha = make([]float64, n)
	copy(r.streaks.Alpha, r.drops.depth)
	r.group.Add(r.streaks)
}

// ParticleCount returns the number of live drops
func (r *RainEffect) ParticleCount() int {
	return len(r.drops.x)
}

// LightningEnabled reports whether strikes are part of this preset
func (r *RainEffect) LightningEnabled() bool {
	return r.strikes != nil
}

// Update positions every drop from elapsed time
func (r *RainEffect) Update(dt, elapsed float64) {
	if r.disposed {
		return
	}
	if r.streaks != nil {
		r.streaks.Opacity = r.preset.Opacity * r.opacity
		for i := range r.drops.x {
			l := r.preset.Length * r.drops.depth[i]
			x, y := r.drops.fall(i, elapsed, r.viewW, r.viewH, l, r.preset.Slant)
			r.streaks.X1[i], r.streaks.Y1[i] = x, y
			r.streaks.X0[i], r.streaks.Y0[i] = x-r.preset.Slant*l, y-l
		}
	}
	if r.strikes != nil {
		r.strikes.update(dt, elapsed, r.opacity)
	}
}

// OnResize rescales the domain; a device tier change reallocates particles
func (r *RainEffect) OnResize(ctx BuildContext) {
	if r.disposed {
		return
	}
	r.viewW, r.viewH = ctx.dims()
	if ctx.Mobile != r.mobile {
		r.buildParticles(ctx)
	}
	if r.strikes != nil {
		r.strikes.resize(ctx)
	}
}

// Dispose releases the scene group
func (r *RainEffect) Dispose() {
	r.release()
}
