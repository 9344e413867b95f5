package effect

import (
	"math"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// HailEffect drops fast stones that bounce once on the bottom edge
type HailEffect struct {
	base
	viewW, viewH float64
	mobile       bool

	drops  drops
	points *scene.Points
}

// NewHail builds the hail effect
func NewHail(ctx BuildContext) *HailEffect {
	h := &HailEffect{base: newBase("hail", ctx)}
	h.viewW, h.viewH = ctx.dims()
	h.build(ctx)
	return h
}

func (h *HailEffect) build(ctx BuildContext) {
	if h.points != nil {
		h.group.Remove(h.points)
		h.points.Dispose()
	}
	h.mobile = ctx.Mobile
	n := ctx.count(parameter.HailCount, parameter.HailMobileCount)
	h.drops = newDrops(n, parameter.HailSpeedMin, parameter.HailSpeedMax, ctx.rng(streamParticles))
	h.points = scene.NewPoints(n, visual.GlyphHail, scene.NewMaterial(visual.RgbHail, render.BlendAlphaFg)).WithAlpha()
	h.points.Glyphs = make([]rune, n)
	for i := range h.points.Glyphs {
		if h.drops.depth[i] < 0.7 {
			h.points.Glyphs[i] = visual.GlyphHailSmall
		}
		h.points.Alpha[i] = h.drops.depth[i]
	}
	h.group.Add(h.points)
}

// ParticleCount returns the number of stones
func (h *HailEffect) ParticleCount() int {
	return len(h.drops.x)
}

// Update runs each stone through fall, bounce, respawn
func (h *HailEffect) Update(_, elapsed float64) {
	if h.disposed {
		return
	}
	h.points.Opacity = parameter.HailOpacity * h.opacity
	ground := h.viewH - 0.5
	for i := range h.drops.x {
		fall := (ground + 1) / h.drops.speed[i]
		period := fall + parameter.HailBounceTime
		t := vmath.Wrap(h.drops.phase[i]*period+elapsed, period)

		x := h.drops.x[i] * h.viewW
		var y float64
		if t < fall {
			y = t*h.drops.speed[i] - 1
		} else {
			// Single damped hop, drifting sideways
			b := (t - fall) / parameter.HailBounceTime
			y = ground - parameter.HailBounceRise*h.drops.depth[i]*math.Sin(math.Pi*b)
			x += b * 1.5
		}
		h.points.X[i] = vmath.Wrap(x, h.viewW)
		h.points.Y[i] = y
	}
}

// OnResize rescales the domain
func (h *HailEffect) OnResize(ctx BuildContext) {
	if h.disposed {
		return
	}
	h.viewW, h.viewH = ctx.dims()
	if ctx.Mobile != h.mobile {
		h.build(ctx)
	}
}

// Dispose releases the stones
func (h *HailEffect) Dispose() {
	h.release()
}
