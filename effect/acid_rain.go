package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// AcidRainEffect is toxic green rain that splashes on impact over a ground haze
type AcidRainEffect struct {
	base
	viewW, viewH float64
	mobile       bool

	drops    drops
	streaks  *scene.Streaks
	splashes *scene.Points
	haze     *scene.Plane
}

// NewAcidRain builds the acid rain effect
func NewAcidRain(ctx BuildContext) *AcidRainEffect {
	a := &AcidRainEffect{base: newBase("acid-rain", ctx)}
	a.viewW, a.viewH = ctx.dims()

	a.haze = scene.NewPlane(scene.NewMaterial(visual.RgbAcidHaze, render.BlendAlpha), func(u, v float64) (render.RGB, float64) {
		return visual.RgbAcidHaze, vmath.SmoothStep(0.5, 1, v)
	})
	hazeGroup := scene.NewGroup("acid-haze")
	hazeGroup.Depth = 1
	hazeGroup.Add(a.haze)
	a.group.Add(hazeGroup)

	a.build(ctx)
	return a
}

func (a *AcidRainEffect) build(ctx BuildContext) {
	if a.streaks != nil {
		a.group.Remove(a.streaks)
		a.streaks.Dispose()
		a.group.Remove(a.splashes)
		a.splashes.Dispose()
	}
	a.mobile = ctx.Mobile
	n := ctx.count(parameter.AcidRainCount, parameter.AcidRainMobileCount)
	a.drops = newDrops(n, parameter.AcidRainSpeedMin, parameter.AcidRainSpeedMax, ctx.rng(streamParticles))

	a.streaks = scene.NewStreaks(n, scene.NewMaterial(visual.RgbAcid, render.BlendAlphaFg))
	a.streaks.Alpha = make([]float64, n)
	copy(a.streaks.Alpha, a.drops.depth)

	a.splashes = scene.NewPoints(n, visual.GlyphSplash, scene.NewMaterial(visual.RgbAcid, render.BlendAddFg)).WithAlpha()
	a.group.Add(a.streaks, a.splashes)
}

// ParticleCount returns the number of drops
func (a *AcidRainEffect) ParticleCount() int {
	return len(a.drops.x)
}

// Update moves drops; a drop that wrapped recently leaves a fading splash at its impact column
func (a *AcidRainEffect) Update(_, elapsed float64) {
	if a.disposed {
		return
	}
	a.streaks.Opacity = parameter.AcidRainOpacity * a.opacity
	a.splashes.Opacity = a.opacity
	a.haze.Opacity = parameter.AcidHazeOpacity * a.opacity

	slant := 0.05
	for i := range a.drops.x {
		l := parameter.AcidRainLength * a.drops.depth[i]
		span := a.viewH + l
		travel := a.drops.phase[i]*span + a.drops.speed[i]*elapsed
		x, y := a.drops.fall(i, elapsed, a.viewW, a.viewH, l, slant)
		a.streaks.X1[i], a.streaks.Y1[i] = x, y
		a.streaks.X0[i], a.streaks.Y0[i] = x-slant*l, y-l

		// Seconds since the head last crossed the ground line
		since := vmath.Wrap(travel-a.viewH, span) / a.drops.speed[i]
		if travel >= a.viewH && since < parameter.AcidSplashLifetime {
			a.splashes.X[i] = vmath.Wrap(a.drops.x[i]*a.viewW+slant*a.viewH, a.viewW)
			a.splashes.Y[i] = a.viewH - 0.5
			a.splashes.Alpha[i] = 1 - since/parameter.AcidSplashLifetime
		} else {
			a.splashes.Alpha[i] = 0
		}
	}
}

// OnResize rescales the domain
func (a *AcidRainEffect) OnResize(ctx BuildContext) {
	if a.disposed {
		return
	}
	a.viewW, a.viewH = ctx.dims()
	if ctx.Mobile != a.mobile {
		a.build(ctx)
	}
}

// Dispose releases drops, splashes and haze
func (a *AcidRainEffect) Dispose() {
	a.release()
}
