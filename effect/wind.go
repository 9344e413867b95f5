package effect

import (
	"math"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// WindEffect blows horizontal gust streaks and dust motes across the view
type WindEffect struct {
	base
	viewW, viewH float64
	mobile       bool

	// Streak attributes; phase runs along x
	sy, sphase, sspeed, slen, swave []float64
	streaks                         *scene.Streaks

	// Dust attributes
	dy, dphase, dspeed, dbob []float64
	dust                     *scene.Points
}

// NewWind builds the wind effect
func NewWind(ctx BuildContext) *WindEffect {
	w := &WindEffect{base: newBase("wind", ctx)}
	w.viewW, w.viewH = ctx.dims()
	w.build(ctx)
	return w
}

func (w *WindEffect) build(ctx BuildContext) {
	if w.streaks != nil {
		w.group.Remove(w.streaks)
		w.streaks.Dispose()
		w.group.Remove(w.dust)
		w.dust.Dispose()
	}
	w.mobile = ctx.Mobile
	rng := ctx.rng(streamParticles)

	n := ctx.count(parameter.WindStreakCount, parameter.WindStreakMobileCount)
	w.sy, w.sphase, w.sspeed, w.slen, w.swave = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	w.streaks = scene.NewStreaks(n, scene.NewMaterial(visual.RgbWind, render.BlendAlphaFg))
	w.streaks.Alpha = make([]float64, n)
	w.streaks.TailAlpha = 0.1
	for i := 0; i < n; i++ {
		w.sy[i] = rng.Float64()
		w.sphase[i] = rng.Float64()
		w.sspeed[i] = rng.Range(parameter.WindSpeedMin, parameter.WindSpeedMax)
		w.slen[i] = parameter.WindStreakLength * rng.Range(0.5, 1.5)
		w.swave[i] = rng.Range(0, 2*math.Pi)
	}

	m := ctx.count(parameter.WindDustCount, parameter.WindDustMobileCount)
	w.dy, w.dphase, w.dspeed, w.dbob = make([]float64, m), make([]float64, m), make([]float64, m), make([]float64, m)
	w.dust = scene.NewPoints(m, visual.GlyphDust, scene.NewMaterial(visual.RgbDust, render.BlendAlphaFg)).WithAlpha()
	for i := 0; i < m; i++ {
		// Dust skims the lower half
		w.dy[i] = rng.Range(0.5, 1)
		w.dphase[i] = rng.Float64()
		w.dspeed[i] = rng.Range(parameter.WindSpeedMin, parameter.WindSpeedMax) * 0.6
		w.dbob[i] = rng.Range(0, 2*math.Pi)
		w.dust.Alpha[i] = rng.Range(0.4, 1)
	}
	w.group.Add(w.streaks, w.dust)
}

// gust is a slow strength envelope in [0.3, 1]
func gust(elapsed float64) float64 {
	p := 2 * math.Pi / parameter.WindGustPeriod.Seconds()
	g := 0.5 + 0.5*math.Sin(p*elapsed) + 0.15*math.Sin(2.7*p*elapsed+1)
	return vmath.Clamp(g, 0.3, 1)
}

// Update moves streaks and dust from elapsed time
func (w *WindEffect) Update(_, elapsed float64) {
	if w.disposed {
		return
	}
	g := gust(elapsed)
	w.streaks.Opacity = parameter.WindOpacity * w.opacity * g
	w.dust.Opacity = parameter.WindOpacity * w.opacity * (0.5 + 0.5*g)

	for i := range w.sy {
		span := w.viewW + w.slen[i]
		head := vmath.Wrap(w.sphase[i]*span+w.sspeed[i]*elapsed, span)
		y := w.sy[i]*w.viewH + 1.2*math.Sin(head*0.08+w.swave[i])
		w.streaks.X1[i], w.streaks.Y1[i] = head, y
		w.streaks.X0[i], w.streaks.Y0[i] = head-w.slen[i], y-0.6*math.Sin(w.swave[i])
		w.streaks.Alpha[i] = 0.4 + 0.6*g
	}
	for i := range w.dy {
		w.dust.X[i] = vmath.Wrap(w.dphase[i]*w.viewW+w.dspeed[i]*elapsed, w.viewW)
		w.dust.Y[i] = w.dy[i]*w.viewH + 1.5*math.Sin(elapsed*2+w.dbob[i])
	}
}

// OnResize rescales the domain
func (w *WindEffect) OnResize(ctx BuildContext) {
	if w.disposed {
		return
	}
	w.viewW, w.viewH = ctx.dims()
	if ctx.Mobile != w.mobile {
		w.build(ctx)
	}
}

// Dispose releases streaks and dust
func (w *WindEffect) Dispose() {
	w.release()
}
