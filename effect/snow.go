package effect

import (
	"math"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// flakes holds per-flake attributes encoded once at build
type flakes struct {
	x         []float64 // [0, 1) of view width
	phase     []float64 // [0, 1) of the fall cycle
	speed     []float64
	sway      []float64 // amplitude, logical units
	swayFreq  []float64
	swayPhase []float64
	size      []float64 // [0, 1]
}

// SnowEffect is the snow family with optional accumulation
type SnowEffect struct {
	base
	preset parameter.SnowPreset

	viewW, viewH float64
	mobile       bool

	flakes flakes
	points *scene.Points

	accumulation *Accumulation
}

// NewSnow builds a snow variant from a preset
func NewSnow(ctx BuildContext, preset parameter.SnowPreset) *SnowEffect {
	s := &SnowEffect{
		base:   newBase("snow", ctx),
		preset: preset,
	}
	s.viewW, s.viewH = ctx.dims()
	s.buildParticles(ctx)

	if ctx.Extras.SnowAccumulation {
		s.accumulation = NewAccumulation(ctx)
		s.group.Add(s.accumulation.Group())
	}
	return s
}

func (s *SnowEffect) buildParticles(ctx BuildContext) {
	if s.points != nil {
		s.group.Remove(s.points)
		s.points.Dispose()
	}
	s.mobile = ctx.Mobile
	n := ctx.count(s.preset.Count, s.preset.MobileCount)
	rng := ctx.rng(streamParticles)

	f := flakes{
		x:         make([]float64, n),
		phase:     make([]float64, n),
		speed:     make([]float64, n),
		sway:      make([]float64, n),
		swayFreq:  make([]float64, n),
		swayPhase: make([]float64, n),
		size:      make([]float64, n),
	}
	pts := scene.NewPoints(n, visual.SnowGlyphs[0], scene.NewMaterial(visual.RgbSnow, render.BlendAlphaFg)).WithAlpha()
	pts.Glyphs = make([]rune, n)

	for i := 0; i < n; i++ {
		f.x[i] = rng.Float64()
		f.phase[i] = rng.Float64()
		// Bias toward small flakes
		f.size[i] = rng.Float64() * rng.Float64()
		f.speed[i] = vmath.Lerp(s.preset.SpeedMin, s.preset.SpeedMax, 0.3+0.7*f.size[i]) * rng.Range(0.85, 1.15)
		f.sway[i] = s.preset.SwayAmp * rng.Range(0.5, 1.2)
		f.swayFreq[i] = s.preset.SwayFreq * rng.Range(0.7, 1.3)
		f.swayPhase[i] = rng.Range(0, 2*math.Pi)

		gi := min(int(f.size[i]*float64(len(visual.SnowGlyphs))), len(visual.SnowGlyphs)-1)
		pts.Glyphs[i] = visual.SnowGlyphs[gi]
		pts.Alpha[i] = 0.5 + 0.5*f.size[i]
	}

	s.flakes = f
	s.points = pts
	s.group.Add(pts)
}

// ParticleCount returns the number of flakes
func (s *SnowEffect) ParticleCount() int {
	return len(s.flakes.x)
}

// Accumulation returns the accumulation sub-feature, nil when disabled
func (s *SnowEffect) Accumulation() *Accumulation {
	return s.accumulation
}

// Update positions every flake from elapsed time and advances accumulation
func (s *SnowEffect) Update(dt, elapsed float64) {
	if s.disposed {
		return
	}
	s.points.Opacity = s.preset.Opacity * s.opacity

	span := s.viewH + 2
	f := &s.flakes
	for i := range f.x {
		y := vmath.Wrap(f.phase[i]*span+f.speed[i]*elapsed, span) - 1
		x := f.x[i]*s.viewW + s.preset.Drift*elapsed + f.sway[i]*math.Sin(f.swayFreq[i]*elapsed+f.swayPhase[i])
		s.points.X[i] = vmath.Wrap(x, s.viewW)
		s.points.Y[i] = y
	}

	if s.accumulation != nil {
		s.accumulation.SetOpacity(s.opacity * 100)
		s.accumulation.Update(dt, elapsed)
	}
}

// OnResize rescales the domain and forwards to accumulation
func (s *SnowEffect) OnResize(ctx BuildContext) {
	if s.disposed {
		return
	}
	s.viewW, s.viewH = ctx.dims()
	if ctx.Mobile != s.mobile {
		s.buildParticles(ctx)
	}
	if s.accumulation != nil {
		s.accumulation.OnResize(ctx)
	}
}

// SetSnowSurfaces forwards to accumulation; ignored when accumulation is off
func (s *SnowEffect) SetSnowSurfaces(surfaces []SnowSurface) {
	if s.disposed || s.accumulation == nil {
		return
	}
	s.accumulation.SetSnowSurfaces(surfaces)
}

// Dispose releases particles and accumulation layers
func (s *SnowEffect) Dispose() {
	if !s.release() {
		return
	}
	if s.accumulation != nil {
		s.accumulation.Dispose()
	}
}
