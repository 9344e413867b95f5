package effect

import (
	"math"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

type beam struct {
	angle      float64 // radians from vertical, positive leans right
	width      float64 // logical units at the far end
	swayPhase  float64
	pulsePhase float64
	strength   float64
}

// SunBeamsEffect sweeps soft light shafts from an off-screen source
type SunBeamsEffect struct {
	base
	viewW, viewH float64
	beams        []beam
	plane        *scene.Plane
	glare        *scene.Plane
	elapsed      float64
}

// NewSunBeams builds the sun beam effect
func NewSunBeams(ctx BuildContext) *SunBeamsEffect {
	s := &SunBeamsEffect{base: newBase("sun-beams", ctx)}
	s.viewW, s.viewH = ctx.dims()

	rng := ctx.rng(streamParticles)
	n := ctx.count(parameter.SunBeamCount, parameter.SunBeamMobileCount)
	s.beams = make([]beam, n)
	for i := range s.beams {
		// Fan out evenly, then perturb
		t := (float64(i) + 0.5) / float64(n)
		s.beams[i] = beam{
			angle:      vmath.Lerp(-0.15, 0.9, t) + rng.Signed()*0.05,
			width:      rng.Range(parameter.SunBeamWidthMin, parameter.SunBeamWidthMax),
			swayPhase:  rng.Range(0, 2*math.Pi),
			pulsePhase: rng.Range(0, 2*math.Pi),
			strength:   rng.Range(0.6, 1),
		}
	}

	s.plane = scene.NewPlane(scene.NewMaterial(visual.RgbSunBeam, render.BlendScreen), s.shade)
	// Glare overlays the beams, lifting them near the source
	s.glare = scene.NewPlane(scene.NewMaterial(visual.RgbSunBeam, render.BlendOverlay), s.shadeGlare)
	s.group.Add(s.plane, s.glare)
	return s
}

// source returns the off-screen light origin
func (s *SunBeamsEffect) source() (float64, float64) {
	return -0.1 * s.viewW, -0.25 * s.viewH
}

// shadeGlare is a radial falloff around the source
func (s *SunBeamsEffect) shadeGlare(u, v float64) (render.RGB, float64) {
	sx, sy := s.source()
	d := math.Hypot(u*s.viewW-sx, v*s.viewH-sy)
	return visual.RgbSunBeam, 1 - vmath.SmoothStep(0, parameter.SunGlareRadius*s.viewH, d)
}

// shade sums beam contributions at a point, source above the top-left corner
func (s *SunBeamsEffect) shade(u, v float64) (render.RGB, float64) {
	px := u * s.viewW
	py := v * s.viewH
	sx, sy := s.source()
	dx, dy := px-sx, py-sy
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return visual.RgbSunBeam, 0
	}
	theta := math.Atan2(dx, dy) // angle from vertical

	sway := 2 * math.Pi / parameter.SunBeamSwayPeriod.Seconds()
	pulse := 2 * math.Pi / parameter.SunBeamPulsePeriod.Seconds()
	total := 0.0
	for i := range s.beams {
		b := &s.beams[i]
		angle := b.angle + 0.04*math.Sin(sway*s.elapsed+b.swayPhase)
		// Angular half-width so the beam widens with distance
		half := math.Atan2(b.width/2, s.viewH)
		off := math.Abs(theta - angle)
		if off >= half {
			continue
		}
		core := 1 - vmath.SmoothStep(0, half, off)
		glow := 0.75 + 0.25*math.Sin(pulse*s.elapsed+b.pulsePhase)
		total += core * glow * b.strength
	}
	// Fade toward the bottom of the view
	total *= 1 - 0.6*v
	return visual.RgbSunBeam, vmath.Clamp01(total)
}

// Update advances sway and pulse
func (s *SunBeamsEffect) Update(_, elapsed float64) {
	if s.disposed {
		return
	}
	s.elapsed = elapsed
	s.plane.Opacity = parameter.SunBeamOpacity * s.opacity
	s.glare.Opacity = parameter.SunGlareOpacity * s.opacity
}

// OnResize rescales the beam geometry
func (s *SunBeamsEffect) OnResize(ctx BuildContext) {
	if s.disposed {
		return
	}
	s.viewW, s.viewH = ctx.dims()
}

// Dispose releases the beam and glare planes
func (s *SunBeamsEffect) Dispose() {
	s.release()
}
