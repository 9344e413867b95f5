package effect

import (
	"math"
	"time"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// boltCapacity bounds segments of trunk plus branches
const boltCapacity = 96

type point struct{ X, Y float64 }

// strikes drives periodic lightning: a fractal bolt plus a full-view flash
type strikes struct {
	rng      *vmath.FastRand
	min, max float64 // interval seconds
	onStrike func(Strike)

	group *scene.Group
	bolt  *scene.Streaks
	glow  *scene.Streaks
	flash *scene.Plane

	viewW, viewH float64

	nextAt      float64
	restrikeAt  float64 // < 0 when none pending
	flashLevel  float64
	boltAge     float64
	boltPeak    float64
	strikeCount int
}

func newStrikes(ctx BuildContext, minInterval, maxInterval time.Duration, stream uint64) *strikes {
	w, h := ctx.dims()
	s := &strikes{
		rng:        ctx.rng(stream),
		min:        minInterval.Seconds(),
		max:        maxInterval.Seconds(),
		onStrike:   ctx.OnStrike,
		group:      scene.NewGroup("lightning"),
		viewW:      w,
		viewH:      h,
		restrikeAt: -1,
		boltAge:    math.Inf(1),
	}

	s.flash = scene.NewPlane(scene.NewMaterial(visual.RgbFlash, render.BlendScreen), nil)
	s.flash.Opacity = 0

	s.glow = scene.NewStreaks(boltCapacity, scene.NewMaterial(visual.RgbBoltGlow, render.BlendMaxBg))
	s.glow.Alpha = make([]float64, boltCapacity)
	s.glow.Glyph = ' '
	s.glow.TailAlpha = 1

	s.bolt = scene.NewStreaks(boltCapacity, scene.NewMaterial(visual.RgbBoltCore, render.BlendScreen))
	s.bolt.Alpha = make([]float64, boltCapacity)
	s.bolt.TailAlpha = 1

	s.group.Depth = -1
	s.group.Add(s.flash, s.glow, s.bolt)

	// First strike comes early so a freshly started effect shows activity
	s.nextAt = s.rng.Range(0.4, 0.4+s.min/2)
	return s
}

func (s *strikes) resize(ctx BuildContext) {
	s.viewW, s.viewH = ctx.dims()
}

// update advances timers and fades; opacity is the normalized effect opacity
func (s *strikes) update(dt, elapsed, opacity float64) {
	if elapsed >= s.nextAt {
		s.fire(1)
		s.nextAt = elapsed + s.rng.Range(s.min, s.max)
		if s.rng.Chance(parameter.DoubleStrikeChance) {
			s.restrikeAt = elapsed + parameter.DoubleStrikeDelay.Seconds()
		}
	} else if s.restrikeAt >= 0 && elapsed >= s.restrikeAt {
		s.restrikeAt = -1
		s.fire(0.55)
	}

	s.flashLevel *= math.Exp(-dt / parameter.FlashDecay.Seconds())
	if s.flashLevel < 0.01 {
		s.flashLevel = 0
	}
	s.flash.Opacity = s.flashLevel * opacity

	s.boltAge += dt
	life := parameter.BoltLifetime.Seconds()
	fade := 0.0
	if s.boltAge < life {
		fade = s.boltPeak * (1 - s.boltAge/life)
		// Flicker while the channel is fresh
		if s.boltAge < life/2 && s.rng.Chance(0.3) {
			fade *= 0.6
		}
	}
	s.bolt.Opacity = fade * opacity
	s.glow.Opacity = fade * 0.5 * opacity
}

// fire builds a new bolt and lights the flash
func (s *strikes) fire(intensity float64) {
	s.strikeCount++
	s.flashLevel = max(s.flashLevel, parameter.FlashPeak*intensity)
	s.boltAge = 0
	s.boltPeak = intensity

	clear(s.bolt.Alpha)
	clear(s.glow.Alpha)

	x0 := s.rng.Range(0.1, 0.9) * s.viewW
	x1 := x0 + s.rng.Signed()*s.viewW*0.15
	y1 := s.rng.Range(0.55, 0.95) * s.viewH

	trunk := fractalPath(point{x0, 0}, point{x1, y1}, s.rng)
	n := s.setPath(0, trunk, 1)

	// Side branches split off the upper two thirds
	for i := 1; i < len(trunk)*2/3 && n < boltCapacity; i++ {
		if !s.rng.Chance(parameter.BoltBranchChance) {
			continue
		}
		from := trunk[i]
		length := s.rng.Range(0.1, 0.25) * s.viewH
		dir := 1.0
		if s.rng.Chance(0.5) {
			dir = -1
		}
		to := point{from.X + dir*length*s.rng.Range(0.4, 1), from.Y + length}
		n = s.setPath(n, fractalPath(from, to, s.rng), 0.5)
	}

	if s.onStrike != nil {
		s.onStrike(Strike{Intensity: intensity})
	}
}

// setPath writes consecutive segments starting at slot i, returns the next free slot
func (s *strikes) setPath(i int, path []point, alpha float64) int {
	for j := 1; j < len(path) && i < boltCapacity; j++ {
		a, b := path[j-1], path[j]
		s.bolt.X0[i], s.bolt.Y0[i], s.bolt.X1[i], s.bolt.Y1[i] = a.X, a.Y, b.X, b.Y
		s.glow.X0[i], s.glow.Y0[i], s.glow.X1[i], s.glow.Y1[i] = a.X, a.Y, b.X, b.Y
		s.bolt.Alpha[i] = alpha
		s.glow.Alpha[i] = alpha
		i++
	}
	return i
}

// fractalPath jitters points perpendicular to the straight line between endpoints
func fractalPath(from, to point, rng *vmath.FastRand) []point {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)

	segments := max(int(dist/parameter.BoltSegmentDensity), parameter.BoltMinSegments)
	points := make([]point, 0, segments+1)
	points = append(points, from)

	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		jitter := parameter.BoltJitterScale * (rng.Float64() - 0.5)
		points = append(points, point{
			X: from.X + dx*t - dy*jitter,
			Y: from.Y + dy*t + dx*jitter,
		})
	}
	return append(points, to)
}
