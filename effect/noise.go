package effect

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/lixenwraith/weatherfx/vmath"
)

// Perlin shape: alpha is the octave weight divisor, beta the frequency multiplier
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// noiseTexture is a tileable grayscale field baked once from perlin noise
// Sampling wraps in both axes so drifting layers never show a seam
type noiseTexture struct {
	w, h int
	data []float64
}

// newNoiseTexture bakes a w x h texture; freq is noise periods across the texture
func newNoiseTexture(w, h int, freq float64, seed int64) *noiseTexture {
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
	t := &noiseTexture{w: w, h: h, data: make([]float64, w*h)}

	sx := freq / float64(w)
	sy := freq / float64(h)
	spanX := float64(w) * sx
	spanY := float64(h) * sy

	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx, ny := float64(x)*sx, float64(y)*sy
			// Four-way blend against offset copies makes the field periodic
			u := float64(x) / float64(w)
			v := float64(y) / float64(h)
			a := p.Noise2D(nx, ny)
			b := p.Noise2D(nx-spanX, ny)
			c := p.Noise2D(nx, ny-spanY)
			d := p.Noise2D(nx-spanX, ny-spanY)
			val := vmath.Lerp(vmath.Lerp(a, b, u), vmath.Lerp(c, d, u), v)
			t.data[y*w+x] = val
			lo = min(lo, val)
			hi = max(hi, val)
		}
	}

	// Normalize to [0, 1]
	if span := hi - lo; span > 0 {
		for i, val := range t.data {
			t.data[i] = (val - lo) / span
		}
	}
	return t
}

// Sample bilinearly interpolates at texel coordinates, wrapping both axes
func (t *noiseTexture) Sample(x, y float64) float64 {
	x = vmath.Wrap(x, float64(t.w))
	y = vmath.Wrap(y, float64(t.h))
	x0, y0 := int(x), int(y)
	x1, y1 := (x0+1)%t.w, (y0+1)%t.h
	fx, fy := x-float64(x0), y-float64(y0)

	a := t.data[y0*t.w+x0]
	b := t.data[y0*t.w+x1]
	c := t.data[y1*t.w+x0]
	d := t.data[y1*t.w+x1]
	return vmath.Lerp(vmath.Lerp(a, b, fx), vmath.Lerp(c, d, fx), fy)
}
