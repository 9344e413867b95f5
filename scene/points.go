package scene

import (
	"github.com/lixenwraith/weatherfx/render"
)

// Points draws one glyph per position; per-point slices are optional overrides
type Points struct {
	Material
	Glyph rune

	X, Y   []float64
	Alpha  []float64
	Colors []render.RGB
	Glyphs []rune

	disposed bool
}

// NewPoints allocates n positions
func NewPoints(n int, glyph rune, mat Material) *Points {
	return &Points{
		Material: mat,
		Glyph:    glyph,
		X:        make([]float64, n),
		Y:        make([]float64, n),
	}
}

// Len returns the point count
func (p *Points) Len() int {
	return len(p.X)
}

// WithAlpha allocates per-point alpha initialised to 1
func (p *Points) WithAlpha() *Points {
	p.Alpha = make([]float64, len(p.X))
	for i := range p.Alpha {
		p.Alpha[i] = 1
	}
	return p
}

// Draw projects each point and composites its glyph
func (p *Points) Draw(buf *render.Buffer, cam *Camera) {
	if p.disposed || !p.active() {
		return
	}
	for i := range p.X {
		cx, cy, ok := cam.Project(p.X[i], p.Y[i])
		if !ok {
			continue
		}
		a := p.Opacity
		if p.Alpha != nil {
			a *= p.Alpha[i]
		}
		color := p.Color
		if p.Colors != nil {
			color = p.Colors[i]
		}
		r := p.Glyph
		if p.Glyphs != nil && p.Glyphs[i] != 0 {
			r = p.Glyphs[i]
		}
		plot(buf, cx, cy, r, color, a, p.Blend, render.AttrNone)
	}
}

// Dispose drops the attribute arrays
func (p *Points) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.X, p.Y, p.Alpha, p.Colors, p.Glyphs = nil, nil, nil, nil, nil
}

// Disposed reports whether Dispose has run
func (p *Points) Disposed() bool {
	return p.disposed
}
