package scene

import (
	"math"

	"github.com/lixenwraith/weatherfx/render"
)

// Shader returns color and alpha for normalized plane coordinates u, v in [0, 1]
type Shader func(u, v float64) (render.RGB, float64)

// Plane is an axis-aligned rectangle shaded per cell into the background channel
// Zero W or H covers the whole camera frustum
type Plane struct {
	Material
	X, Y, W, H float64
	Shader     Shader

	disposed bool
}

// NewPlane creates a full-view plane
func NewPlane(mat Material, shader Shader) *Plane {
	return &Plane{Material: mat, Shader: shader}
}

// SetRect positions the plane in logical units
func (p *Plane) SetRect(x, y, w, h float64) {
	p.X, p.Y, p.W, p.H = x, y, w, h
}

func (p *Plane) bounds(cam *Camera) (x, y, w, h float64) {
	if p.W <= 0 || p.H <= 0 {
		return cam.Left, cam.Top, cam.Right - cam.Left, cam.Bottom - cam.Top
	}
	return p.X, p.Y, p.W, p.H
}

// Draw evaluates the shader at each covered cell center
func (p *Plane) Draw(buf *render.Buffer, cam *Camera) {
	if p.disposed || !p.active() {
		return
	}
	x, y, w, h := p.bounds(cam)
	if w <= 0 || h <= 0 {
		return
	}
	view := cam.View()
	c0, r0, _ := cam.Project(x, y)
	c1, r1, _ := cam.Project(math.Nextafter(x+w, x), math.Nextafter(y+h, y))
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, view.Cols-1), min(r1, view.Rows-1)

	mode := p.Blend.Background()
	for cy := r0; cy <= r1; cy++ {
		for cx := c0; cx <= c1; cx++ {
			lx, ly := cam.Unproject(cx, cy)
			// Cells were selected by overlap, so clamp centers that fall just outside
			u := min(max((lx-x)/w, 0), 1)
			v := min(max((ly-y)/h, 0), 1)
			color, a := p.Color, 1.0
			if p.Shader != nil {
				color, a = p.Shader(u, v)
			}
			a *= p.Opacity
			if a <= 0 {
				continue
			}
			buf.Set(cx, cy, 0, color, color, mode, a, render.AttrNone)
		}
	}
}

// Dispose releases the shader closure
func (p *Plane) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.Shader = nil
}

// Disposed reports whether Dispose has run
func (p *Plane) Disposed() bool {
	return p.disposed
}
