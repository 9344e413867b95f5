package scene

import (
	"math"

	"github.com/lixenwraith/weatherfx/render"
)

// Streaks draws line segments from tail (X0, Y0) to head (X1, Y1)
// Alpha ramps from TailAlpha at the tail to full at the head
type Streaks struct {
	Material
	Glyph     rune // 0 picks a slope glyph per segment
	TailAlpha float64

	X0, Y0 []float64
	X1, Y1 []float64
	Alpha  []float64

	disposed bool
}

// NewStreaks allocates n segments
func NewStreaks(n int, mat Material) *Streaks {
	return &Streaks{
		Material:  mat,
		TailAlpha: 0.3,
		X0:        make([]float64, n),
		Y0:        make([]float64, n),
		X1:        make([]float64, n),
		Y1:        make([]float64, n),
	}
}

// Len returns the segment count
func (s *Streaks) Len() int {
	return len(s.X0)
}

// Draw rasterizes every segment in cell space
func (s *Streaks) Draw(buf *render.Buffer, cam *Camera) {
	if s.disposed || !s.active() {
		return
	}
	for i := range s.X0 {
		a := s.Opacity
		if s.Alpha != nil {
			a *= s.Alpha[i]
		}
		if a <= 0 {
			continue
		}
		x0, y0, _ := cam.Project(s.X0[i], s.Y0[i])
		x1, y1, _ := cam.Project(s.X1[i], s.Y1[i])
		r := s.Glyph
		if r == 0 {
			r = SlopeGlyph(s.X1[i]-s.X0[i], (s.Y1[i]-s.Y0[i])*cam.CellAspect())
		}
		tail := s.TailAlpha
		mode := s.Blend
		color := s.Color
		Line(x0, y0, x1, y1, func(x, y, step, steps int) {
			t := 1.0
			if steps > 0 {
				t = float64(step) / float64(steps)
			}
			plot(buf, x, y, r, color, a*(tail+(1-tail)*t), mode, render.AttrNone)
		})
	}
}

// Dispose drops the segment arrays
func (s *Streaks) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.X0, s.Y0, s.X1, s.Y1, s.Alpha = nil, nil, nil, nil, nil
}

// Disposed reports whether Dispose has run
func (s *Streaks) Disposed() bool {
	return s.disposed
}

// SlopeGlyph picks a line glyph for direction (dx, dy), y down
func SlopeGlyph(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case adx < 0.4*ady:
		return '|'
	case ady < 0.4*adx:
		return '-'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

// Line walks the cells between two points with Bresenham's algorithm
// fn receives the step index and the total step count
func Line(x0, y0, x1, y1 int, fn func(x, y, step, steps int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	steps := max(dx, dy)

	for step := 0; ; step++ {
		fn(x0, y0, step, steps)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
