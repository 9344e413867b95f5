package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// Fallback grid when the context carries no cell dimensions
const digitalRainDefaultRows = 50

type rainColumn struct {
	x      float64 // logical center
	phase  float64 // [0, 1) of the cycle
	speed  float64 // rows per second
	trail  int
	glyphs []rune // one glyph per row, swapped over time
}

// DigitalRainEffect is grid-aligned falling glyph columns with bright heads
// Column layout depends on the grid, so it has no resize hook and is rebuilt instead
type DigitalRainEffect struct {
	base
	rows    int
	cellH   float64
	columns []rainColumn
	trail   []render.RGB // head-to-tail color LUT, built once
	glyphs  *scene.Glyphs
	rng     *vmath.FastRand
	swaps   int
}

// NewDigitalRain builds the digital rain effect
func NewDigitalRain(ctx BuildContext) *DigitalRainEffect {
	d := &DigitalRainEffect{
		base: newBase("matrix-rain", ctx),
		rng:  ctx.rng(streamSwaps),
	}
	viewW, viewH := ctx.dims()

	cols, rows := ctx.Cols, ctx.Rows
	if cols <= 0 || rows <= 0 {
		rows = digitalRainDefaultRows
		cols = max(int(viewW/viewH*float64(rows)*2), 1)
	}
	d.rows = rows
	d.cellH = viewH / float64(rows)
	cellW := viewW / float64(cols)

	tint := visual.RgbMatrix
	if ctx.Extras.MatrixRainColor != "" {
		if c, err := render.ParseColor(ctx.Extras.MatrixRainColor); err == nil {
			tint = c
		}
	}
	d.trail = trailLUT(tint, parameter.DigitalRainTrailMax)

	step := 1
	if ctx.Mobile {
		step = 1 + parameter.DigitalRainColumnGap
	}
	rng := ctx.rng(streamParticles)
	for c := 0; c < cols; c += step {
		col := rainColumn{
			x:      (float64(c) + 0.5) * cellW,
			phase:  rng.Float64(),
			speed:  rng.Range(parameter.DigitalRainSpeedMin, parameter.DigitalRainSpeedMax) / d.cellH,
			trail:  parameter.DigitalRainTrailMin + rng.Intn(parameter.DigitalRainTrailMax-parameter.DigitalRainTrailMin+1),
			glyphs: make([]rune, rows),
		}
		for r := range col.glyphs {
			col.glyphs[r] = visual.MatrixGlyphs[rng.Intn(len(visual.MatrixGlyphs))]
		}
		d.columns = append(d.columns, col)
	}

	capacity := 0
	for _, col := range d.columns {
		capacity += col.trail + 1
	}
	d.glyphs = scene.NewGlyphs(capacity, scene.NewMaterial(tint, render.BlendAlphaFg))
	d.group.Add(d.glyphs)
	return d
}

// trailLUT interpolates in HCL from a near-white head to the tint color
func trailLUT(tint render.RGB, n int) []render.RGB {
	hot := render.MixHcl(tint, visual.RgbMatrixHot, 0.8)
	lut := make([]render.RGB, n+1)
	for i := range lut {
		lut[i] = render.MixHcl(hot, tint, vmath.SmoothStep(0, 0.35, float64(i)/float64(n)))
	}
	return lut
}

// ColumnCount returns the number of glyph columns
func (d *DigitalRainEffect) ColumnCount() int {
	return len(d.columns)
}

// HeadColor returns the brightest trail color
func (d *DigitalRainEffect) HeadColor() render.RGB {
	return d.trail[0]
}

// Update lays out every trail and swaps random glyphs
func (d *DigitalRainEffect) Update(dt, elapsed float64) {
	if d.disposed {
		return
	}
	d.glyphs.Opacity = parameter.DigitalRainOpacity * d.opacity

	chance := dt * parameter.DigitalRainSwayRate
	items := d.glyphs.Items[:0]
	for ci := range d.columns {
		col := &d.columns[ci]
		if d.rng.Chance(chance) {
			col.glyphs[d.rng.Intn(len(col.glyphs))] = visual.MatrixGlyphs[d.rng.Intn(len(visual.MatrixGlyphs))]
			d.swaps++
		}

		span := float64(d.rows + col.trail)
		head := int(vmath.Wrap(col.phase*span+col.speed*elapsed, span))
		for i := 0; i <= col.trail; i++ {
			row := head - i
			if row < 0 || row >= d.rows {
				continue
			}
			attrs := render.AttrNone
			if i == 0 {
				attrs = render.AttrBold
			}
			items = append(items, scene.Glyph{
				X:     col.x,
				Y:     (float64(row) + 0.5) * d.cellH,
				Rune:  col.glyphs[row],
				Color: d.trail[i*(len(d.trail)-1)/max(col.trail, 1)],
				Alpha: 1 - float64(i)/float64(col.trail+1),
				Attrs: attrs,
			})
		}
	}
	d.glyphs.Items = items
}

// Dispose releases the glyph list
func (d *DigitalRainEffect) Dispose() {
	d.release()
}
