package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/parameter"
)

// Dashboard palette (Tokyo Night)
var (
	styleBase   = tcell.StyleDefault.Background(tcell.NewRGBColor(26, 27, 38)).Foreground(tcell.NewRGBColor(192, 202, 245))
	styleBorder = styleBase.Foreground(tcell.NewRGBColor(86, 95, 137))
	styleTitle  = styleBase.Foreground(tcell.NewRGBColor(122, 162, 247)).Bold(true)
	styleStatus = tcell.StyleDefault.Background(tcell.NewRGBColor(36, 40, 59)).Foreground(tcell.NewRGBColor(169, 177, 214))
)

// card is one dashboard panel; its top edge collects snow
type card struct {
	id    string
	title string
	lines []string
	x, y  int
	w, h  int
}

// dashboard is the host application the overlay is painted over
type dashboard struct {
	screen tcell.Screen
	cards  []card
	cols   int
	rows   int
	status string
}

func newDashboard(screen tcell.Screen) *dashboard {
	d := &dashboard{screen: screen}
	d.layout()
	return d
}

// layout places cards in a row across the screen; the bottom row is the status line
func (d *dashboard) layout() {
	d.cols, d.rows = d.screen.Size()
	contents := []card{
		{id: "forecast", title: "Forecast", lines: []string{"Mon  12°  rain", "Tue   9°  sleet", "Wed   4°  snow"}},
		{id: "radar", title: "Radar", lines: []string{"cell NW 40km", "moving SE", "gusts 60km/h"}},
		{id: "alerts", title: "Alerts", lines: []string{"thunder watch", "until 22:00"}},
	}

	const gap, top, height = 2, 4, 7
	width := max((d.cols-gap*(len(contents)+1))/len(contents), 12)
	d.cards = d.cards[:0]
	for i, c := range contents {
		c.x = gap + i*(width+gap)
		c.y = top
		c.w = width
		c.h = height
		if c.x+c.w > d.cols || c.y+c.h >= d.rows {
			break
		}
		d.cards = append(d.cards, c)
	}
}

// overlayRows is the overlay height; the status line stays clear of effects
func (d *dashboard) overlayRows() int {
	return max(d.rows-1, 0)
}

// draw repaints the whole host screen
func (d *dashboard) draw() {
	d.screen.SetStyle(styleBase)
	d.screen.Clear()
	d.text(2, 1, "weatherfx terminal demo", styleTitle)
	d.text(2, 2, "n/p effect  +/- opacity  space stop  r reduced-motion  m mute  q quit", styleBorder)
	for _, c := range d.cards {
		d.box(c)
	}
	for x := 0; x < d.cols; x++ {
		d.screen.SetContent(x, d.rows-1, ' ', nil, styleStatus)
	}
	d.text(1, d.rows-1, d.status, styleStatus)
	d.screen.Show()
}

func (d *dashboard) box(c card) {
	right, bottom := c.x+c.w-1, c.y+c.h-1
	for x := c.x + 1; x < right; x++ {
		d.screen.SetContent(x, c.y, '─', nil, styleBorder)
		d.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := c.y + 1; y < bottom; y++ {
		d.screen.SetContent(c.x, y, '│', nil, styleBorder)
		d.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	d.screen.SetContent(c.x, c.y, '╭', nil, styleBorder)
	d.screen.SetContent(right, c.y, '╮', nil, styleBorder)
	d.screen.SetContent(c.x, bottom, '╰', nil, styleBorder)
	d.screen.SetContent(right, bottom, '╯', nil, styleBorder)

	d.text(c.x+2, c.y, " "+c.title+" ", styleTitle)
	for i, line := range c.lines {
		if c.y+2+i >= bottom {
			break
		}
		d.text(c.x+2, c.y+2+i, line, styleBase)
	}
}

func (d *dashboard) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= d.cols {
			return
		}
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// surfaces reports card top edges in container pixels for snow accumulation
func (d *dashboard) surfaces() []effect.SnowSurface {
	out := make([]effect.SnowSurface, 0, len(d.cards))
	for _, c := range d.cards {
		out = append(out, effect.SnowSurface{
			ID:           c.id,
			X:            float64(c.x * parameter.CellPixelWidth),
			Y:            float64(c.y * parameter.CellPixelHeight),
			Width:        float64(c.w * parameter.CellPixelWidth),
			Thickness:    float64(parameter.CellPixelHeight),
			CornerRadius: float64(parameter.CellPixelWidth),
		})
	}
	return out
}

func (d *dashboard) setStatus(effectName string, opacity float64, path, state string, audio string) {
	d.status = fmt.Sprintf("effect %-14s opacity %3.0f%%  path %-6s state %-8s audio %s", effectName, opacity, path, state, audio)
}
