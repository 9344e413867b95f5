package terminal

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
)

// ErrReleased is returned by Present after Release
var ErrReleased = errors.New("terminal: overlay released")

// Default host colors for cells drawn with ColorDefault (Tokyo Night)
var (
	DefaultBg = render.RGB{R: 26, G: 27, B: 38}
	DefaultFg = render.RGB{R: 192, G: 202, B: 245}
)

// hostCell is one captured cell of host content
type hostCell struct {
	r     rune
	style tcell.Style
}

// Overlay is a render.Surface painting a screen rectangle
// Host content beneath is captured and re-composited every frame, so the host never sees overlay pixels
type Overlay struct {
	screen tcell.Screen
	mode   ColorMode

	mu       sync.Mutex
	x, y     int
	cols     int
	rows     int
	host     []hostCell
	captured bool
	released bool
}

// NewOverlay creates a surface at screen origin (x, y)
func NewOverlay(screen tcell.Screen, x, y int, mode ColorMode) *Overlay {
	return &Overlay{screen: screen, mode: mode, x: x, y: y}
}

// Resize maps a viewport in device-independent pixels to the cell grid
func (o *Overlay) Resize(width, height int, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	cols := max(width/parameter.CellPixelWidth, 0)
	rows := max(height/parameter.CellPixelHeight, 0)
	if cols == o.cols && rows == o.rows {
		return
	}
	o.cols, o.rows = cols, rows
	o.host = make([]hostCell, cols*rows)
	o.captured = false
}

// Size returns the cell grid
func (o *Overlay) Size() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cols, o.rows
}

// Move relocates the overlay origin; host content is recaptured on next Present
func (o *Overlay) Move(x, y int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.x, o.y = x, y
	o.captured = false
}

// Capture snapshots host content under the overlay; call after the host redraws
func (o *Overlay) Capture() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.captureLocked()
}

// Host runs draw with frames held off, then captures what it drew
func (o *Overlay) Host(draw func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	draw()
	if !o.released {
		o.captureLocked()
	}
}

func (o *Overlay) captureLocked() {
	for row := 0; row < o.rows; row++ {
		for col := 0; col < o.cols; col++ {
			r, _, style, _ := o.screen.GetContent(o.x+col, o.y+row)
			if r == ' ' {
				r = 0
			}
			o.host[row*o.cols+col] = hostCell{r: r, style: style}
		}
	}
	o.captured = true
}

// Present composites buf over the captured host cells and shows the screen
func (o *Overlay) Present(buf *render.Buffer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return ErrReleased
	}
	if !o.captured {
		o.captureLocked()
	}

	cols, rows := min(o.cols, buf.Width()), min(o.rows, buf.Height())
	for row := 0; row < o.rows; row++ {
		for col := 0; col < o.cols; col++ {
			h := o.host[row*o.cols+col]
			cell, touched := render.Cell{}, false
			if col < cols && row < rows {
				cell, touched = buf.At(col, row)
			}
			if !touched || cell.Empty() {
				o.restore(col, row, h)
				continue
			}
			o.paint(col, row, h, cell)
		}
	}
	o.screen.Show()
	return nil
}

func (o *Overlay) restore(col, row int, h hostCell) {
	r := h.r
	if r == 0 {
		r = ' '
	}
	o.screen.SetContent(o.x+col, o.y+row, r, nil, h.style)
}

func (o *Overlay) paint(col, row int, h hostCell, cell render.Cell) {
	hostFg, hostBg, hostAttrs := h.style.Decompose()
	fgIn := FromTcell(hostFg, DefaultFg)
	bgIn := FromTcell(hostBg, DefaultBg)

	r, fg, bg := render.CompositeOver(cell, h.r, fgIn, bgIn)
	attrs := hostAttrs
	if cell.Rune != 0 && cell.FgAlpha > 0 {
		attrs = attrMask(cell.Attrs)
	}
	if r == 0 {
		r = ' '
	}
	style := tcell.StyleDefault.
		Foreground(ToTcell(fg, o.mode)).
		Background(ToTcell(bg, o.mode)).
		Attributes(attrs)
	o.screen.SetContent(o.x+col, o.y+row, r, nil, style)
}

// Release restores host content and rejects further frames; idempotent
func (o *Overlay) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return
	}
	o.released = true
	if !o.captured {
		return
	}
	for row := 0; row < o.rows; row++ {
		for col := 0; col < o.cols; col++ {
			o.restore(col, row, o.host[row*o.cols+col])
		}
	}
	o.screen.Show()
}

// Released reports whether Release ran
func (o *Overlay) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}
