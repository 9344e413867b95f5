package terminal

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
)

// ErrUnknownCanvas is returned when attaching a canvas this container did not create
var ErrUnknownCanvas = errors.New("terminal: canvas not created by this container")

// ContainerOptions configures a Container; zero Cols/Rows follow the screen size
type ContainerOptions struct {
	X, Y          int
	Cols, Rows    int
	Mode          ColorMode
	Mobile        bool
	ReducedMotion bool
}

// Container mounts overlays on a rectangle of a tcell screen
type Container struct {
	screen tcell.Screen

	mu       sync.Mutex
	opts     ContainerOptions
	overlays map[*render.Canvas]*Overlay
	active   *render.Canvas
}

// NewContainer creates a container over screen
func NewContainer(screen tcell.Screen, opts ContainerOptions) *Container {
	return &Container{
		screen:   screen,
		opts:     opts,
		overlays: make(map[*render.Canvas]*Overlay),
	}
}

// bounds resolves the rectangle against the current screen size
func (c *Container) bounds() (x, y, cols, rows int) {
	sw, sh := c.screen.Size()
	x, y = c.opts.X, c.opts.Y
	cols, rows = c.opts.Cols, c.opts.Rows
	if cols <= 0 {
		cols = sw - x
	}
	if rows <= 0 {
		rows = sh - y
	}
	return x, y, max(cols, 0), max(rows, 0)
}

// Size reports the viewport in device-independent pixels
func (c *Container) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, cols, rows := c.bounds()
	return cols * parameter.CellPixelWidth, rows * parameter.CellPixelHeight
}

// PixelRatio is always 1: terminal cells have no device scaling
func (c *Container) PixelRatio() float64 { return 1 }

// Mobile reports the low-power flag
func (c *Container) Mobile() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Mobile
}

// PrefersReducedMotion reports the configured preference
func (c *Container) PrefersReducedMotion() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.ReducedMotion
}

// SetReducedMotion updates the preference for subsequent starts
func (c *Container) SetReducedMotion(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ReducedMotion = v
}

// NewCanvas allocates an overlay at the current origin
func (c *Container) NewCanvas() (*render.Canvas, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	x, y, _, _ := c.bounds()
	o := NewOverlay(c.screen, x, y, c.opts.Mode)
	canvas := render.NewCanvas(o)
	c.overlays[canvas] = o
	return canvas, nil
}

// Attach makes canvas the visible overlay
func (c *Container) Attach(canvas *render.Canvas) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.overlays[canvas]; !ok {
		return ErrUnknownCanvas
	}
	c.active = canvas
	return nil
}

// Detach releases canvas and forgets it
func (c *Container) Detach(canvas *render.Canvas) {
	c.mu.Lock()
	o, ok := c.overlays[canvas]
	delete(c.overlays, canvas)
	if c.active == canvas {
		c.active = nil
	}
	c.mu.Unlock()
	if ok {
		o.Release()
	}
}

// SetBounds moves the container; callers follow with Engine.HandleResize
func (c *Container) SetBounds(x, y, cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.X, c.opts.Y, c.opts.Cols, c.opts.Rows = x, y, cols, rows
	for _, o := range c.overlays {
		o.Move(x, y)
	}
}

// Redraw runs the host's draw with overlay frames held off, then recaptures
// Without an attached overlay draw runs directly
func (c *Container) Redraw(draw func()) {
	c.mu.Lock()
	o := c.overlays[c.active]
	c.mu.Unlock()
	if o == nil {
		draw()
		return
	}
	o.Host(draw)
}

// Overlay returns the attached overlay, nil when none
func (c *Container) Overlay() *Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlays[c.active]
}
