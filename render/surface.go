package render

import (
	"errors"
	"sync"
)

// ErrTransferred is returned when a canvas is used after its surface moved to another owner
var ErrTransferred = errors.New("render: canvas control already transferred")

// Surface is a drawable render target that displays composited overlay buffers
type Surface interface {
	// Resize informs the surface of new viewport dimensions in device-independent pixels
	Resize(width, height int, pixelRatio float64)
	// Size returns the cell grid the surface paints
	Size() (cols, rows int)
	// Present composites buf over whatever the surface shows beneath it
	Present(buf *Buffer) error
	// Release frees the surface; further Present calls fail or no-op
	Release()
}

// Canvas owns a surface until control is transferred out exactly once
type Canvas struct {
	mu          sync.Mutex
	surface     Surface
	transferred bool
}

// NewCanvas wraps a surface
func NewCanvas(s Surface) *Canvas {
	return &Canvas{surface: s}
}

// TransferControl hands the surface to a new owner; the canvas keeps no reference
func (c *Canvas) TransferControl() (Surface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transferred {
		return nil, ErrTransferred
	}
	s := c.surface
	c.surface = nil
	c.transferred = true
	return s, nil
}

// Surface returns the owned surface for in-process drawing
func (c *Canvas) Surface() (Surface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transferred {
		return nil, ErrTransferred
	}
	return c.surface, nil
}

// Transferred reports whether TransferControl has been called
func (c *Canvas) Transferred() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transferred
}
