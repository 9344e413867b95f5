package engine

import "github.com/lixenwraith/weatherfx/render"

// Container is the mount point the overlay paints into
type Container interface {
	// Size returns the viewport in device-independent pixels
	Size() (width, height int)
	PixelRatio() float64
	// Mobile reports a reduced-budget device tier
	Mobile() bool
	// NewCanvas allocates a fresh render target for this container
	NewCanvas() (*render.Canvas, error)
	// Attach shows canvas above the container content
	Attach(canvas *render.Canvas) error
	// Detach removes canvas; unknown canvases are ignored
	Detach(canvas *render.Canvas)
}

// MotionPreference is implemented by containers that know the user's reduced-motion setting
type MotionPreference interface {
	PrefersReducedMotion() bool
}
