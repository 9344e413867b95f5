// Package worker runs a Renderer in an isolated goroutine reached only by message passing.
// The engine posts Messages into an ordered mailbox and reads Responses back.
package worker

import (
	"fmt"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/renderer"
)

// Message is the closed set of requests sent to the worker
type Message interface {
	Kind() string
	message()
}

// Init constructs the renderer; Surface must come from Canvas.TransferControl
type Init struct {
	Surface     render.Surface
	FrameSource renderer.FrameSource
	PixelRatio  float64
	Width       int
	Height      int
	Mobile      bool
}

// Start activates an effect
type Start struct {
	Effect  effect.Tag
	Opacity float64
	Extras  effect.Extras
}

// SetOpacity updates the active effect opacity (percent)
type SetOpacity struct {
	Value float64
}

// Resize reports new viewport dimensions
type Resize struct {
	Width      int
	Height     int
	PixelRatio float64
	Mobile     bool
}

// SetSnowSurfaces replaces the accumulation surface set
type SetSnowSurfaces struct {
	Surfaces []effect.SnowSurface
}

// Stop halts the active effect
type Stop struct{}

// Dispose destroys the renderer and releases the surface
type Dispose struct{}

func (Init) Kind() string            { return "INIT" }
func (Start) Kind() string           { return "START" }
func (SetOpacity) Kind() string      { return "SET_OPACITY" }
func (Resize) Kind() string          { return "RESIZE" }
func (SetSnowSurfaces) Kind() string { return "SET_SNOW_SURFACES" }
func (Stop) Kind() string            { return "STOP" }
func (Dispose) Kind() string         { return "DISPOSE" }

func (Init) message()            {}
func (Start) message()           {}
func (SetOpacity) message()      {}
func (Resize) message()          {}
func (SetSnowSurfaces) message() {}
func (Stop) message()            {}
func (Dispose) message()         {}

// Response is the closed set of notices sent back by the worker
type Response interface {
	Kind() string
	response()
}

// Ready signals the renderer was constructed
type Ready struct{}

// Error reports a construction or runtime failure
type Error struct {
	Message string
}

// Strike relays a lightning strike from the active effect
type Strike struct {
	Intensity float64
}

func (Ready) Kind() string  { return "READY" }
func (Error) Kind() string  { return "ERROR" }
func (Strike) Kind() string { return "STRIKE" }

func (Ready) response()  {}
func (Error) response()  {}
func (Strike) response() {}

// Error implements error so responses can be wrapped and logged directly
func (e Error) Error() string { return "worker: " + e.Message }

// errorf builds an Error response
func errorf(format string, args ...any) Error {
	return Error{Message: fmt.Sprintf(format, args...)}
}
