package parameter

import "time"

// Frame loop timing
const (
	// FrameInterval is the timer shim period when the host provides no frame source (~60 FPS)
	FrameInterval = 16 * time.Millisecond

	// MaxFrameDelta caps the simulated step after a stall (backgrounded host, debugger)
	MaxFrameDelta = 100 * time.Millisecond
)

// Worker mailbox
const (
	// WorkerResponseBuffer is the capacity of the worker response channel
	WorkerResponseBuffer = 64

	// WorkerReadyTimeout bounds how long the engine waits for Ready before demoting to fallback
	WorkerReadyTimeout = 2 * time.Second
)

// Container cell metrics in device-independent pixels, used to report terminal viewports
const (
	CellPixelWidth  = 8
	CellPixelHeight = 16
)

// Opacity bounds for the public API (percent)
const (
	OpacityMin     = 0.0
	OpacityMax     = 100.0
	OpacityDefault = 100.0
)
