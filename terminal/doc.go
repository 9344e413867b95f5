// Package terminal hosts the overlay on a tcell screen.
//
// A Container maps a rectangle of the screen to a viewport in device-independent
// pixels (one cell is 8x16 px). Its canvases wrap Overlay surfaces that composite
// renderer buffers over whatever the host application last drew, captured with Capture.
package terminal
