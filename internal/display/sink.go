// Package display provides output sinks for the 128x64 keyboard OLED.
//
// A Sink accepts raw frame bytes from the bitmap renderers and line text from
// the info and notice screens. Framebuffer keeps the frame in memory and is
// the basis of every other sink: Terminal mirrors it into a tcell screen and
// the SSD1306 sink (tinygo builds) pushes it to the controller over I2C.
package display

import "github.com/dshills/odin75/internal/renderer/bitmap"

// Text geometry for the 6x8 font.
const (
	GlyphWidth = 6
	Columns    = bitmap.Width / GlyphWidth
	Rows       = bitmap.Pages
)

// Sink is the display surface driven by the OLED task.
type Sink interface {
	bitmap.Writer

	// WriteLines writes text starting at the top-left character cell.
	// A newline clears the remainder of the current row. Text wraps at
	// Columns and is cut off after Rows.
	WriteLines(text string, invert bool)

	// Clear blanks the whole frame.
	Clear()

	// SetBrightness sets the panel contrast.
	SetBrightness(level uint8)

	// PowerOff turns the panel off until the next write.
	PowerOff()
}

// Flusher is implemented by sinks that buffer a frame and push it to a
// device when asked.
type Flusher interface {
	Flush() error
}
