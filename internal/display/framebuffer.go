package display

import "github.com/dshills/odin75/internal/renderer/bitmap"

// Framebuffer is an in-memory Sink.
type Framebuffer struct {
	buf        [bitmap.FrameSize]byte
	text       string
	brightness uint8
	on         bool
	clears     int
}

// NewFramebuffer returns a powered-on, blank framebuffer.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{on: true, brightness: 255}
}

// WriteRawByte implements bitmap.Writer. Out-of-range indices are ignored.
func (f *Framebuffer) WriteRawByte(index int, b byte) {
	if index < 0 || index >= len(f.buf) {
		return
	}
	f.buf[index] = b
	f.on = true
}

// WriteLines implements Sink.
func (f *Framebuffer) WriteLines(text string, invert bool) {
	f.on = true
	f.text = text

	col, row := 0, 0
	for i := 0; i < len(text) && row < Rows; i++ {
		c := text[i]
		if c == '\n' {
			f.clearRow(row, col)
			row++
			col = 0
			continue
		}
		f.drawGlyph(col, row, c, invert)
		col++
		if col == Columns {
			row++
			col = 0
		}
	}
	if row < Rows {
		f.clearRow(row, col)
	}
}

// Clear implements Sink.
func (f *Framebuffer) Clear() {
	f.buf = [bitmap.FrameSize]byte{}
	f.text = ""
	f.clears++
}

// SetBrightness implements Sink.
func (f *Framebuffer) SetBrightness(level uint8) {
	f.brightness = level
}

// PowerOff implements Sink.
func (f *Framebuffer) PowerOff() {
	f.on = false
}

// Bytes returns the frame in page layout. The slice aliases the buffer.
func (f *Framebuffer) Bytes() []byte {
	return f.buf[:]
}

// Pixel reports whether pixel (x, y) is lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= bitmap.Width || y < 0 || y >= bitmap.Height {
		return false
	}
	return f.buf[y/bitmap.PageRows*bitmap.Width+x]>>(y%bitmap.PageRows)&1 != 0
}

// Text returns the last text passed to WriteLines since the last Clear.
func (f *Framebuffer) Text() string {
	return f.text
}

// On reports whether the panel is powered.
func (f *Framebuffer) On() bool {
	return f.on
}

// Brightness returns the current contrast level.
func (f *Framebuffer) Brightness() uint8 {
	return f.brightness
}

// Clears returns how many times Clear has been called.
func (f *Framebuffer) Clears() int {
	return f.clears
}

func (f *Framebuffer) drawGlyph(col, row int, c byte, invert bool) {
	g := Glyph(c)
	base := row*bitmap.Width + col*GlyphWidth
	for i, b := range g {
		if invert {
			b = ^b
		}
		f.buf[base+i] = b
	}
}

// clearRow blanks character row from column col to the end of the row.
func (f *Framebuffer) clearRow(row, col int) {
	start := row*bitmap.Width + col*GlyphWidth
	end := (row + 1) * bitmap.Width
	for i := start; i < end; i++ {
		f.buf[i] = 0
	}
}
