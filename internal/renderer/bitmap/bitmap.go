// Package bitmap composes 128x64 monochrome frames for an SSD1306-style
// display from pre-rendered bitmaps.
//
// Every bitmap uses the controller's page layout: the byte at
// page*width + x holds eight vertically stacked pixels of column x, with bit
// n being row page*8+n. The renderers write a full frame of FrameSize bytes
// through a Writer and never allocate.
package bitmap

// Display geometry.
const (
	Width     = 128
	Height    = 64
	PageRows  = 8
	Pages     = Height / PageRows
	FrameSize = Width * Pages
)

// Writer receives raw frame bytes in page layout.
type Writer interface {
	WriteRawByte(index int, b byte)
}

// at reads src[i], treating anything past the end as blank.
func at(src []byte, i int) byte {
	if i < 0 || i >= len(src) {
		return 0
	}
	return src[i]
}

// SplitRender composes a frame whose top mask rows come from front and whose
// remaining rows come from full. mask is clamped to [0, Height].
func SplitRender(w Writer, mask int, full, front []byte) {
	if mask < 0 {
		mask = 0
	} else if mask > Height {
		mask = Height
	}

	for page := 0; page < Pages; page++ {
		rows := mask - page*PageRows
		if rows < 0 {
			rows = 0
		} else if rows > PageRows {
			rows = PageRows
		}
		sel := byte(int(1)<<rows - 1)

		base := page * Width
		for x := 0; x < Width; x++ {
			i := base + x
			w.WriteRawByte(i, at(front, i)&sel|at(full, i)&^sel)
		}
	}
}

// HScrollRender shows a 128-column window of a bitmap that is width columns
// wide and Height rows tall, starting at column offset. The window wraps
// around the bitmap's right edge.
func HScrollRender(w Writer, offset int, src []byte, width int) {
	if width <= 0 {
		Clear(w)
		return
	}
	offset %= width
	if offset < 0 {
		offset += width
	}

	for page := 0; page < Pages; page++ {
		col := offset
		for x := 0; x < Width; x++ {
			w.WriteRawByte(page*Width+x, at(src, page*width+col))
			col++
			if col == width {
				col = 0
			}
		}
	}
}

// VScrollRender shows a 64-row window of a bitmap that is Width columns wide
// and height rows tall, starting at row offset. The window wraps around the
// bitmap's bottom edge. offset need not be page aligned.
func VScrollRender(w Writer, offset int, src []byte, height int) {
	if height <= 0 {
		Clear(w)
		return
	}
	offset %= height
	if offset < 0 {
		offset += height
	}

	if offset%PageRows == 0 && height%PageRows == 0 {
		srcPages := height / PageRows
		for page := 0; page < Pages; page++ {
			sp := (offset/PageRows + page) % srcPages
			for x := 0; x < Width; x++ {
				w.WriteRawByte(page*Width+x, at(src, sp*Width+x))
			}
		}
		return
	}

	for page := 0; page < Pages; page++ {
		for x := 0; x < Width; x++ {
			var b byte
			for bit := 0; bit < PageRows; bit++ {
				sy := (offset + page*PageRows + bit) % height
				if at(src, sy/PageRows*Width+x)>>(sy%PageRows)&1 != 0 {
					b |= 1 << bit
				}
			}
			w.WriteRawByte(page*Width+x, b)
		}
	}
}

// Clear writes a blank frame.
func Clear(w Writer) {
	for i := 0; i < FrameSize; i++ {
		w.WriteRawByte(i, 0)
	}
}
