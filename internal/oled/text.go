package oled

import "fmt"

// TextCapacity is the size of the shared text buffer including the
// terminator, so at most TextCapacity-1 characters are kept.
const TextCapacity = 168

// TextBuffer is a fixed-size line buffer with snprintf semantics: output
// past the capacity is dropped, but the returned lengths count it.
type TextBuffer struct {
	buf [TextCapacity]byte
	n   int
}

// Reset empties the buffer.
func (b *TextBuffer) Reset() {
	b.n = 0
}

// Printf replaces the contents. It returns the untruncated length.
func (b *TextBuffer) Printf(format string, args ...any) int {
	b.n = 0
	return b.Appendf(format, args...)
}

// Appendf appends formatted text and returns the length the buffer would
// hold had nothing been truncated.
func (b *TextBuffer) Appendf(format string, args ...any) int {
	start := b.n
	out := fmt.Appendf(b.buf[start:start:TextCapacity-1], format, args...)
	b.n += copy(b.buf[start:TextCapacity-1], out)
	return start + len(out)
}

// Set replaces the contents with s, truncated to fit.
func (b *TextBuffer) Set(s string) {
	b.n = copy(b.buf[:TextCapacity-1], s)
}

// Len returns the number of stored characters.
func (b *TextBuffer) Len() int {
	return b.n
}

// String returns the stored text.
func (b *TextBuffer) String() string {
	return string(b.buf[:b.n])
}
