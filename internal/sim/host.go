package sim

import (
	"fmt"

	"github.com/dshills/odin75/internal/hid"
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/sendstring"
)

// typedLimit is how many typed characters the status line keeps.
const typedLimit = 48

var plainChars, shiftChars = reverseASCII()

// reverseASCII maps usages back to the characters they type.
func reverseASCII() (plain, shift map[uint8]byte) {
	plain = make(map[uint8]byte)
	shift = make(map[uint8]byte)
	for c := byte(' '); c < 0x7F; c++ {
		code, ok := sendstring.ASCII(c)
		if !ok {
			continue
		}
		if code.IsModified() {
			shift[uint8(code.Basic())] = c
		} else {
			plain[uint8(code)] = c
		}
	}
	plain[uint8(kc.Enter)] = '\n'
	return plain, shift
}

// hostView is the simulated USB host. It turns reports back into text and
// tracks the pointer.
type hostView struct {
	last     hid.Report
	typed    []byte
	x, y     int
	buttons  uint8
	consumer uint16
	reports  int
}

// SendKeyboard implements hid.Reporter.
func (h *hostView) SendKeyboard(r hid.Report) {
	h.reports++
	shifted := r.Mods&(hid.ModLShift|hid.ModRShift) != 0
	ctrl := r.Mods&(hid.ModLCtrl|hid.ModRCtrl|hid.ModLGUI|hid.ModRGUI|hid.ModLAlt|hid.ModRAlt) != 0
	for _, k := range r.Keys {
		if k == 0 || h.last.Has(k) || ctrl {
			continue
		}
		if c, ok := charFor(k, shifted); ok {
			h.typed = append(h.typed, c)
		}
	}
	if n := len(h.typed); n > typedLimit {
		h.typed = h.typed[n-typedLimit:]
	}
	h.last = r
}

func charFor(usage uint8, shifted bool) (byte, bool) {
	if shifted {
		if c, ok := shiftChars[usage]; ok {
			return c, true
		}
	}
	c, ok := plainChars[usage]
	return c, ok
}

// SendMouse implements hid.Reporter.
func (h *hostView) SendMouse(r hid.MouseReport) {
	h.x += int(r.X)
	h.y += int(r.Y)
	h.buttons = r.Buttons
}

// SendConsumer implements hid.Reporter.
func (h *hostView) SendConsumer(usage uint16) {
	if usage != 0 {
		h.consumer = usage
	}
}

// Typed returns the recent text with newlines shown as a return glyph.
func (h *hostView) Typed() string {
	out := make([]rune, 0, len(h.typed))
	for _, c := range h.typed {
		if c == '\n' {
			out = append(out, '↵')
			continue
		}
		out = append(out, rune(c))
	}
	return string(out)
}

func (h *hostView) pointer() string {
	return fmt.Sprintf("(%d,%d) buttons=%03b consumer=%04X", h.x, h.y, h.buttons, h.consumer)
}
