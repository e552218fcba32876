// Package hid models the USB HID reports the keyboard sends to its host.
package hid

import (
	"fmt"
	"strings"
)

// Modifier bits of the keyboard report.
const (
	ModLCtrl  uint8 = 1 << iota
	ModLShift
	ModLAlt
	ModLGUI
	ModRCtrl
	ModRShift
	ModRAlt
	ModRGUI
)

var modNames = [8]string{"LCtl", "LSft", "LAlt", "LGui", "RCtl", "RSft", "RAlt", "RGui"}

// Mouse button bits.
const (
	MouseLeft uint8 = 1 << iota
	MouseRight
	MouseMiddle
)

// Consumer page usages.
const (
	ConsumerMute       uint16 = 0x00E2
	ConsumerVolUp      uint16 = 0x00E9
	ConsumerVolDown    uint16 = 0x00EA
	ConsumerNext       uint16 = 0x00B5
	ConsumerPrev       uint16 = 0x00B6
	ConsumerStop       uint16 = 0x00B7
	ConsumerPlayPause  uint16 = 0x00CD
	ConsumerSelect     uint16 = 0x0183
	ConsumerEject      uint16 = 0x00B8
	ConsumerMail       uint16 = 0x018A
	ConsumerCalculator uint16 = 0x0192
	ConsumerMyComputer uint16 = 0x0194
	ConsumerWWWSearch  uint16 = 0x0221
	ConsumerWWWHome    uint16 = 0x0223
)

// Report is a 6-key-rollover boot keyboard report.
type Report struct {
	Mods uint8
	Keys [6]uint8
}

// Add places usage in the first free key slot. It returns false if the usage
// is already present or the report is full.
func (r *Report) Add(usage uint8) bool {
	if usage == 0 || r.Has(usage) {
		return false
	}
	for i, k := range r.Keys {
		if k == 0 {
			r.Keys[i] = usage
			return true
		}
	}
	return false
}

// Remove clears usage from the report and reports whether it was present.
func (r *Report) Remove(usage uint8) bool {
	for i, k := range r.Keys {
		if k == usage && usage != 0 {
			copy(r.Keys[i:], r.Keys[i+1:])
			r.Keys[len(r.Keys)-1] = 0
			return true
		}
	}
	return false
}

// Has reports whether usage is pressed.
func (r Report) Has(usage uint8) bool {
	for _, k := range r.Keys {
		if k == usage && usage != 0 {
			return true
		}
	}
	return false
}

// Empty reports whether no key or modifier is pressed.
func (r Report) Empty() bool {
	return r == Report{}
}

// String formats the report as "LCtl+LSft [04 05]".
func (r Report) String() string {
	var b strings.Builder
	for i, n := range modNames {
		if r.Mods&(1<<i) != 0 {
			if b.Len() > 0 {
				b.WriteByte('+')
			}
			b.WriteString(n)
		}
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteByte('[')
	first := true
	for _, k := range r.Keys {
		if k == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", k)
		first = false
	}
	b.WriteByte(']')
	return b.String()
}

// MouseReport is a relative mouse report.
type MouseReport struct {
	Buttons uint8
	X, Y    int8
	V, H    int8
}

// LEDState is the host's keyboard indicator state.
type LEDState struct {
	NumLock    bool
	CapsLock   bool
	ScrollLock bool
	Compose    bool
	Kana       bool
}

// LEDStateFromByte decodes the HID LED output report.
func LEDStateFromByte(b uint8) LEDState {
	return LEDState{
		NumLock:    b&0x01 != 0,
		CapsLock:   b&0x02 != 0,
		ScrollLock: b&0x04 != 0,
		Compose:    b&0x08 != 0,
		Kana:       b&0x10 != 0,
	}
}

// Reporter sends reports to the host.
type Reporter interface {
	SendKeyboard(r Report)
	SendMouse(r MouseReport)
	SendConsumer(usage uint16)
}

// Recorder is a Reporter that keeps every report it is sent.
type Recorder struct {
	Keyboard []Report
	Mouse    []MouseReport
	Consumer []uint16
}

// SendKeyboard implements Reporter.
func (r *Recorder) SendKeyboard(rep Report) { r.Keyboard = append(r.Keyboard, rep) }

// SendMouse implements Reporter.
func (r *Recorder) SendMouse(rep MouseReport) { r.Mouse = append(r.Mouse, rep) }

// SendConsumer implements Reporter.
func (r *Recorder) SendConsumer(usage uint16) { r.Consumer = append(r.Consumer, usage) }

// Last returns the most recent keyboard report, or an empty one.
func (r *Recorder) Last() Report {
	if len(r.Keyboard) == 0 {
		return Report{}
	}
	return r.Keyboard[len(r.Keyboard)-1]
}

// Typed returns the usages in the order they were first pressed, one entry
// per press.
func (r *Recorder) Typed() []uint8 {
	var out []uint8
	var prev Report
	for _, rep := range r.Keyboard {
		for _, k := range rep.Keys {
			if k != 0 && !prev.Has(k) {
				out = append(out, k)
			}
		}
		prev = rep
	}
	return out
}

// Reset drops all recorded reports.
func (r *Recorder) Reset() {
	r.Keyboard = nil
	r.Mouse = nil
	r.Consumer = nil
}
