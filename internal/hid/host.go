package hid

import "github.com/dshills/odin75/internal/keycode"

// Host turns keycode presses and releases into HID reports. It tracks the
// current keyboard and mouse state and emits a report on every change.
type Host struct {
	out    Reporter
	report Report
	mouse  MouseReport
	leds   LEDState
}

// NewHost returns a host writing reports to out.
func NewHost(out Reporter) *Host {
	return &Host{out: out}
}

// Register presses kc along with any modifiers it carries.
func (h *Host) Register(kc keycode.Keycode) {
	basic := kc.Basic()
	switch {
	case kc == keycode.No || kc == keycode.Transparent:
		return
	case basic.IsConsumer() && kc.IsBasic():
		h.out.SendConsumer(consumerUsage(basic))
		return
	case basic.IsMouseButton() && kc.IsBasic():
		h.mouse.Buttons |= mouseBit(basic)
		h.out.SendMouse(h.mouse)
		return
	case !kc.IsBasic() && !kc.IsModified():
		return
	}

	h.report.Mods |= kc.ModBits()
	if !basic.IsModifier() {
		h.report.Add(uint8(basic))
	}
	h.out.SendKeyboard(h.report)
}

// Unregister releases kc and the modifiers it carries.
func (h *Host) Unregister(kc keycode.Keycode) {
	basic := kc.Basic()
	switch {
	case kc == keycode.No || kc == keycode.Transparent:
		return
	case basic.IsConsumer() && kc.IsBasic():
		h.out.SendConsumer(0)
		return
	case basic.IsMouseButton() && kc.IsBasic():
		h.mouse.Buttons &^= mouseBit(basic)
		h.out.SendMouse(h.mouse)
		return
	case !kc.IsBasic() && !kc.IsModified():
		return
	}

	h.report.Mods &^= kc.ModBits()
	if !basic.IsModifier() {
		h.report.Remove(uint8(basic))
	}
	h.out.SendKeyboard(h.report)
}

// Tap presses and releases kc.
func (h *Host) Tap(kc keycode.Keycode) {
	h.Register(kc)
	h.Unregister(kc)
}

// Move sends a relative mouse movement, keeping the current buttons.
func (h *Host) Move(x, y int8) {
	m := h.mouse
	m.X, m.Y = x, y
	h.out.SendMouse(m)
}

// ClearKeyboard releases every key and modifier.
func (h *Host) ClearKeyboard() {
	if h.report.Empty() {
		return
	}
	h.report = Report{}
	h.out.SendKeyboard(h.report)
}

// Report returns the current keyboard state.
func (h *Host) Report() Report {
	return h.report
}

// SetLEDs records the indicator state reported by the host.
func (h *Host) SetLEDs(s LEDState) {
	h.leds = s
}

// LEDs returns the last indicator state reported by the host.
func (h *Host) LEDs() LEDState {
	return h.leds
}

func mouseBit(kc keycode.Keycode) uint8 {
	switch kc {
	case keycode.MouseBtn1:
		return MouseLeft
	case keycode.MouseBtn2:
		return MouseRight
	default:
		return MouseMiddle
	}
}

func consumerUsage(kc keycode.Keycode) uint16 {
	switch kc {
	case keycode.AudioMute:
		return ConsumerMute
	case keycode.AudioVolUp:
		return ConsumerVolUp
	case keycode.AudioVolDown:
		return ConsumerVolDown
	case keycode.MediaNext:
		return ConsumerNext
	case keycode.MediaPrev:
		return ConsumerPrev
	case keycode.MediaStop:
		return ConsumerStop
	case keycode.MediaPlayPause:
		return ConsumerPlayPause
	case keycode.MediaSelect:
		return ConsumerSelect
	case keycode.MediaEject:
		return ConsumerEject
	case keycode.Mail:
		return ConsumerMail
	case keycode.Calculator:
		return ConsumerCalculator
	case keycode.MyComputer:
		return ConsumerMyComputer
	case keycode.WWWSearch:
		return ConsumerWWWSearch
	default:
		return ConsumerWWWHome
	}
}
