//go:build tinygo

package main

import (
	"machine/usb/hid/keyboard"
	"machine/usb/hid/mouse"

	"github.com/dshills/odin75/internal/hid"
)

// Key encodings of the TinyGo HID keyboard.
const (
	usageFlag    keyboard.Keycode = 0xF000
	modifierFlag keyboard.Keycode = 0xE000
	consumerFlag keyboard.Keycode = 0xE400
)

type keyPort interface {
	Down(keyboard.Keycode) error
	Up(keyboard.Keycode) error
	NumLockLed() bool
	CapsLockLed() bool
	ScrollLockLed() bool
}

type mousePort interface {
	Move(vx, vy int)
	Press(mouse.Button)
	Release(mouse.Button)
	Wheel(v int)
}

// usbReporter turns whole reports into the press and release calls of the
// TinyGo HID ports.
type usbReporter struct {
	kb       keyPort
	mouse    mousePort
	last     hid.Report
	buttons  uint8
	consumer uint16
}

func newUSBReporter() *usbReporter {
	return &usbReporter{kb: keyboard.Port(), mouse: mouse.Port()}
}

// SendKeyboard implements hid.Reporter.
func (u *usbReporter) SendKeyboard(r hid.Report) {
	for bit := 0; bit < 8; bit++ {
		mask := uint8(1) << bit
		code := modifierFlag | keyboard.Keycode(mask)
		switch {
		case r.Mods&mask != 0 && u.last.Mods&mask == 0:
			u.kb.Down(code)
		case r.Mods&mask == 0 && u.last.Mods&mask != 0:
			u.kb.Up(code)
		}
	}
	for _, k := range u.last.Keys {
		if k != 0 && !r.Has(k) {
			u.kb.Up(usageFlag | keyboard.Keycode(k))
		}
	}
	for _, k := range r.Keys {
		if k != 0 && !u.last.Has(k) {
			u.kb.Down(usageFlag | keyboard.Keycode(k))
		}
	}
	u.last = r
}

// SendMouse implements hid.Reporter.
func (u *usbReporter) SendMouse(r hid.MouseReport) {
	for _, b := range []mouse.Button{mouse.Left, mouse.Right, mouse.Middle} {
		mask := uint8(b)
		switch {
		case r.Buttons&mask != 0 && u.buttons&mask == 0:
			u.mouse.Press(b)
		case r.Buttons&mask == 0 && u.buttons&mask != 0:
			u.mouse.Release(b)
		}
	}
	u.buttons = r.Buttons
	if r.X != 0 || r.Y != 0 {
		u.mouse.Move(int(r.X), int(r.Y))
	}
	if r.V != 0 {
		u.mouse.Wheel(int(r.V))
	}
}

// SendConsumer implements hid.Reporter.
func (u *usbReporter) SendConsumer(usage uint16) {
	if u.consumer != 0 {
		u.kb.Up(consumerFlag | keyboard.Keycode(u.consumer))
	}
	if usage != 0 {
		u.kb.Down(consumerFlag | keyboard.Keycode(usage))
	}
	u.consumer = usage
}

func (u *usbReporter) leds() hid.LEDState {
	return hid.LEDState{
		NumLock:    u.kb.NumLockLed(),
		CapsLock:   u.kb.CapsLockLed(),
		ScrollLock: u.kb.ScrollLockLed(),
	}
}
