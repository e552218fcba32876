// Package keycode defines the 16-bit keycode space used by the keymap.
//
// The layout follows the conventions of QMK so that keymaps read familiar:
// the low byte of a basic keycode is its HID keyboard usage, bits 8-12 carry
// modifiers to press alongside it, and dedicated ranges hold layer-tap,
// tap-dance, dynamic-macro and user keycodes.
package keycode

// Keycode is a 16-bit keymap code.
type Keycode uint16

// Special codes.
const (
	No          Keycode = 0x0000
	Transparent Keycode = 0x0001
)

// Basic HID keyboard usages.
const (
	A Keycode = 0x04 + iota
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	N1
	N2
	N3
	N4
	N5
	N6
	N7
	N8
	N9
	N0
	Enter
	Escape
	Backspace
	Tab
	Space
	Minus
	Equal
	LeftBracket
	RightBracket
	Backslash
	NonUSHash
	Semicolon
	Quote
	Grave
	Comma
	Dot
	Slash
	CapsLock
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	PrintScreen
	ScrollLock
	Pause
	Insert
	Home
	PageUp
	Delete
	End
	PageDown
	Right
	Left
	Down
	Up
	NumLock
	KPSlash
	KPAsterisk
	KPMinus
	KPPlus
	KPEnter
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9
	KP0
	KPDot
)

// Function keys beyond F12.
const (
	F13 Keycode = 0x68 + iota
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
)

// System and consumer keys. These are not keyboard usages; the HID layer
// maps them onto the consumer page.
const (
	AudioMute Keycode = 0xA8 + iota
	AudioVolUp
	AudioVolDown
	MediaNext
	MediaPrev
	MediaStop
	MediaPlayPause
	MediaSelect
	MediaEject
	Mail
	Calculator
	MyComputer
	WWWSearch
	WWWHome
)

// Mouse buttons.
const (
	MouseBtn1 Keycode = 0xD1 + iota
	MouseBtn2
	MouseBtn3
)

// Modifier keys.
const (
	LCtrl Keycode = 0xE0 + iota
	LShift
	LAlt
	LGUI
	RCtrl
	RShift
	RAlt
	RGUI
)

// Modifier wrapper bits.
const (
	ModLCtl   Keycode = 0x0100
	ModLSft   Keycode = 0x0200
	ModLAlt   Keycode = 0x0400
	ModLGui   Keycode = 0x0800
	ModRight  Keycode = 0x1000
	modsMask  Keycode = 0x1F00
	modsMax   Keycode = 0x1FFF
	basicMask Keycode = 0x00FF
)

// Ranges.
const (
	LayerTapMin  Keycode = 0x4000
	LayerTapMax  Keycode = 0x4FFF
	TapDanceMin  Keycode = 0x5700
	TapDanceMax  Keycode = 0x57FF
	QuantumMin   Keycode = 0x7C00
	SafeRange    Keycode = 0x7E40
	UserRangeMax Keycode = 0x7FFF
)

// Quantum keycodes.
const (
	Boot        Keycode = 0x7C00
	ClearEEPROM Keycode = 0x7C03

	DynMacroRecord1 Keycode = 0x7C53
	DynMacroRecord2 Keycode = 0x7C54
	DynMacroPlay1   Keycode = 0x7C55
	DynMacroPlay2   Keycode = 0x7C56
	DynMacroStop    Keycode = 0x7C57
)

// Ctl wraps kc with left control.
func Ctl(kc Keycode) Keycode { return kc | ModLCtl }

// Sft wraps kc with left shift.
func Sft(kc Keycode) Keycode { return kc | ModLSft }

// Alt wraps kc with left alt.
func Alt(kc Keycode) Keycode { return kc | ModLAlt }

// Gui wraps kc with left GUI.
func Gui(kc Keycode) Keycode { return kc | ModLGui }

// SftGui wraps kc with left shift and left GUI.
func SftGui(kc Keycode) Keycode { return kc | ModLSft | ModLGui }

// TD returns the tap-dance keycode for index i.
func TD(i uint8) Keycode { return TapDanceMin | Keycode(i) }

// LT returns a layer-tap keycode: hold for layer, tap for kc.
func LT(layer uint8, kc Keycode) Keycode {
	return LayerTapMin | Keycode(layer&0x0F)<<8 | kc&basicMask
}

// IsBasic reports whether kc is a plain HID usage, modifier or consumer key.
func (kc Keycode) IsBasic() bool { return kc <= basicMask }

// IsModified reports whether kc carries modifier wrapper bits.
func (kc Keycode) IsModified() bool { return kc > basicMask && kc <= modsMax }

// IsModifier reports whether kc is one of the eight modifier keys.
func (kc Keycode) IsModifier() bool { return kc >= LCtrl && kc <= RGUI }

// IsConsumer reports whether kc is a system or consumer key.
func (kc Keycode) IsConsumer() bool { return kc >= AudioMute && kc <= WWWHome }

// IsMouseButton reports whether kc is a mouse button.
func (kc Keycode) IsMouseButton() bool { return kc >= MouseBtn1 && kc <= MouseBtn3 }

// IsTapDance reports whether kc is in the tap-dance range.
func (kc Keycode) IsTapDance() bool { return kc >= TapDanceMin && kc <= TapDanceMax }

// IsLayerTap reports whether kc is in the layer-tap range.
func (kc Keycode) IsLayerTap() bool { return kc >= LayerTapMin && kc <= LayerTapMax }

// IsUser reports whether kc is at or above SafeRange.
func (kc Keycode) IsUser() bool { return kc >= SafeRange && kc <= UserRangeMax }

// IsAlphanumeric reports whether kc types a letter or digit.
func (kc Keycode) IsAlphanumeric() bool {
	b := kc.Basic()
	return (kc.IsBasic() || kc.IsModified()) && b >= A && b <= N0
}

// Basic returns the low byte of kc.
func (kc Keycode) Basic() Keycode { return kc & basicMask }

// TapDanceIndex returns the tap-dance index of a TD keycode.
func (kc Keycode) TapDanceIndex() uint8 { return uint8(kc - TapDanceMin) }

// LayerTapLayer returns the layer of an LT keycode.
func (kc Keycode) LayerTapLayer() uint8 { return uint8(kc>>8) & 0x0F }

// ModBits returns the HID modifier byte implied by kc's wrapper bits, or by
// kc itself when it is a modifier key.
func (kc Keycode) ModBits() uint8 {
	if kc.IsModifier() {
		return 1 << (kc - LCtrl)
	}
	if !kc.IsModified() {
		return 0
	}
	m := uint8(kc&modsMask>>8) & 0x0F
	if kc&ModRight != 0 {
		return m << 4
	}
	return m
}
