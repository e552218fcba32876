package keycode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKeycode is returned by Parse for names it cannot resolve.
var ErrUnknownKeycode = errors.New("unknown keycode")

// builtin lists the canonical name of every predefined keycode.
var builtin = []struct {
	name string
	kc   Keycode
}{
	{"KC_A", A},
	{"KC_B", B},
	{"KC_C", C},
	{"KC_D", D},
	{"KC_E", E},
	{"KC_F", F},
	{"KC_G", G},
	{"KC_H", H},
	{"KC_I", I},
	{"KC_J", J},
	{"KC_K", K},
	{"KC_L", L},
	{"KC_M", M},
	{"KC_N", N},
	{"KC_O", O},
	{"KC_P", P},
	{"KC_Q", Q},
	{"KC_R", R},
	{"KC_S", S},
	{"KC_T", T},
	{"KC_U", U},
	{"KC_V", V},
	{"KC_W", W},
	{"KC_X", X},
	{"KC_Y", Y},
	{"KC_Z", Z},
	{"KC_1", N1},
	{"KC_2", N2},
	{"KC_3", N3},
	{"KC_4", N4},
	{"KC_5", N5},
	{"KC_6", N6},
	{"KC_7", N7},
	{"KC_8", N8},
	{"KC_9", N9},
	{"KC_0", N0},
	{"KC_ENT", Enter},
	{"KC_ESC", Escape},
	{"KC_BSPC", Backspace},
	{"KC_TAB", Tab},
	{"KC_SPC", Space},
	{"KC_MINS", Minus},
	{"KC_EQL", Equal},
	{"KC_LBRC", LeftBracket},
	{"KC_RBRC", RightBracket},
	{"KC_BSLS", Backslash},
	{"KC_NUHS", NonUSHash},
	{"KC_SCLN", Semicolon},
	{"KC_QUOT", Quote},
	{"KC_GRV", Grave},
	{"KC_COMM", Comma},
	{"KC_DOT", Dot},
	{"KC_SLSH", Slash},
	{"KC_CAPS", CapsLock},
	{"KC_F1", F1},
	{"KC_F2", F2},
	{"KC_F3", F3},
	{"KC_F4", F4},
	{"KC_F5", F5},
	{"KC_F6", F6},
	{"KC_F7", F7},
	{"KC_F8", F8},
	{"KC_F9", F9},
	{"KC_F10", F10},
	{"KC_F11", F11},
	{"KC_F12", F12},
	{"KC_F13", F13},
	{"KC_F14", F14},
	{"KC_F15", F15},
	{"KC_F16", F16},
	{"KC_F17", F17},
	{"KC_F18", F18},
	{"KC_F19", F19},
	{"KC_F20", F20},
	{"KC_F21", F21},
	{"KC_F22", F22},
	{"KC_F23", F23},
	{"KC_F24", F24},
	{"KC_PSCR", PrintScreen},
	{"KC_SCRL", ScrollLock},
	{"KC_PAUS", Pause},
	{"KC_INS", Insert},
	{"KC_HOME", Home},
	{"KC_PGUP", PageUp},
	{"KC_DEL", Delete},
	{"KC_END", End},
	{"KC_PGDN", PageDown},
	{"KC_RGHT", Right},
	{"KC_LEFT", Left},
	{"KC_DOWN", Down},
	{"KC_UP", Up},
	{"KC_NUM", NumLock},
	{"KC_PSLS", KPSlash},
	{"KC_PAST", KPAsterisk},
	{"KC_PMNS", KPMinus},
	{"KC_PPLS", KPPlus},
	{"KC_PENT", KPEnter},
	{"KC_P0", KP0},
	{"KC_P1", KP1},
	{"KC_P2", KP2},
	{"KC_P3", KP3},
	{"KC_P4", KP4},
	{"KC_P5", KP5},
	{"KC_P6", KP6},
	{"KC_P7", KP7},
	{"KC_P8", KP8},
	{"KC_P9", KP9},
	{"KC_PDOT", KPDot},
	{"KC_MUTE", AudioMute},
	{"KC_VOLU", AudioVolUp},
	{"KC_VOLD", AudioVolDown},
	{"KC_MNXT", MediaNext},
	{"KC_MPRV", MediaPrev},
	{"KC_MSTP", MediaStop},
	{"KC_MPLY", MediaPlayPause},
	{"KC_MSEL", MediaSelect},
	{"KC_EJCT", MediaEject},
	{"KC_MAIL", Mail},
	{"KC_CALC", Calculator},
	{"KC_MYCM", MyComputer},
	{"KC_WSCH", WWWSearch},
	{"KC_WHOM", WWWHome},
	{"KC_BTN1", MouseBtn1},
	{"KC_BTN2", MouseBtn2},
	{"KC_BTN3", MouseBtn3},
	{"KC_LCTL", LCtrl},
	{"KC_LSFT", LShift},
	{"KC_LALT", LAlt},
	{"KC_LGUI", LGUI},
	{"KC_RCTL", RCtrl},
	{"KC_RSFT", RShift},
	{"KC_RALT", RAlt},
	{"KC_RGUI", RGUI},
	{"KC_NO", No},
	{"KC_TRNS", Transparent},
	{"QK_BOOT", Boot},
	{"EE_CLR", ClearEEPROM},
	{"DM_REC1", DynMacroRecord1},
	{"DM_REC2", DynMacroRecord2},
	{"DM_PLY1", DynMacroPlay1},
	{"DM_PLY2", DynMacroPlay2},
	{"DM_RSTP", DynMacroStop},
}

// wrappers maps modifier wrapper syntax to its bits.
var wrappers = []struct {
	name string
	bits Keycode
}{
	{"C", ModLCtl},
	{"S", ModLSft},
	{"A", ModLAlt},
	{"G", ModLGui},
	{"LSG", ModLSft | ModLGui},
	{"RCTL", ModRight | ModLCtl},
	{"RSFT", ModRight | ModLSft},
	{"RALT", ModRight | ModLAlt},
}

// Table resolves keycode names in both directions. It starts with the
// builtin names; keymaps add their own with Define.
type Table struct {
	byName map[string]Keycode
	byCode map[Keycode]string
}

// NewTable returns a table holding the builtin names.
func NewTable() *Table {
	t := &Table{
		byName: make(map[string]Keycode, len(builtin)),
		byCode: make(map[Keycode]string, len(builtin)),
	}
	for _, b := range builtin {
		t.Define(b.name, b.kc)
	}
	t.byName["_______"] = Transparent
	t.byName["XXXXXXX"] = No
	return t
}

// Define registers name for kc. The first name defined for a code is the one
// Name returns.
func (t *Table) Define(name string, kc Keycode) {
	t.byName[name] = kc
	if _, ok := t.byCode[kc]; !ok {
		t.byCode[kc] = name
	}
}

// Parse resolves a keycode name. Besides plain names it accepts modifier
// wrappers such as C(KC_TAB) or LSG(KC_S), TD(n), LT(layer, KC_X) and
// hexadecimal literals.
func (t *Table) Parse(s string) (Keycode, error) {
	s = strings.TrimSpace(s)
	if kc, ok := t.byName[s]; ok {
		return kc, nil
	}

	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		fn, arg := s[:open], s[open+1:len(s)-1]
		switch fn {
		case "TD":
			n, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 8)
			if err != nil {
				return No, fmt.Errorf("%w: %s", ErrUnknownKeycode, s)
			}
			return TD(uint8(n)), nil
		case "LT":
			layer, key, ok := strings.Cut(arg, ",")
			if !ok {
				return No, fmt.Errorf("%w: %s", ErrUnknownKeycode, s)
			}
			l, err := strconv.ParseUint(strings.TrimSpace(layer), 10, 4)
			if err != nil {
				return No, fmt.Errorf("%w: %s", ErrUnknownKeycode, s)
			}
			kc, err := t.Parse(key)
			if err != nil {
				return No, err
			}
			return LT(uint8(l), kc), nil
		}
		for _, w := range wrappers {
			if w.name == fn {
				inner, err := t.Parse(arg)
				if err != nil {
					return No, err
				}
				return inner | w.bits, nil
			}
		}
	}

	if strings.HasPrefix(s, "0x") {
		n, err := strconv.ParseUint(s[2:], 16, 16)
		if err == nil {
			return Keycode(n), nil
		}
	}
	return No, fmt.Errorf("%w: %s", ErrUnknownKeycode, s)
}

// Name returns a readable name for kc.
func (t *Table) Name(kc Keycode) string {
	if n, ok := t.byCode[kc]; ok {
		return n
	}
	switch {
	case kc.IsTapDance():
		return fmt.Sprintf("TD(%d)", kc.TapDanceIndex())
	case kc.IsLayerTap():
		return fmt.Sprintf("LT(%d, %s)", kc.LayerTapLayer(), t.Name(kc.Basic()))
	case kc.IsModified():
		inner := t.Name(kc.Basic())
		bits := kc &^ basicMask
		for i := len(wrappers) - 1; i >= 0; i-- {
			w := wrappers[i]
			if bits == w.bits {
				return w.name + "(" + inner + ")"
			}
		}
		for _, w := range wrappers[:4] {
			if bits&w.bits != 0 && bits&ModRight == 0 {
				inner = w.name + "(" + inner + ")"
			}
		}
		return inner
	}
	return fmt.Sprintf("0x%04X", uint16(kc))
}
