package keyboard

import (
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/layer"
	"github.com/dshills/odin75/internal/macro"
	ss "github.com/dshills/odin75/internal/sendstring"
	td "github.com/dshills/odin75/internal/tapdance"
)

// Layers.
const (
	LayerBase uint8 = iota
	LayerNumpad
	LayerFunc
	LayerMacro
	LayerConfig
	LayerMouse
	LayerCount
)

// LayerInfo names the layers for the status screen.
var LayerInfo = []layer.Info{
	LayerBase:   {Name: "Base"},
	LayerNumpad: {Name: "Num", Prefix: true},
	LayerFunc:   {Name: "Func"},
	LayerMacro:  {Name: "Macro"},
	LayerConfig: {Name: "Confg"},
	LayerMouse:  {Name: "Mou", Prefix: true},
}

// Tap dance indexes, used as TD(i).
const (
	BkspBsl uint8 = iota
	LAltPrev
	RAltNext
	EscFuck
	CapsIME
	CtrlOCR
	CtrlRight
	GUISnip
	FnLayerHold
	F13Layer
	DanceHome
	DanceEnd
	DancePgUp
	DancePgDn
	DanceCount
)

// Custom keycodes.
const (
	LEDBrightUp kc.Keycode = kc.SafeRange + iota
	LEDBrightDown
	LEDAnimation
	LEDInfo
	BaseUp
	BaseDown
	CtrlUp
	CtrlDown
	BkspUp
	BkspDown
	EEPROMSave
	EEPROMLoad
	MouseJiggle

	macroRangeStart
	MacroAuthor
	MacroTwitch
	MacroPDFSave
	MacroPDF1Page
	MacroPDF2Page
	MacroPDFCover
	macroRangeEnd
)

// TabLayer is tab when tapped and the macro layer when held.
var TabLayer = kc.LT(LayerMacro, kc.Tab)

// Step sizes of the adjust keys.
const (
	brightnessDelta = 10
	delayDelta      = 5
)

// NewTapDances returns fresh bindings for every tap dance. CtrlOCR is
// reserved and has no binding.
func NewTapDances() []td.Action {
	actions := make([]td.Action, DanceCount)
	actions[BkspBsl] = td.NewTapHold(kc.Ctl(kc.Backspace), kc.Backslash)
	actions[LAltPrev] = td.NewTapHold(kc.Ctl(kc.PageUp), kc.LAlt)
	actions[RAltNext] = td.NewTapHold(kc.Ctl(kc.PageDown), kc.RAlt)

	actions[EscFuck] = td.NewQuad(kc.Escape, td.Key(kc.Escape), td.Key(kc.Ctl(kc.Sft(kc.Escape))), td.Key(kc.Ctl(kc.Alt(kc.Delete))))
	actions[CapsIME] = td.NewQuad(kc.Ctl(kc.Grave), td.LayerHold(LayerFunc), td.Key(kc.CapsLock), td.LayerHold(LayerConfig))
	actions[CtrlRight] = td.NewTri(kc.Ctl(kc.L), td.Key(kc.RCtrl), td.Key(kc.SftGui(kc.C)))
	actions[GUISnip] = td.NewQuad(kc.LGUI, td.Key(kc.LGUI), td.Key(kc.SftGui(kc.S)), td.Key(kc.SftGui(kc.T)))
	actions[FnLayerHold] = td.NewQuad(kc.F11, td.LayerHold(LayerFunc), td.Key(kc.MyComputer), td.LayerHold(LayerMacro))
	actions[F13Layer] = td.NewQuadFull(td.LayerToggle(LayerMouse), td.LayerHold(LayerMouse), td.LayerToggle(LayerNumpad), td.LayerHold(LayerNumpad))

	actions[DanceHome] = td.NewDouble(kc.Home, kc.Ctl(kc.Sft(kc.T)))
	actions[DanceEnd] = td.NewDouble(kc.End, kc.Ctl(kc.W))
	actions[DancePgUp] = td.NewDouble(kc.PageUp, kc.Ctl(kc.Equal))
	actions[DancePgDn] = td.NewDouble(kc.PageDown, kc.Ctl(kc.Minus))
	return actions
}

// Macros are the compiled-in send-string macros.
var Macros = []macro.Binding{
	{Keycode: MacroAuthor, Info: macro.Info{Category: "Print", Label: "Author Name",
		Payload: "Keymap Author: Ryan Turner\n"}},
	{Keycode: MacroTwitch, Info: macro.Info{Category: "Web", Label: "Twitch.tv",
		Payload: ss.Start("firefox") + ss.LCtl("l") + "twitch.tv/directory/category/starcraft" + ss.LCtl("\n")}},
	{Keycode: MacroPDFSave, Info: macro.Info{Category: "Adobe PDF", Label: "Save to Desktop",
		Payload: ss.LCtl(ss.LSft("s")) + ss.Delay(300) + ss.Repeat(ss.Tap(kc.Tab), 5) +
			ss.Tap(kc.Enter) + ss.Delay(300) + ss.LCtl("l") + "Desktop" + ss.Repeat(ss.Tap(kc.Enter), 3)}},
	{Keycode: MacroPDF1Page, Info: macro.Info{Category: "Adobe PDF", Label: "1-Page View", Payload: ss.LAlt("vps")}},
	{Keycode: MacroPDF2Page, Info: macro.Info{Category: "Adobe PDF", Label: "2-Page View", Payload: ss.LAlt("vpp")}},
	{Keycode: MacroPDFCover, Info: macro.Info{Category: "Adobe PDF", Label: "Toggle Cover", Payload: ss.LAlt("vpv")}},
}

// Overlays maps base layer keycodes to their replacement on each upper
// layer. Keys missing from a layer fall through to the layer below.
var Overlays = [LayerCount]map[kc.Keycode]kc.Keycode{
	LayerNumpad: {
		kc.N7: kc.KP7, kc.N8: kc.KP8, kc.N9: kc.KP9,
		kc.U: kc.KP4, kc.I: kc.KP5, kc.O: kc.KP6,
		kc.J: kc.KP1, kc.K: kc.KP2, kc.L: kc.KP3,
		kc.M: kc.KP0, kc.Dot: kc.KPDot, kc.Slash: kc.KPEnter,
	},
	LayerFunc: {
		kc.TD(EscFuck): kc.Escape,
		kc.F1: kc.Ctl(kc.F1), kc.F2: kc.Ctl(kc.F2), kc.F3: kc.Ctl(kc.F3), kc.F4: kc.Ctl(kc.F4),
		kc.F5: kc.Ctl(kc.F5), kc.F6: kc.Ctl(kc.F6), kc.F7: kc.Ctl(kc.F7), kc.F8: kc.Ctl(kc.F8),
		kc.F9: kc.Ctl(kc.F9), kc.F10: kc.Ctl(kc.F10), kc.F11: kc.Ctl(kc.F11), kc.F12: kc.Ctl(kc.F12),
		kc.Insert: kc.DynMacroPlay1, kc.Delete: kc.DynMacroPlay2,
		kc.N1: kc.F1, kc.N2: kc.F2, kc.N3: kc.F3, kc.N4: kc.F4, kc.N5: kc.F5, kc.N6: kc.F6,
		kc.N7: kc.F7, kc.N8: kc.F8, kc.N9: kc.F9, kc.N0: kc.F10, kc.Minus: kc.F11, kc.Equal: kc.F12,
		kc.TD(DanceHome): kc.Home, kc.TD(DancePgUp): kc.PageUp,
		kc.W: kc.Up, kc.LeftBracket: kc.NumLock, kc.RightBracket: kc.ScrollLock, kc.TD(BkspBsl): kc.Backslash,
		kc.TD(DanceEnd): kc.End, kc.TD(DancePgDn): kc.PageDown,
		kc.A: kc.Left, kc.S: kc.Down, kc.D: kc.Right, kc.Semicolon: kc.PrintScreen, kc.Quote: kc.Pause,
		kc.Z: kc.AudioMute, kc.X: kc.AudioVolDown, kc.C: kc.AudioVolUp, kc.Up: kc.MediaPlayPause,
		kc.TD(GUISnip): kc.LGUI, kc.TD(LAltPrev): kc.Ctl(kc.Sft(kc.Tab)),
		kc.TD(RAltNext): kc.Ctl(kc.Tab), kc.TD(CtrlRight): kc.RCtrl,
		kc.Left: kc.MediaPrev, kc.Down: kc.MediaStop, kc.Right: kc.MediaNext,
	},
	LayerMacro: {
		kc.F1: kc.Ctl(kc.F13), kc.F2: kc.Ctl(kc.F14), kc.F3: kc.Ctl(kc.F15), kc.F4: kc.Ctl(kc.F16),
		kc.F5: kc.Ctl(kc.F17), kc.F6: kc.Ctl(kc.F18), kc.F7: kc.Ctl(kc.F19), kc.F8: kc.Ctl(kc.F20),
		kc.F9: kc.Ctl(kc.F21), kc.F10: kc.Ctl(kc.F22), kc.F11: kc.Ctl(kc.F23), kc.F12: kc.Ctl(kc.F24),
		kc.TD(F13Layer): kc.DynMacroStop, kc.Insert: kc.DynMacroRecord1, kc.Delete: kc.DynMacroRecord2,
		kc.N1: kc.F13, kc.N2: kc.F14, kc.N3: kc.F15, kc.N4: kc.F16, kc.N5: kc.F17, kc.N6: kc.F18,
		kc.N7: kc.F19, kc.N8: kc.F20, kc.N9: kc.F21, kc.N0: kc.F22, kc.Minus: kc.F23, kc.Equal: kc.F24,
		kc.TD(DanceHome): LEDAnimation, kc.TD(DancePgUp): LEDBrightUp,
		kc.R: MacroTwitch, kc.TD(DanceEnd): LEDInfo, kc.TD(DancePgDn): LEDBrightDown,
		kc.A: MacroPDF1Page, kc.S: MacroPDF2Page, kc.D: MacroPDFCover, kc.F: MacroPDFSave,
		kc.Enter: MacroAuthor, kc.RShift: MouseJiggle,
		kc.TD(GUISnip): kc.LGUI, kc.TD(LAltPrev): kc.LAlt,
		kc.TD(RAltNext): kc.RAlt, kc.TD(CtrlRight): kc.RCtrl,
	},
	LayerConfig: {
		kc.Backspace: kc.Boot, kc.TD(DanceHome): LEDAnimation, kc.TD(DancePgUp): LEDBrightUp,
		kc.Q: BaseUp, kc.W: CtrlUp, kc.E: BkspUp, kc.TD(BkspBsl): kc.ClearEEPROM,
		kc.TD(DanceEnd): LEDInfo, kc.TD(DancePgDn): LEDBrightDown,
		kc.A: BaseDown, kc.S: CtrlDown, kc.D: BkspDown, kc.Enter: EEPROMSave,
		kc.RShift: EEPROMLoad,
	},
	LayerMouse: {
		kc.Enter: kc.Space, kc.RShift: kc.MouseBtn3, kc.Space: kc.Enter,
		kc.TD(RAltNext): kc.MouseBtn1, kc.TD(CtrlRight): kc.MouseBtn2,
	},
}

// BaseLayer lists the base layer keycodes, row by row.
var BaseLayer = [][]kc.Keycode{
	{kc.TD(EscFuck), kc.F1, kc.F2, kc.F3, kc.F4, kc.F5, kc.F6, kc.F7, kc.F8, kc.F9, kc.F10, kc.F11, kc.F12, kc.TD(F13Layer), kc.Insert, kc.Delete},
	{kc.Grave, kc.N1, kc.N2, kc.N3, kc.N4, kc.N5, kc.N6, kc.N7, kc.N8, kc.N9, kc.N0, kc.Minus, kc.Equal, kc.Backspace, kc.TD(DanceHome), kc.TD(DancePgUp)},
	{TabLayer, kc.Q, kc.W, kc.E, kc.R, kc.T, kc.Y, kc.U, kc.I, kc.O, kc.P, kc.LeftBracket, kc.RightBracket, kc.TD(BkspBsl), kc.TD(DanceEnd), kc.TD(DancePgDn)},
	{kc.TD(CapsIME), kc.A, kc.S, kc.D, kc.F, kc.G, kc.H, kc.J, kc.K, kc.L, kc.Semicolon, kc.Quote, kc.Enter},
	{kc.LShift, kc.Z, kc.X, kc.C, kc.V, kc.B, kc.N, kc.M, kc.Comma, kc.Dot, kc.Slash, kc.RShift, kc.TD(FnLayerHold), kc.Up},
	{kc.LCtrl, kc.TD(GUISnip), kc.TD(LAltPrev), kc.Space, kc.TD(RAltNext), kc.TD(CtrlRight), kc.Left, kc.Down, kc.Right},
}

// Names returns a keycode table that also knows the keymap's own names.
func Names() *kc.Table {
	t := kc.NewTable()
	for name, code := range map[string]kc.Keycode{
		"LED_BUP": LEDBrightUp, "LED_BDN": LEDBrightDown, "LED_ANI": LEDAnimation, "LED_INF": LEDInfo,
		"BASE_UP": BaseUp, "BASE_DN": BaseDown, "CTRL_UP": CtrlUp, "CTRL_DN": CtrlDown,
		"BKSP_UP": BkspUp, "BKSP_DN": BkspDown, "EROM_SV": EEPROMSave, "EROM_LD": EEPROMLoad,
		"M_JIGGL": MouseJiggle, "M_AUTHR": MacroAuthor, "M_TWTCH": MacroTwitch,
		"MPDF_SV": MacroPDFSave, "MPDF_1P": MacroPDF1Page, "MPDF_2P": MacroPDF2Page, "MPDF_CT": MacroPDFCover,
		"BKSP_BSL": kc.TD(BkspBsl), "LALT_PRV": kc.TD(LAltPrev), "RALT_NXT": kc.TD(RAltNext),
		"ESC_FUCK": kc.TD(EscFuck), "CAPS_IME": kc.TD(CapsIME), "CTRL_OCR": kc.TD(CtrlOCR),
		"CTRL_RGT": kc.TD(CtrlRight), "GUI_SNIP": kc.TD(GUISnip), "TD_FN_LH": kc.TD(FnLayerHold),
		"TD_F13_L": kc.TD(F13Layer), "TD_HOME": kc.TD(DanceHome), "TD_END": kc.TD(DanceEnd),
		"TD_PGUP": kc.TD(DancePgUp), "TD_PGDN": kc.TD(DancePgDn), "TD_TAB_LAYER": TabLayer,
	} {
		t.Define(name, code)
	}
	return t
}
