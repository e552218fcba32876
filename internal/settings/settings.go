// Package settings holds the user settings that survive a power cycle and
// packs them into the single 32-bit word kept in persistent storage.
package settings

// Defaults.
const (
	DefaultBrightness = 100
	DefaultDelayBase  = 200
	DefaultDelayCtrl  = 150
	DefaultDelayBksp  = 175
)

// Bounds and steps of the adjustable values. Every bound is a multiple of
// its step so values survive packing unchanged.
const (
	BrightnessMin  = 0
	BrightnessMax  = 250
	BrightnessStep = 10

	DelayBaseMin = 100
	DelayMin     = 10
	DelayMax     = 320
	DelayStep    = 5
)

// Bit layout of the packed word, least significant field first.
const (
	sceneBits      = 4
	brightnessBits = 6
	delayBits      = 7

	sceneShift      = 0
	brightnessShift = sceneShift + sceneBits
	baseShift       = brightnessShift + brightnessBits
	ctrlShift       = baseShift + delayBits
	bkspShift       = ctrlShift + delayBits
	infoShift       = bkspShift + delayBits
)

// Values are the live user settings.
type Values struct {
	// Scene is the selected animation.
	Scene uint8
	// Brightness is the display contrast, 0-250 in steps of 10.
	Brightness uint16
	// ShowInfo selects the status text instead of an animation.
	ShowInfo bool
	// DelayBase is the default tapping term in milliseconds.
	DelayBase uint16
	// DelayCtrl is the tapping term of the control dances.
	DelayCtrl uint16
	// DelayBksp is the tapping term of the backspace dance.
	DelayBksp uint16
}

// Defaults returns the factory settings.
func Defaults() Values {
	return Values{
		Scene:      0,
		Brightness: DefaultBrightness,
		ShowInfo:   true,
		DelayBase:  DefaultDelayBase,
		DelayCtrl:  DefaultDelayCtrl,
		DelayBksp:  DefaultDelayBksp,
	}
}

// Clamp forces every field into its documented range.
func (v *Values) Clamp() {
	v.Scene &= 1<<sceneBits - 1
	v.Brightness = clamp(v.Brightness, BrightnessMin, BrightnessMax)
	v.DelayBase = clamp(v.DelayBase, DelayBaseMin, DelayMax)
	v.DelayCtrl = clamp(v.DelayCtrl, DelayMin, DelayMax)
	v.DelayBksp = clamp(v.DelayBksp, DelayMin, DelayMax)
}

func field(w uint32, shift, bits uint) uint32 {
	return w >> shift & (1<<bits - 1)
}

// Pack encodes v. Fields are stored divided by their step.
func Pack(v Values) uint32 {
	var w uint32
	w |= uint32(v.Scene) & (1<<sceneBits - 1) << sceneShift
	w |= uint32(v.Brightness/BrightnessStep) & (1<<brightnessBits - 1) << brightnessShift
	w |= uint32(v.DelayBase/DelayStep) & (1<<delayBits - 1) << baseShift
	w |= uint32(v.DelayCtrl/DelayStep) & (1<<delayBits - 1) << ctrlShift
	w |= uint32(v.DelayBksp/DelayStep) & (1<<delayBits - 1) << bkspShift
	if v.ShowInfo {
		w |= 1 << infoShift
	}
	return w
}

// Unpack decodes a packed word.
func Unpack(w uint32) Values {
	return Values{
		Scene:      uint8(field(w, sceneShift, sceneBits)),
		Brightness: uint16(field(w, brightnessShift, brightnessBits)) * BrightnessStep,
		DelayBase:  uint16(field(w, baseShift, delayBits)) * DelayStep,
		DelayCtrl:  uint16(field(w, ctrlShift, delayBits)) * DelayStep,
		DelayBksp:  uint16(field(w, bkspShift, delayBits)) * DelayStep,
		ShowInfo:   field(w, infoShift, 1) == 1,
	}
}

// AdjustBounded moves value by delta without leaving [lo, hi]. Delta is
// compared against the distance to the limit, so no sum can overflow.
func AdjustBounded(value uint16, delta int, lo, hi uint16) uint16 {
	v := int(value)
	if delta > 0 {
		if delta <= int(hi)-v {
			v += delta
		} else {
			v = int(hi)
		}
	} else {
		if delta >= int(lo)-v {
			v += delta
		} else {
			v = int(lo)
		}
	}
	return clamp(uint16(v), lo, hi)
}

func clamp(v, lo, hi uint16) uint16 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
