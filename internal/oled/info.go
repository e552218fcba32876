package oled

import (
	"github.com/dshills/odin75/internal/hid"
	"github.com/dshills/odin75/internal/layer"
	"github.com/dshills/odin75/internal/macro"
	"github.com/dshills/odin75/internal/settings"
)

// layerLineWrap is the length at which the layer line wraps by itself.
const layerLineWrap = 22

// Status is the keyboard state shown on the status screen.
type Status struct {
	Layers   layer.State
	Macros   [2]macro.SlotStatus
	LEDs     hid.LEDState
	CapsWord bool
}

// StatusSource supplies the status screen contents each frame.
type StatusSource interface {
	OLEDStatus() Status
}

// formatInfo writes the status screen into the text buffer.
func (t *Task) formatInfo() {
	var st Status
	if t.status != nil {
		st = t.status.OLEDStatus()
	}
	b := &t.text

	b.Printf("\n Layer: ")
	highest := 0
	for i, info := range t.layers {
		if !st.Layers.Is(uint8(i)) {
			continue
		}
		if info.Prefix {
			b.Appendf("%s\x07", info.Name)
		} else {
			highest = i
		}
	}
	var name string
	if highest < len(t.layers) {
		name = t.layers[highest].Name
	}
	if b.Appendf("%s", name) < layerLineWrap {
		b.Appendf("\n")
	}

	if len(t.layers) > 0 && st.Layers.Is(t.configLayer) {
		v := t.values
		b.Appendf(" Base Delay: %dms\n", v.DelayBase)
		b.Appendf(" Ctrl Delay: %dms\n", v.DelayCtrl)
		b.Appendf(" Bksp Delay: %dms\n", v.DelayBksp)
		b.Appendf("\n Brightness: %d/%d", v.Brightness, settings.BrightnessMax)
		return
	}

	for i, slot := range st.Macros {
		if slot.State == macro.Set {
			b.Appendf(" Macro%d:%s %d\n", i+1, slot.State, slot.Size)
		} else {
			b.Appendf(" Macro%d:%s\n", i+1, slot.State)
		}
	}

	if st.CapsWord {
		b.Appendf(" State: CAPS_WORD\n")
	} else {
		b.Appendf(" State: %s%s%s\n",
			flag(st.LEDs.CapsLock, "CAP "),
			flag(st.LEDs.NumLock, "NUM "),
			flag(st.LEDs.ScrollLock, "SCR "))
	}

	b.Appendf("\n Speed: %dwpm", t.ema.WPM())
}

func flag(on bool, s string) string {
	if on {
		return s
	}
	return ""
}
