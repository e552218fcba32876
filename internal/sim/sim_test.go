package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/odin75/internal/config"
	"github.com/dshills/odin75/internal/hid"
	"github.com/dshills/odin75/internal/keyboard"
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/settings"
)

func newHarness(t *testing.T) (*Harness, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	h, err := NewHarness(&settings.MemoryStore{}, &out, nil)
	require.NoError(t, err)
	return h, &out
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModAlt), "Alt+3"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "F5"},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "Backspace"},
		{tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), "Ctrl+L"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyName(tt.ev))
	}
}

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()
	assert.Equal(t, kc.A, b["a"])
	assert.Equal(t, kc.A, b["A"])
	assert.Equal(t, kc.N1, b["!"])
	assert.Equal(t, kc.N0, b["0"])
	assert.Equal(t, kc.Slash, b["?"])
	assert.Equal(t, keyboard.TabLayer, b["Tab"])
	assert.Equal(t, kc.F12, b["F12"])
	assert.Equal(t, kc.TD(keyboard.DancePgDn), b["PgDn"])
}

func TestHostViewText(t *testing.T) {
	var h hostView
	h.SendKeyboard(hid.Report{Keys: [6]uint8{uint8(kc.H)}})
	h.SendKeyboard(hid.Report{})
	h.SendKeyboard(hid.Report{Mods: hid.ModLShift, Keys: [6]uint8{uint8(kc.N1)}})
	h.SendKeyboard(hid.Report{})
	h.SendKeyboard(hid.Report{Mods: hid.ModLCtrl, Keys: [6]uint8{uint8(kc.C)}})
	h.SendKeyboard(hid.Report{Keys: [6]uint8{uint8(kc.Enter)}})
	assert.Equal(t, "h!↵", h.Typed())

	h.SendMouse(hid.MouseReport{X: 3, Y: -2})
	h.SendMouse(hid.MouseReport{X: 1, Buttons: 1})
	assert.Equal(t, "(4,-2) buttons=001 consumer=0000", h.pointer())
}

func TestHarnessScript(t *testing.T) {
	h, out := newHarness(t)
	script := `
# boot greeting, then the status screen
wait 1600
expect mode info
expect text " Layer: Base"

tap KC_H KC_I
expect typed KC_H KC_I
reset

# hold tab for the macro layer
press TD_TAB_LAYER
tap KC_A
release TD_TAB_LAYER
wait 40
expect text "1-Page View"
expect mode notice
wait 1000
expect typed KC_V KC_P KC_S

# config layer
layer Confg on
tap KC_Q KC_Q KC_S
expect setting base 210
expect setting ctrl 145
layer Confg off

tap TD_F13_L
wait 250
expect layer Mou on
print
`
	require.NoError(t, h.Run(strings.NewReader(script), "basic.odin"))
	assert.Contains(t, out.String(), "layers=Mou")
}

func TestHarnessDynamicMacro(t *testing.T) {
	h, _ := newHarness(t)
	script := `
expect recording off
layer Macro on
tap KC_INS
layer Macro off
expect recording 0
type ab
expect recording 4
layer Macro on
tap TD_F13_L
layer Macro off
expect recording off
expect macro 1 Set 1
expect macro 2 Empty

reset
layer Func on
tap KC_INS
layer Func off
wait 200
expect typed KC_A KC_B
`
	require.NoError(t, h.Run(strings.NewReader(script), "dm.odin"))
}

func TestHarnessCapsWordAndLEDs(t *testing.T) {
	h, _ := newHarness(t)
	script := `
wait 1600
press KC_LSFT KC_RSFT
release KC_LSFT KC_RSFT
expect capsword on
wait 40
expect text "State: CAPS_WORD"
tap KC_SPC
expect capsword off
leds caps num
wait 40
expect text "State: CAP NUM"
wpm 60
wait 2000
expect text "Speed: 5"
`
	require.NoError(t, h.Run(strings.NewReader(script), "caps.odin"))
}

func TestHarnessErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   int
		target error
	}{
		{"unknown command", "wait 1\nfly away\n", 2, ErrUnknownCommand},
		{"bad count", "wait soon\n", 1, ErrUsage},
		{"unknown key", "tap KC_NOPE\n", 1, kc.ErrUnknownKeycode},
		{"failed expectation", "\n\nexpect layer Func on\n", 3, ErrExpectation},
		{"bad setting", "expect setting volume 3\n", 1, ErrUsage},
		{"recording while idle", "expect recording 2\n", 1, ErrExpectation},
		{"recording usage", "expect recording\n", 1, ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHarness(t)
			err := h.Run(strings.NewReader(tt.script), "bad.odin")
			require.ErrorIs(t, err, tt.target)

			var se *ScriptError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
			assert.Equal(t, "bad.odin", se.Script)
		})
	}
}

func TestSimulatorRun(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	cfg := config.Default()
	cfg.Keys = map[string]string{"Ctrl+B": "KC_B"}

	s, err := New(Options{Config: cfg, Screen: screen})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.HasPrefix(s.Status()[lineState], "mode")
	}, 5*time.Second, 10*time.Millisecond)

	screen.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlB, 0, tcell.ModCtrl)
	require.Eventually(t, func() bool {
		return strings.HasSuffix(s.Status()[lineTyped], "hib")
	}, 5*time.Second, 10*time.Millisecond)

	screen.InjectKey(tcell.KeyRune, '1', tcell.ModAlt)
	require.Eventually(t, func() bool {
		return strings.Contains(s.Status()[lineState], "Num")
	}, 5*time.Second, 10*time.Millisecond)

	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not quit")
	}
}

func TestSimulatorBadBinding(t *testing.T) {
	cfg := config.Default()
	cfg.Keys = map[string]string{"F1": "KC_WHAT"}
	_, err := New(Options{Config: cfg, Screen: tcell.NewSimulationScreen("UTF-8")})
	assert.ErrorIs(t, err, kc.ErrUnknownKeycode)
}
