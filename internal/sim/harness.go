package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/artwork"
	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/hid"
	"github.com/dshills/odin75/internal/keyboard"
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/macro"
	"github.com/dshills/odin75/internal/sendstring"
	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/timer"
)

// Script timing in milliseconds.
const (
	TapHold     = 10
	TypeSpacing = 30
)

// Replay errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad arguments")
	ErrExpectation    = errors.New("expectation failed")
)

// ScriptError locates a failed script line.
type ScriptError struct {
	Script  string
	Line    int
	Command string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.Script, e.Line, e.Command, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Harness drives a keyboard headlessly on a manual clock. Every
// millisecond of script time runs one keyboard task.
type Harness struct {
	KB    *keyboard.Keyboard
	Panel *display.Framebuffer
	HID   *hid.Recorder
	Clock *timer.Manual

	names *kc.Table
	out   io.Writer
}

// NewHarness builds a keyboard over storage. Printed output goes to out.
func NewHarness(storage settings.Storage, out io.Writer, log logrus.FieldLogger) (*Harness, error) {
	h := &Harness{
		Panel: display.NewFramebuffer(),
		HID:   &hid.Recorder{},
		Clock: timer.NewManual(0),
		names: keyboard.Names(),
		out:   out,
	}
	if h.out == nil {
		h.out = io.Discard
	}
	kb, err := keyboard.New(keyboard.Options{
		Sink:     h.Panel,
		Reporter: h.HID,
		Storage:  storage,
		Clock:    h.Clock,
		Assets:   artwork.Procedural(),
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	h.KB = kb
	return h, nil
}

// Advance runs ms milliseconds of keyboard time.
func (h *Harness) Advance(ms int) {
	for i := 0; i < ms; i++ {
		h.Clock.Advance(1)
		h.KB.Task()
	}
}

// Tap presses and releases a base layer key.
func (h *Harness) Tap(code kc.Keycode) {
	h.KB.HandleKey(code, true)
	h.Advance(TapHold)
	h.KB.HandleKey(code, false)
	h.Advance(TapHold)
}

// Run executes a script. Blank lines and # comments are skipped. It stops
// at the first failing line.
func (h *Harness) Run(r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		args, err := shlex.Split(sc.Text())
		if err != nil {
			return &ScriptError{Script: name, Line: line, Command: sc.Text(), Err: err}
		}
		if len(args) == 0 {
			continue
		}
		if err := h.Exec(args); err != nil {
			return &ScriptError{Script: name, Line: line, Command: args[0], Err: err}
		}
	}
	return sc.Err()
}

// Exec runs one command.
func (h *Harness) Exec(args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "tap":
		codes, err := h.keys(rest)
		if err != nil {
			return err
		}
		for _, code := range codes {
			h.Tap(code)
		}
	case "press", "release":
		codes, err := h.keys(rest)
		if err != nil {
			return err
		}
		for _, code := range codes {
			h.KB.HandleKey(code, cmd == "press")
		}
	case "wait":
		n, err := number(rest)
		if err != nil {
			return err
		}
		h.Advance(n)
	case "type":
		return h.typeText(strings.Join(rest, " "))
	case "wpm":
		return h.wpm(rest)
	case "leds":
		return h.leds(rest)
	case "layer":
		return h.layer(rest)
	case "reset":
		h.HID.Reset()
	case "print":
		h.print()
	case "expect":
		if len(rest) == 0 {
			return fmt.Errorf("%w: expect what", ErrUsage)
		}
		return h.expect(rest[0], rest[1:])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return nil
}

func (h *Harness) keys(names []string) ([]kc.Keycode, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrUsage)
	}
	out := make([]kc.Keycode, 0, len(names))
	for _, n := range names {
		code, err := h.names.Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

func number(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want one number", ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a count", ErrUsage, args[0])
	}
	return n, nil
}

// typeText taps the base layer key of every character. Shift is not held,
// so letters come out in whatever case the host applies.
func (h *Harness) typeText(s string) error {
	for i := 0; i < len(s); i++ {
		code, ok := sendstring.ASCII(s[i])
		if !ok {
			return fmt.Errorf("%w: cannot type %q", ErrUsage, s[i])
		}
		h.Tap(code.Basic())
		h.Advance(TypeSpacing - 2*TapHold)
	}
	return nil
}

func (h *Harness) wpm(args []string) error {
	if len(args) == 1 && args[0] == "auto" {
		h.KB.Meter().Override(-1)
		return nil
	}
	n, err := number(args)
	if err != nil {
		return err
	}
	h.KB.Meter().Override(n)
	return nil
}

func (h *Harness) leds(args []string) error {
	var s hid.LEDState
	for _, a := range args {
		switch strings.ToLower(a) {
		case "num":
			s.NumLock = true
		case "caps":
			s.CapsLock = true
		case "scroll":
			s.ScrollLock = true
		case "none":
		default:
			return fmt.Errorf("%w: unknown led %q", ErrUsage, a)
		}
	}
	h.KB.SetLEDs(s)
	return nil
}

func layerIndex(name string) (uint8, error) {
	for i, info := range keyboard.LayerInfo {
		if strings.EqualFold(info.Name, name) {
			return uint8(i), nil
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 || n >= int(keyboard.LayerCount) {
		return 0, fmt.Errorf("%w: unknown layer %q", ErrUsage, name)
	}
	return uint8(n), nil
}

func (h *Harness) layer(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: layer NAME on|off|toggle", ErrUsage)
	}
	n, err := layerIndex(args[0])
	if err != nil {
		return err
	}
	switch args[1] {
	case "on":
		h.KB.LayerOn(n)
	case "off":
		h.KB.LayerOff(n)
	case "toggle":
		h.KB.LayerInvert(n)
	default:
		return fmt.Errorf("%w: layer NAME on|off|toggle", ErrUsage)
	}
	return nil
}

func (h *Harness) print() {
	fmt.Fprintf(h.out, "t=%dms mode=%s layers=%s\n", h.Clock.Now(), h.KB.Display().Mode(), h.layerNames())
	for _, line := range strings.Split(h.Panel.Text(), "\n") {
		fmt.Fprintf(h.out, "| %s\n", strings.ReplaceAll(line, "\x07", "*"))
	}
}

func (h *Harness) layerNames() string {
	var names []string
	for i, info := range keyboard.LayerInfo {
		if h.KB.Layers().Is(uint8(i)) {
			names = append(names, info.Name)
		}
	}
	if len(names) == 0 {
		return "Base"
	}
	return strings.Join(names, ",")
}

func (h *Harness) expect(what string, args []string) error {
	switch what {
	case "layer":
		if len(args) != 2 {
			return fmt.Errorf("%w: expect layer NAME on|off", ErrUsage)
		}
		n, err := layerIndex(args[0])
		if err != nil {
			return err
		}
		want := args[1] == "on"
		if got := h.KB.Layers().Is(n); got != want {
			return fmt.Errorf("%w: layer %s is %s", ErrExpectation, args[0], onOff(got))
		}

	case "text":
		want := strings.Join(args, " ")
		if !strings.Contains(h.Panel.Text(), want) {
			return fmt.Errorf("%w: screen %q lacks %q", ErrExpectation, h.Panel.Text(), want)
		}

	case "typed":
		codes, err := h.keys(args)
		if err != nil {
			return err
		}
		want := make([]uint8, len(codes))
		for i, c := range codes {
			want[i] = uint8(c.Basic())
		}
		got := h.HID.Typed()
		if string(got) != string(want) {
			return fmt.Errorf("%w: typed % x, want % x", ErrExpectation, got, want)
		}

	case "setting":
		return h.expectSetting(args)

	case "mode":
		if len(args) != 1 {
			return fmt.Errorf("%w: expect mode NAME", ErrUsage)
		}
		if got := h.KB.Display().Mode().String(); got != args[0] {
			return fmt.Errorf("%w: mode is %s", ErrExpectation, got)
		}

	case "capsword":
		if len(args) != 1 {
			return fmt.Errorf("%w: expect capsword on|off", ErrUsage)
		}
		if got := onOff(h.KB.CapsWord()); got != args[0] {
			return fmt.Errorf("%w: caps word is %s", ErrExpectation, got)
		}

	case "macro":
		return h.expectMacro(args)

	case "recording":
		if len(args) != 1 {
			return fmt.Errorf("%w: expect recording off|EVENTS", ErrUsage)
		}
		got := "off"
		if rec := h.KB.Recorder(); rec.IsRecording() {
			got = strconv.Itoa(rec.CurrentRecordingLength())
		}
		if got != args[0] {
			return fmt.Errorf("%w: recording is %s", ErrExpectation, got)
		}

	default:
		return fmt.Errorf("%w: expect %s", ErrUnknownCommand, what)
	}
	return nil
}

func (h *Harness) expectSetting(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expect setting NAME VALUE", ErrUsage)
	}
	v := h.KB.Settings().Live()
	var got string
	switch args[0] {
	case "brightness":
		got = strconv.Itoa(int(v.Brightness))
	case "base":
		got = strconv.Itoa(int(v.DelayBase))
	case "ctrl":
		got = strconv.Itoa(int(v.DelayCtrl))
	case "bksp":
		got = strconv.Itoa(int(v.DelayBksp))
	case "scene":
		got = strconv.Itoa(int(v.Scene))
	case "info":
		got = onOff(v.ShowInfo)
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrUsage, args[0])
	}
	if got != args[1] {
		return fmt.Errorf("%w: %s is %s", ErrExpectation, args[0], got)
	}
	return nil
}

func (h *Harness) expectMacro(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: expect macro 1|2 STATE [SIZE]", ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > 2 {
		return fmt.Errorf("%w: macro slot %q", ErrUsage, args[0])
	}
	st := h.KB.OLEDStatus().Macros[n-1]
	if !strings.EqualFold(st.State.String(), args[1]) {
		return fmt.Errorf("%w: macro %d is %s", ErrExpectation, n, st.State)
	}
	if len(args) == 3 && st.State == macro.Set {
		if size := strconv.Itoa(st.Size); size != args[2] {
			return fmt.Errorf("%w: macro %d has %s keys", ErrExpectation, n, size)
		}
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
