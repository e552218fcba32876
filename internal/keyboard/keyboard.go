// Package keyboard is the keymap's arena: it owns every piece of mutable
// keyboard state and routes key events and ticks through the features.
//
// The host loop calls HandleKey for each physical key event with the base
// layer keycode and Task on every tick. Everything runs in that single
// context; nothing here is safe for concurrent use.
package keyboard

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/deferred"
	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/hid"
	"github.com/dshills/odin75/internal/jiggler"
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/layer"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/macro"
	"github.com/dshills/odin75/internal/oled"
	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/tapdance"
	"github.com/dshills/odin75/internal/timer"
	"github.com/dshills/odin75/internal/wpm"
)

// Construction errors.
var (
	ErrNoSink     = errors.New("keyboard: display sink required")
	ErrNoReporter = errors.New("keyboard: hid reporter required")
)

// Options configures a Keyboard.
type Options struct {
	// Sink is the display.
	Sink display.Sink

	// Reporter carries HID reports to the host.
	Reporter hid.Reporter

	// Storage persists the settings word. Defaults to memory.
	Storage settings.Storage

	// Clock is the millisecond tick source. Defaults to the system clock.
	Clock timer.Clock

	// Assets is the scene art.
	Assets *oled.Assets

	// Logger receives diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	// FPS is the display frame rate. Zero selects oled.DefaultFPS.
	FPS int

	// WPMMin and WPMMax bound the reveal animation. Zero selects the
	// oled defaults.
	WPMMin int
	WPMMax int

	// Bootloader is called when the boot key is pressed.
	Bootloader func()
}

// layerTap is the state of a held layer-tap key.
type layerTap struct {
	code kc.Keycode
	at   uint32
	held bool
}

// Keyboard owns the keymap state.
type Keyboard struct {
	opts  Options
	log   logrus.FieldLogger
	clock timer.Clock
	sink  display.Sink

	sched    *deferred.Scheduler
	host     *hid.Host
	layers   layer.State
	store    *settings.Store
	display  *oled.Task
	meter    *wpm.Meter
	dances   *tapdance.Engine
	macros   *macro.Dispatcher
	status   *macro.Status
	recorder *macro.Recorder
	jiggler  *jiggler.Jiggler
	caps     capsWord
	lt       layerTap

	resolved   map[kc.Keycode]kc.Keycode
	registered map[kc.Keycode]kc.Keycode
}

// New builds the keyboard and loads the stored settings. A storage failure
// is logged and the defaults stay in effect.
func New(opts Options) (*Keyboard, error) {
	if opts.Sink == nil {
		return nil, ErrNoSink
	}
	if opts.Reporter == nil {
		return nil, ErrNoReporter
	}
	if opts.Storage == nil {
		opts.Storage = &settings.MemoryStore{}
	}
	if opts.Clock == nil {
		opts.Clock = timer.NewSystem()
	}

	k := &Keyboard{
		opts:       opts,
		log:        logging.WithComponent(opts.Logger, "keyboard"),
		clock:      opts.Clock,
		sink:       opts.Sink,
		resolved:   make(map[kc.Keycode]kc.Keycode),
		registered: make(map[kc.Keycode]kc.Keycode),
	}
	k.bootstrap()

	if err := k.store.Boot(); err != nil {
		k.log.WithError(err).Warn("settings storage unreadable, using defaults")
	}
	return k, nil
}

// bootstrap creates the components in dependency order.
func (k *Keyboard) bootstrap() {
	l := k.opts.Logger

	k.sched = deferred.NewScheduler(k.clock)
	k.caps.sched = k.sched
	k.host = hid.NewHost(k.opts.Reporter)
	k.meter = wpm.NewMeter(k.clock)
	k.store = settings.NewStore(k.opts.Storage, k.sink, l)

	oledOpts := []oled.Option{
		oled.WithLayers(LayerInfo, LayerConfig),
		oled.WithAssets(k.opts.Assets),
		oled.WithLogger(l),
	}
	if k.opts.FPS > 0 {
		oledOpts = append(oledOpts, oled.WithFPS(k.opts.FPS))
	}
	if k.opts.WPMMax > 0 {
		oledOpts = append(oledOpts, oled.WithWPMRange(k.opts.WPMMin, k.opts.WPMMax))
	}
	k.display = oled.NewTask(k.sink, k.clock, k.meter, k, k.store.Live(), oledOpts...)

	k.dances = tapdance.NewEngine(k, NewTapDances(),
		tapdance.WithTerm(k.TappingTerm),
		tapdance.WithLogger(l))
	k.macros = macro.NewDispatcher(k.sched, k.host, k.display, Macros,
		macro.WithStartDelay(k.display.FrameInterval()+1),
		macro.WithLogger(l))
	k.status = &macro.Status{}
	k.recorder = macro.NewRecorder(k.status, k.sched, k.host, l)
	k.jiggler = jiggler.New(k.sched, k.opts.Reporter)
}

// HandleKey processes a physical key event given its base layer keycode.
func (k *Keyboard) HandleKey(base kc.Keycode, pressed bool) {
	if pressed && k.lt.code != kc.No && !k.lt.held && base != k.lt.code {
		k.holdLayerTap()
	}
	k.Process(k.resolve(base, pressed), pressed)
}

// Process runs an already resolved keycode through the feature chain.
func (k *Keyboard) Process(code kc.Keycode, pressed bool) {
	now := k.clock.Now()
	if pressed {
		k.meter.Record(code)
	}
	k.log.WithFields(logrus.Fields{"code": uint16(code), "pressed": pressed}).Trace("key")

	if !k.dances.Process(code, pressed, now) {
		return
	}
	if !k.ProcessRecord(code, pressed) {
		return
	}
	if !k.recorder.Process(code, pressed) {
		return
	}
	k.defaultAction(code, pressed, now)
}

// resolve maps a base keycode through the active layers. A release always
// resolves to whatever the matching press did.
func (k *Keyboard) resolve(base kc.Keycode, pressed bool) kc.Keycode {
	if !pressed {
		if code, ok := k.resolved[base]; ok {
			delete(k.resolved, base)
			return code
		}
		return base
	}
	code := k.lookup(base)
	k.resolved[base] = code
	return code
}

func (k *Keyboard) lookup(base kc.Keycode) kc.Keycode {
	for l := int(LayerCount) - 1; l > 0; l-- {
		if !k.layers.Is(uint8(l)) {
			continue
		}
		if code, ok := Overlays[l][base]; ok && code != kc.Transparent {
			return code
		}
	}
	return base
}

// ProcessRecord handles the keymap's own keycodes. It returns whether
// default processing should continue.
func (k *Keyboard) ProcessRecord(code kc.Keycode, pressed bool) bool {
	if !pressed {
		return true
	}
	v := k.store.Live()

	switch code {
	case LEDBrightUp, LEDBrightDown:
		delta := brightnessDelta
		if code == LEDBrightDown {
			delta = -delta
		}
		v.Brightness = settings.AdjustBounded(v.Brightness, delta, settings.BrightnessMin, settings.BrightnessMax)
		k.sink.SetBrightness(uint8(v.Brightness))

	case LEDAnimation:
		k.display.ToggleAnimation()
	case LEDInfo:
		k.display.ToggleInfo()

	case BaseUp:
		v.DelayBase = settings.AdjustBounded(v.DelayBase, delayDelta, settings.DelayBaseMin, settings.DelayMax)
	case BaseDown:
		v.DelayBase = settings.AdjustBounded(v.DelayBase, -delayDelta, settings.DelayBaseMin, settings.DelayMax)
	case CtrlUp:
		v.DelayCtrl = settings.AdjustBounded(v.DelayCtrl, delayDelta, settings.DelayMin, settings.DelayMax)
	case CtrlDown:
		v.DelayCtrl = settings.AdjustBounded(v.DelayCtrl, -delayDelta, settings.DelayMin, settings.DelayMax)
	case BkspUp:
		v.DelayBksp = settings.AdjustBounded(v.DelayBksp, delayDelta, settings.DelayMin, settings.DelayMax)
	case BkspDown:
		v.DelayBksp = settings.AdjustBounded(v.DelayBksp, -delayDelta, settings.DelayMin, settings.DelayMax)

	case EEPROMSave:
		k.display.ShowFeature("EEPROM", "Save Config")
		if err := k.store.Save(); err != nil {
			k.log.WithError(err).Warn("save failed")
		}
	case EEPROMLoad:
		k.display.ShowFeature("EEPROM", "Load Config")
		if err := k.store.Load(); err != nil {
			k.log.WithError(err).Warn("load failed")
		}

	case MouseJiggle:
		if k.jiggler.Toggle() {
			k.display.ShowFeature("Mouse Jiggle", "Enable")
		} else {
			k.display.ShowFeature("Mouse Jiggle", "Disable")
		}

	default:
		if code > macroRangeStart && code < macroRangeEnd {
			k.macros.Press(code)
		}
	}
	return true
}

func (k *Keyboard) defaultAction(code kc.Keycode, pressed bool, now uint32) {
	switch {
	case code.IsLayerTap():
		k.layerTapKey(code, pressed, now)

	case code == kc.Boot:
		if pressed {
			k.log.Info("jumping to bootloader")
			if k.opts.Bootloader != nil {
				k.opts.Bootloader()
			}
		}

	case code == kc.ClearEEPROM:
		if pressed {
			k.macros.Cancel()
			if err := k.store.Reset(); err != nil {
				k.log.WithError(err).Warn("clear settings failed")
			}
			k.recorder.ClearAll()
		}

	case code.IsUser(), code.IsTapDance(), code >= kc.QuantumMin:

	case pressed:
		k.caps.track(code, true)
		out := k.caps.apply(code)
		k.registered[code] = out
		k.host.Register(out)

	default:
		k.caps.track(code, false)
		out, ok := k.registered[code]
		if !ok {
			out = code
		}
		delete(k.registered, code)
		k.host.Unregister(out)
	}
}

func (k *Keyboard) layerTapKey(code kc.Keycode, pressed bool, now uint32) {
	if pressed {
		k.lt = layerTap{code: code, at: now}
		return
	}
	if k.lt.code != code {
		return
	}
	if k.lt.held {
		k.LayerOff(code.LayerTapLayer())
	} else {
		k.host.Tap(code.Basic())
	}
	k.lt = layerTap{}
}

func (k *Keyboard) holdLayerTap() {
	k.lt.held = true
	k.LayerOn(k.lt.code.LayerTapLayer())
}

// TappingTerm returns the tapping term for code. The control dances and
// the backspace dance have their own settings; everything else uses the
// base delay.
func (k *Keyboard) TappingTerm(code kc.Keycode) uint16 {
	v := k.store.Live()
	switch code {
	case kc.TD(CtrlOCR), kc.TD(CtrlRight):
		return v.DelayCtrl
	case kc.TD(BkspBsl):
		return v.DelayBksp
	default:
		return v.DelayBase
	}
}

// Task runs one tick: deferred executors, tap-dance and layer-tap
// timeouts, then the display, so each frame shows the tick's final state.
func (k *Keyboard) Task() {
	now := k.clock.Now()
	k.sched.Task()
	k.dances.Task(now)
	if k.lt.code != kc.No && !k.lt.held && timer.Elapsed(now, k.lt.at) > uint32(k.TappingTerm(k.lt.code)) {
		k.holdLayerTap()
	}
	k.display.Task()
}

// ==================== tapdance.Host ====================

// Register presses code.
func (k *Keyboard) Register(code kc.Keycode) {
	k.host.Register(code)
}

// Unregister releases code.
func (k *Keyboard) Unregister(code kc.Keycode) {
	k.host.Unregister(code)
}

// Tap presses and releases code.
func (k *Keyboard) Tap(code kc.Keycode) {
	k.host.Tap(code)
}

// LayerOn activates layer n.
func (k *Keyboard) LayerOn(n uint8) {
	k.layers.On(n)
	k.log.WithField("layers", uint32(k.layers)).Debug("layer on")
}

// LayerOff deactivates layer n.
func (k *Keyboard) LayerOff(n uint8) {
	k.layers.Off(n)
	k.log.WithField("layers", uint32(k.layers)).Debug("layer off")
}

// LayerInvert toggles layer n.
func (k *Keyboard) LayerInvert(n uint8) {
	k.layers.Invert(n)
	k.log.WithField("layers", uint32(k.layers)).Debug("layer toggled")
}

// ==================== Accessors ====================

// OLEDStatus implements oled.StatusSource.
func (k *Keyboard) OLEDStatus() oled.Status {
	return oled.Status{
		Layers:   k.layers,
		Macros:   [2]macro.SlotStatus{k.status.Slot(1), k.status.Slot(2)},
		LEDs:     k.host.LEDs(),
		CapsWord: k.caps.on,
	}
}

// SetLEDs records the host's indicator state.
func (k *Keyboard) SetLEDs(s hid.LEDState) {
	k.host.SetLEDs(s)
}

// Layers returns the active layers.
func (k *Keyboard) Layers() layer.State {
	return k.layers
}

// CapsWord reports whether caps word is on.
func (k *Keyboard) CapsWord() bool {
	return k.caps.on
}

// Settings returns the settings store.
func (k *Keyboard) Settings() *settings.Store {
	return k.store
}

// Display returns the display task.
func (k *Keyboard) Display() *oled.Task {
	return k.display
}

// Meter returns the typing speed meter.
func (k *Keyboard) Meter() *wpm.Meter {
	return k.meter
}

// Macros returns the macro dispatcher.
func (k *Keyboard) Macros() *macro.Dispatcher {
	return k.macros
}

// Recorder returns the dynamic macro recorder.
func (k *Keyboard) Recorder() *macro.Recorder {
	return k.recorder
}

// Jiggler returns the mouse jiggler.
func (k *Keyboard) Jiggler() *jiggler.Jiggler {
	return k.jiggler
}

// Scheduler returns the deferred executor table.
func (k *Keyboard) Scheduler() *deferred.Scheduler {
	return k.sched
}

// Clock returns the tick source.
func (k *Keyboard) Clock() timer.Clock {
	return k.clock
}
