// Package oled runs the keyboard's status display: a frame-paced task that
// shows transient notices, a textual status screen or one of the animated
// scenes driven by typing speed.
package oled

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/fixed"
	"github.com/dshills/odin75/internal/layer"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/timer"
)

// Timing and scaling defaults.
const (
	DefaultFPS = 30

	// NoticeTime is how long a notice stays up, in milliseconds.
	NoticeTime = 1500

	// Speeds at which reveal scenes start and finish uncovering.
	DefaultWPMMin = 10
	DefaultWPMMax = 100
)

// Greeting is shown at power on until the first notice time elapses.
const Greeting = "\n\n" +
	"   \x85\x86\x87\x88\x89\x8A\x8B\x8C\x8D\x8E\x8F\x90\x91\x92\x93\n" +
	"   \xA5\xA6\xA7\xA8\xA9\xAA\xAB\xAC\xAD\xAE\xAF\xB0\xB1\xB2\xB3\n" +
	"   \xC5\xC6\xC7\xC8\xC9\xCA\xCB\xCC\xCD\xCE\xCF\xD0\xD1\xD2\xD3\n"

// Mode is what the display is currently showing.
type Mode uint8

// Display modes.
const (
	ModeBooting Mode = iota
	ModeNotice
	ModeInfo
	ModeScene
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeBooting:
		return "booting"
	case ModeNotice:
		return "notice"
	case ModeInfo:
		return "info"
	case ModeScene:
		return "scene"
	case ModeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Telemetry reports the current typing speed.
type Telemetry interface {
	CurrentWPM() uint8
}

// Option configures a Task.
type Option func(*Task)

// WithFPS sets the frame rate.
func WithFPS(fps int) Option {
	return func(t *Task) {
		if fps > 0 {
			t.frameMs = uint32(1000 / fps)
		}
	}
}

// WithWPMRange sets the speeds mapped onto an empty and a full reveal.
func WithWPMRange(lo, hi int) Option {
	return func(t *Task) {
		if hi > lo {
			t.wpmMin, t.wpmMax = lo, hi
		}
	}
}

// WithLayers sets the layer names shown on the status screen and the layer
// that switches it to the settings view.
func WithLayers(info []layer.Info, config uint8) Option {
	return func(t *Task) {
		t.layers = info
		t.configLayer = config
	}
}

// WithAssets sets the scene art.
func WithAssets(a *Assets) Option {
	return func(t *Task) {
		if a != nil {
			t.assets = a
		}
	}
}

// WithLogger sets the task logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Task) {
		t.log = logging.WithComponent(l, "oled")
	}
}

// Task owns the display. Scene and ShowInfo live in the settings values so
// they persist; everything else is session state.
type Task struct {
	sink      display.Sink
	clock     timer.Clock
	telemetry Telemetry
	status    StatusSource
	values    *settings.Values
	assets    *Assets
	log       logrus.FieldLogger

	frameMs     uint32
	wpmMin      int
	wpmMax      int
	layers      []layer.Info
	configLayer uint8

	enabled  bool
	lastInfo bool
	booting  bool
	frameAt  uint32
	noticeAt uint32
	text     TextBuffer
	ema      fixed.EMA
	anim     animator
}

// NewTask creates the display task. The greeting is shown for NoticeTime
// from now.
func NewTask(sink display.Sink, clock timer.Clock, telemetry Telemetry, status StatusSource, values *settings.Values, opts ...Option) *Task {
	now := clock.Now()
	t := &Task{
		sink:      sink,
		clock:     clock,
		telemetry: telemetry,
		status:    status,
		values:    values,
		assets:    &Assets{},
		log:       logging.Discard(),
		frameMs:   1000 / DefaultFPS,
		wpmMin:    DefaultWPMMin,
		wpmMax:    DefaultWPMMax,
		enabled:   true,
		booting:   true,
		frameAt:   now,
		noticeAt:  now,
		anim:      newAnimator(),
	}
	t.text.Set(Greeting)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FrameInterval returns the minimum time between frames in milliseconds.
func (t *Task) FrameInterval() uint32 {
	return t.frameMs
}

// Task renders a frame if a frame interval has passed. It reports whether
// anything was drawn.
func (t *Task) Task() bool {
	now := t.clock.Now()
	if timer.Elapsed(now, t.frameAt) < t.frameMs {
		return false
	}
	t.frameAt = now

	if !t.enabled {
		t.sink.PowerOff()
		return false
	}

	if t.lastInfo != t.values.ShowInfo {
		t.sink.Clear()
		t.lastInfo = t.values.ShowInfo
	}

	var wpm uint8
	if t.telemetry != nil {
		wpm = t.telemetry.CurrentWPM()
	}
	t.ema.Update(wpm)

	switch {
	case t.noticeActive(now):
		t.sink.WriteLines(t.text.String(), false)
	case t.values.ShowInfo:
		t.booting = false
		t.formatInfo()
		t.sink.WriteLines(t.text.String(), false)
	default:
		t.booting = false
		mask := fixed.ScaleLimited(t.ema.WPM(), t.wpmMin, t.wpmMax, 0, 64)
		s := t.Scene()
		t.anim.render(t.sink, s, &t.assets[s], t.ema.Value(), mask)
	}
	return true
}

func (t *Task) noticeActive(now uint32) bool {
	return timer.Elapsed(now, t.noticeAt) <= NoticeTime
}

// Mode reports what the display is showing.
func (t *Task) Mode() Mode {
	switch {
	case !t.enabled:
		return ModeDisabled
	case t.noticeActive(t.clock.Now()):
		if t.booting {
			return ModeBooting
		}
		return ModeNotice
	case t.values.ShowInfo:
		return ModeInfo
	default:
		return ModeScene
	}
}

// Scene returns the selected scene.
func (t *Task) Scene() Scene {
	return Scene(t.values.Scene) % SceneCount
}

// Enabled reports whether the display is on.
func (t *Task) Enabled() bool {
	return t.enabled
}

// SmoothedWPM returns the averaged typing speed in whole words per minute.
func (t *Task) SmoothedWPM() int {
	return t.ema.WPM()
}

// Text returns the contents of the shared text buffer.
func (t *Task) Text() string {
	return t.text.String()
}

// ToggleAnimation leaves the status screen, or advances to the next scene,
// or turns a disabled display back on showing a scene.
func (t *Task) ToggleAnimation() {
	v := t.values
	switch {
	case !t.enabled:
		t.enabled = true
		v.ShowInfo = false
	case v.ShowInfo:
		v.ShowInfo = false
	default:
		v.Scene = uint8((t.Scene() + 1) % SceneCount)
	}
	t.log.WithFields(logrus.Fields{"scene": t.Scene(), "info": v.ShowInfo}).Debug("animation toggled")
}

// ToggleInfo shows the status screen, or turns the display off when it is
// already showing, or turns a disabled display back on showing it.
func (t *Task) ToggleInfo() {
	v := t.values
	switch {
	case !t.enabled:
		t.enabled = true
		v.ShowInfo = true
	case v.ShowInfo:
		t.enabled = false
	default:
		v.ShowInfo = true
	}
	t.log.WithFields(logrus.Fields{"enabled": t.enabled, "info": v.ShowInfo}).Debug("info toggled")
}

// ShowMacro puts up the banner for a macro being sent.
func (t *Task) ShowMacro(category, label string) {
	t.notice("\n Send Macro\n Type\x1A%s\n Name\x1A%s", category, label)
}

// ShowFeature puts up the banner for a feature being used.
func (t *Task) ShowFeature(kind, name string) {
	t.notice("\n Feature\n Type\x1A%s\n Name\x1A%s", kind, name)
}

func (t *Task) notice(format, a, b string) {
	t.noticeAt = t.clock.Now()
	t.booting = false
	t.text.Printf(format, a, b)
	t.sink.Clear()
	t.log.WithFields(logrus.Fields{"type": a, "name": b}).Debug("notice")
}
