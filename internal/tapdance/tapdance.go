// Package tapdance implements keys whose action depends on how many times
// they are tapped and whether the last tap is held.
//
// A dance starts on the first press of a tap-dance key. Each further press
// within the tapping term adds to the count. The dance finishes when the
// term runs out or another key interrupts it, and resets once the key is
// released after finishing. Bindings hook those moments through Action.
package tapdance

import "github.com/dshills/odin75/internal/keycode"

// State is the progress of one dance.
type State struct {
	Count       uint8
	Pressed     bool
	Finished    bool
	Interrupted bool
	Timer       uint32
	Interrupter keycode.Keycode
}

// Host is what bindings act on.
type Host interface {
	Register(kc keycode.Keycode)
	Unregister(kc keycode.Keycode)
	Tap(kc keycode.Keycode)
	LayerOn(n uint8)
	LayerOff(n uint8)
	LayerInvert(n uint8)
}

// Action is one tap-dance binding.
type Action interface {
	// OnTap runs on every press after the count is incremented. It may
	// finish the dance early by setting s.Finished.
	OnTap(s *State, h Host)
	// OnRelease runs on every release.
	OnRelease(s *State, h Host)
	// OnResolve runs once when the dance finishes.
	OnResolve(s *State, h Host)
	// OnReset runs once after the dance finished and the key is up.
	OnReset(s *State, h Host)
}

// Classification buckets a finished dance by count and hold.
type Classification uint8

// Classifications.
const (
	None Classification = iota
	SingleTap
	SingleHold
	DoubleTap
	DoubleHold
	MultiTap
	MultiHold
)

var classNames = [...]string{"none", "single-tap", "single-hold", "double-tap", "double-hold", "multi-tap", "multi-hold"}

func (c Classification) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Classify buckets a tap count and hold state.
func Classify(count uint8, pressed bool) Classification {
	var c Classification
	switch count {
	case 0:
		return None
	case 1:
		c = SingleTap
	case 2:
		c = DoubleTap
	default:
		c = MultiTap
	}
	if pressed {
		c++
	}
	return c
}

// ==================== Tap Hold ====================

// TapHold sends Tap when tapped and holds Hold when held. The tap is sent on
// release, before the dance finishes, so fast typing stays responsive.
type TapHold struct {
	Tap  keycode.Keycode
	Hold keycode.Keycode
	held keycode.Keycode
}

// NewTapHold returns a tap-hold binding.
func NewTapHold(tap, hold keycode.Keycode) *TapHold {
	return &TapHold{Tap: tap, Hold: hold}
}

// Held returns the keycode currently registered by the binding.
func (t *TapHold) Held() keycode.Keycode {
	return t.held
}

// OnTap implements Action.
func (t *TapHold) OnTap(*State, Host) {}

// OnRelease implements Action.
func (t *TapHold) OnRelease(s *State, h Host) {
	if s.Count > 0 && !s.Finished {
		h.Tap(t.Tap)
	}
}

// OnResolve implements Action.
func (t *TapHold) OnResolve(s *State, h Host) {
	if !s.Pressed || t.held != keycode.No {
		return
	}
	if s.Count == 1 {
		t.held = t.Hold
	} else {
		t.held = t.Tap
	}
	h.Register(t.held)
}

// OnReset implements Action.
func (t *TapHold) OnReset(_ *State, h Host) {
	if t.held != keycode.No {
		h.Unregister(t.held)
		t.held = keycode.No
	}
}

// ==================== Quad ====================

// Mode selects what a quad binding does with its code.
type Mode uint8

// Modes.
const (
	ModeNone Mode = iota
	// ModeKeycode taps or holds a keycode.
	ModeKeycode
	// ModeLayerHold turns a layer on while held.
	ModeLayerHold
	// ModeLayerToggle inverts a layer when the dance resets.
	ModeLayerToggle
)

// Binding is one quad slot: a keycode or layer number and what to do with it.
type Binding struct {
	Code keycode.Keycode
	Mode Mode
}

// Key binds a keycode.
func Key(kc keycode.Keycode) Binding {
	return Binding{Code: kc, Mode: ModeKeycode}
}

// LayerHold binds a momentary layer.
func LayerHold(n uint8) Binding {
	return Binding{Code: keycode.Keycode(n), Mode: ModeLayerHold}
}

// LayerToggle binds a toggled layer.
func LayerToggle(n uint8) Binding {
	return Binding{Code: keycode.Keycode(n), Mode: ModeLayerToggle}
}

// Quad performs one of four actions for single or double, tap or hold.
// Three or more taps are recognised but bound to nothing.
type Quad struct {
	SingleTap  Binding
	SingleHold Binding
	DoubleTap  Binding
	DoubleHold Binding

	class Classification
}

// NewQuad binds a keycode to the single tap and explicit bindings to the
// other three slots.
func NewQuad(singleTap keycode.Keycode, singleHold, doubleTap, doubleHold Binding) *Quad {
	return NewQuadFull(Key(singleTap), singleHold, doubleTap, doubleHold)
}

// NewTri is a quad whose double hold repeats the double tap.
func NewTri(singleTap keycode.Keycode, singleHold, doubleTap Binding) *Quad {
	return NewQuadFull(Key(singleTap), singleHold, doubleTap, doubleTap)
}

// NewQuadFull sets all four bindings.
func NewQuadFull(singleTap, singleHold, doubleTap, doubleHold Binding) *Quad {
	return &Quad{
		SingleTap:  singleTap,
		SingleHold: singleHold,
		DoubleTap:  doubleTap,
		DoubleHold: doubleHold,
	}
}

// Classification returns the bucket of the last resolved dance, or None
// after it reset.
func (q *Quad) Classification() Classification {
	return q.class
}

// OnTap implements Action.
func (q *Quad) OnTap(*State, Host) {}

// OnRelease implements Action.
func (q *Quad) OnRelease(*State, Host) {}

// OnResolve implements Action.
func (q *Quad) OnResolve(s *State, h Host) {
	q.class = Classify(s.Count, s.Pressed)
	switch q.class {
	case SingleHold:
		q.SingleHold.press(h)
	case DoubleHold:
		q.DoubleHold.press(h)
	}
}

// OnReset implements Action.
func (q *Quad) OnReset(_ *State, h Host) {
	switch q.class {
	case SingleTap:
		q.SingleTap.release(h, true)
	case SingleHold:
		q.SingleHold.release(h, false)
	case DoubleTap:
		q.DoubleTap.release(h, true)
	case DoubleHold:
		q.DoubleHold.release(h, false)
	}
	q.class = None
}

func (b Binding) press(h Host) {
	switch b.Mode {
	case ModeKeycode:
		h.Register(b.Code)
	case ModeLayerHold:
		h.LayerOn(uint8(b.Code))
	}
}

func (b Binding) release(h Host, tapped bool) {
	switch b.Mode {
	case ModeKeycode:
		if tapped {
			h.Tap(b.Code)
		} else {
			h.Unregister(b.Code)
		}
	case ModeLayerHold:
		h.LayerOff(uint8(b.Code))
	case ModeLayerToggle:
		h.LayerInvert(uint8(b.Code))
	}
}

// ==================== Double ====================

// Double sends First on a single tap and Second on a double tap. The second
// press fires immediately without waiting for the tapping term.
type Double struct {
	First  keycode.Keycode
	Second keycode.Keycode
}

// NewDouble returns a double binding.
func NewDouble(first, second keycode.Keycode) *Double {
	return &Double{First: first, Second: second}
}

// OnTap implements Action.
func (d *Double) OnTap(s *State, h Host) {
	if s.Count == 2 {
		h.Register(d.Second)
		s.Finished = true
	}
}

// OnRelease implements Action.
func (d *Double) OnRelease(*State, Host) {}

// OnResolve implements Action.
func (d *Double) OnResolve(_ *State, h Host) {
	h.Register(d.First)
}

// OnReset implements Action.
func (d *Double) OnReset(s *State, h Host) {
	switch s.Count {
	case 1:
		h.Unregister(d.First)
	case 2:
		h.Unregister(d.Second)
	}
}
