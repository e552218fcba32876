package tapdance

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/timer"
)

// DefaultTerm is the tapping term used when no TermFunc is set.
const DefaultTerm = 200

// TermFunc returns the tapping term in milliseconds for a tap-dance key.
type TermFunc func(kc keycode.Keycode) uint16

// Option configures an Engine.
type Option func(*Engine)

// WithTerm sets the per-key tapping term lookup.
func WithTerm(fn TermFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.term = fn
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = logging.WithComponent(l, "tapdance")
	}
}

// Engine drives tap-dance bindings from key events. At most one dance is
// active at a time; pressing any other key interrupts it.
type Engine struct {
	host    Host
	actions []Action
	states  []State
	term    TermFunc
	active  keycode.Keycode
	lastTap uint32
	log     logrus.FieldLogger
}

// NewEngine creates an engine for actions, indexed by TD(i).
func NewEngine(host Host, actions []Action, opts ...Option) *Engine {
	e := &Engine{
		host:    host,
		actions: actions,
		states:  make([]State, len(actions)),
		term:    func(keycode.Keycode) uint16 { return DefaultTerm },
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process handles a key event. It returns false when the event was a
// tap-dance key and has been consumed.
func (e *Engine) Process(kc keycode.Keycode, pressed bool, now uint32) bool {
	if pressed && e.active != keycode.No && kc != e.active {
		e.interrupt(kc)
	}

	i, ok := e.index(kc)
	if !ok {
		return true
	}
	st := &e.states[i]
	act := e.actions[i]
	st.Pressed = pressed

	if pressed {
		e.lastTap = now
		st.Timer = now
		if st.Count < 255 {
			st.Count++
		}
		act.OnTap(st, e.host)
		if st.Finished {
			e.active = keycode.No
		} else {
			e.active = kc
		}
		return false
	}

	act.OnRelease(st, e.host)
	if st.Finished {
		e.reset(i)
		if e.active == kc {
			e.active = keycode.No
		}
	}
	return false
}

// Task finishes the active dance once its tapping term has passed.
func (e *Engine) Task(now uint32) {
	if e.active == keycode.No {
		return
	}
	if timer.Elapsed(now, e.lastTap) <= uint32(e.term(e.active)) {
		return
	}
	i, ok := e.index(e.active)
	if !ok {
		e.active = keycode.No
		return
	}
	if !e.states[i].Interrupted {
		e.finish(i)
	}
}

// Active returns the keycode of the dance in progress, or keycode.No.
func (e *Engine) Active() keycode.Keycode {
	return e.active
}

// State returns the state of dance i.
func (e *Engine) State(i uint8) State {
	if int(i) >= len(e.states) {
		return State{}
	}
	return e.states[i]
}

// Len returns the number of bindings.
func (e *Engine) Len() int {
	return len(e.actions)
}

func (e *Engine) interrupt(by keycode.Keycode) {
	i, ok := e.index(e.active)
	if !ok {
		e.active = keycode.No
		return
	}
	st := &e.states[i]
	st.Interrupted = true
	st.Interrupter = by
	e.finish(i)
}

func (e *Engine) finish(i int) {
	st := &e.states[i]
	if st.Finished {
		return
	}
	st.Finished = true
	e.actions[i].OnResolve(st, e.host)
	e.log.WithFields(logrus.Fields{
		"dance":       i,
		"count":       st.Count,
		"held":        st.Pressed,
		"interrupted": st.Interrupted,
	}).Debug("dance finished")

	if !st.Pressed {
		e.reset(i)
		if e.active == keycode.TD(uint8(i)) {
			e.active = keycode.No
		}
	}
}

func (e *Engine) reset(i int) {
	e.actions[i].OnReset(&e.states[i], e.host)
	e.states[i] = State{}
}

func (e *Engine) index(kc keycode.Keycode) (int, bool) {
	if !kc.IsTapDance() {
		return 0, false
	}
	i := int(kc.TapDanceIndex())
	if i >= len(e.actions) || e.actions[i] == nil {
		return 0, false
	}
	return i, true
}
