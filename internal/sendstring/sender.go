package sendstring

import "github.com/dshills/odin75/internal/keycode"

// Host presses and releases keys on behalf of a Sender.
type Host interface {
	Register(kc keycode.Keycode)
	Unregister(kc keycode.Keycode)
	Tap(kc keycode.Keycode)
}

// Sender plays a payload back one item at a time so that no single call
// blocks for the payload's delays.
type Sender struct {
	payload  string
	pos      int
	interval uint32
	held     []keycode.Keycode
}

// NewSender prepares payload for playback with interval milliseconds
// between items.
func NewSender(payload string, interval uint32) *Sender {
	return &Sender{payload: payload, interval: interval}
}

// Done reports whether the whole payload has been sent.
func (s *Sender) Done() bool {
	return s.pos >= len(s.payload)
}

// Step sends the next item and returns the delay in milliseconds before the
// following one. It returns 0 once the payload is exhausted.
func (s *Sender) Step(h Host) uint32 {
	for !s.Done() {
		var it Item
		it, s.pos = Decode(s.payload, s.pos)

		var wait uint32
		switch it.Kind {
		case KindSkip:
			continue
		case KindTap:
			h.Tap(it.Code)
		case KindDown:
			h.Register(it.Code)
			s.held = append(s.held, it.Code)
		case KindUp:
			h.Unregister(it.Code)
			s.forget(it.Code)
		case KindDelay:
			wait = it.Delay
		}

		if s.Done() {
			return 0
		}
		wait += s.interval
		if wait == 0 {
			wait = 1
		}
		return wait
	}
	return 0
}

// Release lets go of every key the payload pressed and has not yet released,
// and abandons the rest of the payload.
func (s *Sender) Release(h Host) {
	for i := len(s.held) - 1; i >= 0; i-- {
		h.Unregister(s.held[i])
	}
	s.held = s.held[:0]
	s.pos = len(s.payload)
}

// Held returns the keys currently pressed by the payload.
func (s *Sender) Held() []keycode.Keycode {
	return s.held
}

func (s *Sender) forget(kc keycode.Keycode) {
	for i, h := range s.held {
		if h == kc {
			s.held = append(s.held[:i], s.held[i+1:]...)
			return
		}
	}
}
