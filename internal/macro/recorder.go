package macro

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/deferred"
	"github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/sendstring"
)

// BufferSize is the number of events both slots can hold together.
const BufferSize = 128

// Event is one recorded key transition.
type Event struct {
	Keycode keycode.Keycode
	Pressed bool
}

// Recorder records key events into two slots and replays them.
//
// Recording starts when a record key is released and ends when the stop key
// is pressed or a record or play key is released. Keys pressed while
// recording still reach the host.
type Recorder struct {
	status   *Status
	sched    *deferred.Scheduler
	host     sendstring.Host
	interval uint32

	slots     [2][]Event
	recording int8
	events    []Event

	play  playback
	token deferred.Token
	log   logrus.FieldLogger
}

// playback is the executor state of a replay.
type playback struct {
	r      *Recorder
	events []Event
	next   int
}

// NewRecorder creates a recorder that reports to status and replays
// through host.
func NewRecorder(status *Status, sched *deferred.Scheduler, host sendstring.Host, log logrus.FieldLogger) *Recorder {
	r := &Recorder{
		status:   status,
		sched:    sched,
		host:     host,
		interval: DefaultInterval,
		log:      logging.WithComponent(log, "dynmacro"),
	}
	r.play.r = r
	return r
}

// Process handles a key event. It returns false when the event was a
// dynamic macro key and has been consumed.
func (r *Recorder) Process(kc keycode.Keycode, pressed bool) bool {
	if r.recording == 0 {
		switch kc {
		case keycode.DynMacroRecord1:
			if !pressed {
				r.start(1)
			}
		case keycode.DynMacroRecord2:
			if !pressed {
				r.start(-1)
			}
		case keycode.DynMacroPlay1:
			if pressed {
				r.Play(1)
			}
		case keycode.DynMacroPlay2:
			if pressed {
				r.Play(-1)
			}
		case keycode.DynMacroStop:
		default:
			return true
		}
		return false
	}

	switch kc {
	case keycode.DynMacroStop:
		if pressed {
			r.stop()
		}
		return false
	case keycode.DynMacroRecord1, keycode.DynMacroRecord2, keycode.DynMacroPlay1, keycode.DynMacroPlay2:
		if !pressed {
			r.stop()
		}
		return false
	}

	if r.room() > 0 {
		r.events = append(r.events, Event{Keycode: kc, Pressed: pressed})
		r.status.RecordKey(r.recording)
	} else {
		r.log.Debug("dynamic macro buffer full")
	}
	return true
}

// IsRecording reports whether a slot is being recorded.
func (r *Recorder) IsRecording() bool {
	return r.recording != 0
}

// CurrentRecordingLength returns the number of events recorded so far.
func (r *Recorder) CurrentRecordingLength() int {
	return len(r.events)
}

// Playing reports whether a replay is in progress.
func (r *Recorder) Playing() bool {
	return r.play.next < len(r.play.events) && r.sched.Pending(r.token)
}

// Get returns a copy of the events in the slot for dir.
func (r *Recorder) Get(dir int8) []Event {
	i := slotIndex(dir)
	if i < 0 {
		return nil
	}
	out := make([]Event, len(r.slots[i]))
	copy(out, r.slots[i])
	return out
}

// Set replaces the events in the slot for dir.
func (r *Recorder) Set(dir int8, events []Event) {
	i := slotIndex(dir)
	if i < 0 {
		return
	}
	saved := make([]Event, len(events))
	copy(saved, events)
	r.slots[i] = saved
}

// Play replays the slot for dir. It is ignored while recording, while
// another replay runs, or when the slot is empty.
func (r *Recorder) Play(dir int8) bool {
	i := slotIndex(dir)
	if i < 0 || r.recording != 0 || r.Playing() || len(r.slots[i]) == 0 {
		return false
	}
	r.play.events = r.slots[i]
	r.play.next = 0
	r.token = r.sched.Schedule(1, &r.play)
	return r.token != deferred.InvalidToken
}

// ClearAll empties both slots and the status.
func (r *Recorder) ClearAll() {
	r.slots = [2][]Event{}
	r.status.Clear()
}

func (r *Recorder) start(dir int8) {
	r.recording = dir
	r.events = nil
	r.status.RecordStart(dir)
	r.log.WithField("dir", dir).Debug("recording started")
}

func (r *Recorder) stop() {
	dir := r.recording
	r.Set(dir, r.events)
	r.status.RecordEnd(dir)
	r.log.WithFields(logrus.Fields{"dir": dir, "events": len(r.events)}).Debug("recording stopped")
	r.recording = 0
	r.events = nil
}

func (r *Recorder) room() int {
	used := len(r.events)
	for i, s := range r.slots {
		if slotIndex(r.recording) != i {
			used += len(s)
		}
	}
	return BufferSize - used
}

// Execute replays the next event.
func (p *playback) Execute(uint32) uint32 {
	if p.next >= len(p.events) {
		return 0
	}
	ev := p.events[p.next]
	p.next++
	if ev.Pressed {
		p.r.host.Register(ev.Keycode)
	} else {
		p.r.host.Unregister(ev.Keycode)
	}
	if p.next >= len(p.events) {
		return 0
	}
	return p.r.interval
}
