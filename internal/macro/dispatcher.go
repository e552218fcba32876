// Package macro sends keymap macros and tracks dynamic macro recording.
//
// Dispatcher plays compiled-in send-string macros. A press shows a notice
// first and starts the send one frame later, so the display is not starved
// while the payload types out. Only one macro is ever in flight.
//
// Status and Recorder cover the two dynamic macro slots: Recorder captures
// and replays key events, Status keeps the summary shown on the display.
package macro

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/deferred"
	"github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/sendstring"
)

// Info describes one macro.
type Info struct {
	Category string
	Label    string
	Payload  string
}

// Binding maps a keycode to a macro.
type Binding struct {
	Keycode keycode.Keycode
	Info    Info
}

// Notifier shows a banner for a macro that is about to run.
type Notifier interface {
	ShowMacro(category, label string)
}

// DefaultInterval is the delay in milliseconds between payload items.
const DefaultInterval = sendstring.DefaultInterval

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithStartDelay sets the delay between the notice and the first item.
func WithStartDelay(ms uint32) DispatcherOption {
	return func(d *Dispatcher) {
		if ms > 0 {
			d.startDelay = ms
		}
	}
}

// WithInterval sets the delay between payload items.
func WithInterval(ms uint32) DispatcherOption {
	return func(d *Dispatcher) {
		d.interval = ms
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l logrus.FieldLogger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = logging.WithComponent(l, "macro")
	}
}

// Dispatcher runs macros through the deferred scheduler.
type Dispatcher struct {
	sched    *deferred.Scheduler
	host     sendstring.Host
	notifier Notifier
	macros   []Binding

	startDelay uint32
	interval   uint32

	job   sendJob
	token deferred.Token
	sends int
	log   logrus.FieldLogger
}

// sendJob is the executor state for the macro in flight.
type sendJob struct {
	d      *Dispatcher
	index  int
	sender *sendstring.Sender
}

// NewDispatcher creates a dispatcher for macros. startDelay defaults to
// one frame at 30 FPS plus a millisecond.
func NewDispatcher(sched *deferred.Scheduler, host sendstring.Host, notifier Notifier, macros []Binding, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sched:      sched,
		host:       host,
		notifier:   notifier,
		macros:     macros,
		startDelay: 1000/30 + 1,
		interval:   DefaultInterval,
		log:        logging.Discard(),
	}
	d.job.d = d
	d.job.index = -1
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup returns the macro bound to kc.
func (d *Dispatcher) Lookup(kc keycode.Keycode) (Info, bool) {
	if i := d.find(kc); i >= 0 {
		return d.macros[i].Info, true
	}
	return Info{}, false
}

// Press starts the macro bound to kc. It reports whether kc is a macro key,
// including when the press was dropped because another macro is in flight.
func (d *Dispatcher) Press(kc keycode.Keycode) bool {
	i := d.find(kc)
	if i < 0 {
		return false
	}
	if d.Busy() {
		d.log.WithField("label", d.macros[i].Info.Label).Debug("macro dropped, send in flight")
		return true
	}

	info := d.macros[i].Info
	if d.notifier != nil {
		d.notifier.ShowMacro(info.Category, info.Label)
	}

	d.job.index = i
	d.job.sender = nil
	d.token = d.sched.Schedule(d.startDelay, &d.job)
	if d.token == deferred.InvalidToken {
		d.log.WithField("label", info.Label).Warn("no free executor for macro")
		d.job.index = -1
	}
	return true
}

// Busy reports whether a macro is in flight.
func (d *Dispatcher) Busy() bool {
	return d.job.index >= 0
}

// Sends returns the number of macros that have finished sending.
func (d *Dispatcher) Sends() int {
	return d.sends
}

// Cancel stops the macro in flight and releases any key it holds. It is a
// no-op when idle.
func (d *Dispatcher) Cancel() {
	if !d.Busy() {
		return
	}
	d.sched.Cancel(d.token)
	if d.job.sender != nil {
		d.job.sender.Release(d.host)
	}
	d.log.WithField("label", d.macros[d.job.index].Info.Label).Debug("macro cancelled")
	d.clear()
}

func (d *Dispatcher) clear() {
	d.job.index = -1
	d.job.sender = nil
	d.token = deferred.InvalidToken
}

func (d *Dispatcher) find(kc keycode.Keycode) int {
	for i := range d.macros {
		if d.macros[i].Keycode == kc {
			return i
		}
	}
	return -1
}

// Execute sends the next payload item.
func (j *sendJob) Execute(uint32) uint32 {
	d := j.d
	if j.index < 0 {
		return 0
	}
	if j.sender == nil {
		j.sender = sendstring.NewSender(d.macros[j.index].Info.Payload, d.interval)
	}
	if delay := j.sender.Step(d.host); delay > 0 {
		return delay
	}
	d.sends++
	d.log.WithField("label", d.macros[j.index].Info.Label).Debug("macro sent")
	d.clear()
	return 0
}
