// Package jiggler keeps the host awake by moving the mouse in a slow circle.
package jiggler

import (
	"github.com/dshills/odin75/internal/deferred"
	"github.com/dshills/odin75/internal/hid"
)

// Interval is the time between movements in milliseconds.
const Interval = 16

const deltasSize = 64

// deltas is one period of the movement. The y axis reads it a quarter
// period ahead of x, which traces a circle.
var deltas = [deltasSize]int8{
	0, 0, -1, -1, -1, -2, -2, -2, -2, -3, -3, -3, -3, -3, -3, -3,
	-3, -3, -3, -3, -3, -3, -3, -2, -2, -2, -2, -1, -1, -1, 0, 0,
	0, 0, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 0, 0,
}

// Mouse sends relative mouse reports.
type Mouse interface {
	SendMouse(r hid.MouseReport)
}

// Jiggler moves the mouse from a deferred executor while active.
type Jiggler struct {
	sched *deferred.Scheduler
	mouse Mouse
	token deferred.Token
	phase uint8
}

// New creates a jiggler.
func New(sched *deferred.Scheduler, mouse Mouse) *Jiggler {
	return &Jiggler{sched: sched, mouse: mouse}
}

// Start begins jiggling. It does nothing when already active.
func (j *Jiggler) Start() {
	if j.Active() {
		return
	}
	j.token = j.sched.Schedule(1, j)
}

// Stop ends jiggling and sends a still report. It does nothing when
// inactive.
func (j *Jiggler) Stop() {
	if j.token == deferred.InvalidToken {
		return
	}
	j.sched.Cancel(j.token)
	j.token = deferred.InvalidToken
	j.mouse.SendMouse(hid.MouseReport{})
}

// Toggle starts or stops jiggling and reports whether it is now active.
func (j *Jiggler) Toggle() bool {
	if j.Active() {
		j.Stop()
	} else {
		j.Start()
	}
	return j.Active()
}

// Active reports whether the jiggler is running.
func (j *Jiggler) Active() bool {
	return j.token != deferred.InvalidToken && j.sched.Pending(j.token)
}

// Execute sends one movement.
func (j *Jiggler) Execute(uint32) uint32 {
	j.mouse.SendMouse(hid.MouseReport{
		X: deltas[j.phase],
		Y: deltas[(j.phase+deltasSize/4)&(deltasSize-1)],
	})
	j.phase = (j.phase + 1) & (deltasSize - 1)
	return Interval
}
