package macro

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/odin75/internal/deferred"
	"github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/sendstring"
	"github.com/dshills/odin75/internal/timer"
)

type opHost struct {
	ops []string
}

func (h *opHost) Register(kc keycode.Keycode)   { h.ops = append(h.ops, fmt.Sprintf("+%04X", uint16(kc))) }
func (h *opHost) Unregister(kc keycode.Keycode) { h.ops = append(h.ops, fmt.Sprintf("-%04X", uint16(kc))) }
func (h *opHost) Tap(kc keycode.Keycode)        { h.ops = append(h.ops, fmt.Sprintf("%04X", uint16(kc))) }

type notices struct {
	shown []string
}

func (n *notices) ShowMacro(category, label string) {
	n.shown = append(n.shown, category+"/"+label)
}

// run advances the clock one millisecond at a time, ticking the scheduler.
func run(clock *timer.Manual, sched *deferred.Scheduler, ms int) {
	for i := 0; i < ms; i++ {
		clock.Advance(1)
		sched.Task()
	}
}

var (
	mAuthor = keycode.SafeRange + 20
	mPDF    = keycode.SafeRange + 21
)

func testMacros() []Binding {
	return []Binding{
		{Keycode: mAuthor, Info: Info{Category: "Print", Label: "Author Name", Payload: "ab"}},
		{Keycode: mPDF, Info: Info{Category: "Adobe PDF", Label: "1-Page View", Payload: sendstring.LAlt("v")}},
	}
}

// ==================== Dispatcher Tests ====================

func TestDispatcherSendsAfterFrame(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	h := &opHost{}
	n := &notices{}
	d := NewDispatcher(sched, h, n, testMacros())

	assert.True(t, d.Press(mAuthor))
	assert.Equal(t, []string{"Print/Author Name"}, n.shown)
	assert.True(t, d.Busy())

	run(clock, sched, 33)
	assert.Empty(t, h.ops, "send waits one frame")
	run(clock, sched, 1)
	assert.Equal(t, []string{"0004"}, h.ops)

	run(clock, sched, 15)
	assert.Len(t, h.ops, 1)
	run(clock, sched, 1)
	assert.Equal(t, []string{"0004", "0005"}, h.ops)
	assert.False(t, d.Busy())
	assert.Equal(t, 1, d.Sends())
	assert.Equal(t, 0, sched.Len())
}

func TestDispatcherDropsWhileBusy(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	h := &opHost{}
	n := &notices{}
	d := NewDispatcher(sched, h, n, testMacros())

	require.True(t, d.Press(mAuthor))
	run(clock, sched, 10)
	assert.True(t, d.Press(mAuthor), "macro key is still consumed")
	assert.True(t, d.Press(mPDF))
	assert.Len(t, n.shown, 1)

	run(clock, sched, 200)
	assert.Equal(t, 1, d.Sends())
	assert.Equal(t, []string{"0004", "0005"}, h.ops)

	assert.True(t, d.Press(mPDF))
	run(clock, sched, 200)
	assert.Equal(t, 2, d.Sends())
}

func TestDispatcherIgnoresOtherKeys(t *testing.T) {
	clock := timer.NewManual(0)
	d := NewDispatcher(deferred.NewScheduler(clock), &opHost{}, nil, testMacros())
	assert.False(t, d.Press(keycode.A))
	assert.False(t, d.Busy())

	info, ok := d.Lookup(mPDF)
	require.True(t, ok)
	assert.Equal(t, "1-Page View", info.Label)
	_, ok = d.Lookup(keycode.B)
	assert.False(t, ok)
}

func TestDispatcherCancel(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	h := &opHost{}
	d := NewDispatcher(sched, h, nil, testMacros(), WithStartDelay(5))

	d.Cancel()

	d.Press(mPDF)
	run(clock, sched, 5)
	require.Equal(t, []string{"+00E2"}, h.ops)

	d.Cancel()
	assert.Equal(t, []string{"+00E2", "-00E2"}, h.ops)
	assert.False(t, d.Busy())
	assert.Equal(t, 0, sched.Len())

	run(clock, sched, 100)
	assert.Len(t, h.ops, 2)
	assert.Equal(t, 0, d.Sends())
}

func TestDispatcherCancelBeforeStart(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	h := &opHost{}
	d := NewDispatcher(sched, h, nil, testMacros())

	d.Press(mAuthor)
	d.Cancel()
	run(clock, sched, 100)
	assert.Empty(t, h.ops)
	assert.True(t, d.Press(mAuthor))
	assert.True(t, d.Busy())
}

func TestDispatcherFullTable(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	for i := 0; i < deferred.MaxExecutors; i++ {
		sched.Schedule(1000, deferred.ExecutorFunc(func(uint32) uint32 { return 0 }))
	}
	d := NewDispatcher(sched, &opHost{}, nil, testMacros())
	assert.True(t, d.Press(mAuthor))
	assert.False(t, d.Busy(), "a press with no free executor is dropped")
}

// ==================== Status Tests ====================

func TestStatusRecording(t *testing.T) {
	var s Status
	s.RecordStart(1)
	assert.Equal(t, Recording, s.Slot(1).State)
	for i := 0; i < 5; i++ {
		s.RecordKey(1)
	}
	s.RecordEnd(1)
	assert.Equal(t, SlotStatus{State: Set, Size: 2}, s.Slot(1))
	assert.Equal(t, SlotStatus{}, s.Slot(2))

	s.RecordStart(-1)
	s.RecordEnd(-1)
	assert.Equal(t, SlotStatus{State: Empty, Size: 0}, s.Slot(2))

	s.RecordStart(-1)
	s.RecordKey(-1)
	s.RecordEnd(-1)
	assert.Equal(t, SlotStatus{State: Empty, Size: 0}, s.Slot(2), "the stop key alone is not a macro")
}

func TestStatusIgnoresBadDirection(t *testing.T) {
	var s Status
	s.RecordStart(0)
	s.RecordEnd(3)
	assert.Equal(t, SlotStatus{}, s.Slot(1))
	assert.Equal(t, SlotStatus{}, s.Slot(0))
	assert.Equal(t, "Recording", Recording.String())
}

// ==================== Recorder Tests ====================

func TestRecorderRecordAndPlay(t *testing.T) {
	clock := timer.NewManual(0)
	sched := deferred.NewScheduler(clock)
	h := &opHost{}
	status := &Status{}
	r := NewRecorder(status, sched, h, nil)

	assert.False(t, r.Process(keycode.DynMacroRecord1, true))
	assert.False(t, r.IsRecording(), "recording starts on release")
	assert.False(t, r.Process(keycode.DynMacroRecord1, false))
	assert.True(t, r.IsRecording())
	assert.Equal(t, Recording, status.Slot(1).State)

	assert.True(t, r.Process(keycode.A, true))
	assert.True(t, r.Process(keycode.A, false))
	assert.True(t, r.Process(keycode.B, true))
	assert.True(t, r.Process(keycode.B, false))
	assert.True(t, r.Process(keycode.TD(9), true), "layer key before the stop key")
	assert.Equal(t, 5, r.CurrentRecordingLength())

	assert.False(t, r.Process(keycode.DynMacroStop, true))
	assert.False(t, r.IsRecording())
	assert.Equal(t, SlotStatus{State: Set, Size: 2}, status.Slot(1))
	require.Len(t, r.Get(1), 5)

	assert.False(t, r.Process(keycode.DynMacroPlay1, true))
	assert.True(t, r.Playing())
	run(clock, sched, 1+16*4)
	assert.Equal(t, []string{"+0004", "-0004", "+0005", "-0005", "+5709"}, h.ops)
	assert.False(t, r.Playing())
}

func TestRecorderStopOnRecordRelease(t *testing.T) {
	clock := timer.NewManual(0)
	r := NewRecorder(&Status{}, deferred.NewScheduler(clock), &opHost{}, nil)

	r.Process(keycode.DynMacroRecord2, false)
	r.Process(keycode.C, true)
	r.Process(keycode.C, false)
	assert.False(t, r.Process(keycode.DynMacroRecord2, true))
	assert.True(t, r.IsRecording(), "press of a record key does not stop")
	r.Process(keycode.DynMacroRecord2, false)
	assert.False(t, r.IsRecording())
	assert.Len(t, r.Get(-1), 2)
	assert.Empty(t, r.Get(1))
}

func TestRecorderPlayIgnoredWhenEmpty(t *testing.T) {
	clock := timer.NewManual(0)
	r := NewRecorder(&Status{}, deferred.NewScheduler(clock), &opHost{}, nil)
	assert.False(t, r.Play(1))
	assert.False(t, r.Play(0))
	assert.True(t, r.Process(keycode.A, true))
}

func TestRecorderBufferLimit(t *testing.T) {
	clock := timer.NewManual(0)
	status := &Status{}
	r := NewRecorder(status, deferred.NewScheduler(clock), &opHost{}, nil)
	r.Set(-1, make([]Event, 100))

	r.Process(keycode.DynMacroRecord1, false)
	for i := 0; i < 40; i++ {
		r.Process(keycode.A, i%2 == 0)
	}
	assert.Equal(t, BufferSize-100, r.CurrentRecordingLength())
	r.Process(keycode.DynMacroStop, true)
	assert.Equal(t, SlotStatus{State: Set, Size: 13}, status.Slot(1))

	r.ClearAll()
	assert.Empty(t, r.Get(1))
	assert.Equal(t, SlotStatus{}, status.Slot(1))
}
