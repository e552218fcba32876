package tapdance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/odin75/internal/keycode"
)

type fakeHost struct {
	ops    []string
	layers uint32
}

func (h *fakeHost) Register(kc keycode.Keycode) {
	h.ops = append(h.ops, fmt.Sprintf("reg %04X", uint16(kc)))
}

func (h *fakeHost) Unregister(kc keycode.Keycode) {
	h.ops = append(h.ops, fmt.Sprintf("unreg %04X", uint16(kc)))
}

func (h *fakeHost) Tap(kc keycode.Keycode) {
	h.ops = append(h.ops, fmt.Sprintf("tap %04X", uint16(kc)))
}

func (h *fakeHost) LayerOn(n uint8) {
	h.layers |= 1 << n
	h.ops = append(h.ops, fmt.Sprintf("on %d", n))
}

func (h *fakeHost) LayerOff(n uint8) {
	h.layers &^= 1 << n
	h.ops = append(h.ops, fmt.Sprintf("off %d", n))
}

func (h *fakeHost) LayerInvert(n uint8) {
	h.layers ^= 1 << n
	h.ops = append(h.ops, fmt.Sprintf("invert %d", n))
}

func op(verb string, kc keycode.Keycode) string {
	return fmt.Sprintf("%s %04X", verb, uint16(kc))
}

// ==================== Classify Tests ====================

func TestClassify(t *testing.T) {
	tests := []struct {
		count   uint8
		pressed bool
		want    Classification
	}{
		{0, false, None},
		{1, false, SingleTap},
		{1, true, SingleHold},
		{2, false, DoubleTap},
		{2, true, DoubleHold},
		{3, false, MultiTap},
		{5, false, MultiTap},
		{9, true, MultiHold},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%d/%v", tt.count, tt.pressed)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.count, tt.pressed))
		})
	}
	assert.Equal(t, "double-hold", DoubleHold.String())
}

// ==================== Tap Hold Tests ====================

func TestTapHoldResolveAndReset(t *testing.T) {
	h := &fakeHost{}
	th := NewTapHold(keycode.Ctl(keycode.Backspace), keycode.Backslash)

	st := &State{Count: 1, Pressed: true}
	th.OnResolve(st, h)
	assert.Equal(t, keycode.Backslash, th.Held())
	th.OnResolve(st, h)

	th.OnReset(st, h)
	th.OnReset(st, h)
	assert.Equal(t, []string{
		op("reg", keycode.Backslash),
		op("unreg", keycode.Backslash),
	}, h.ops, "no double register, at most one release")
	assert.Equal(t, keycode.No, th.Held())
}

func TestTapHoldTapOnRelease(t *testing.T) {
	h := &fakeHost{}
	th := NewTapHold(keycode.Ctl(keycode.PageUp), keycode.LAlt)

	th.OnRelease(&State{Count: 1}, h)
	th.OnRelease(&State{Count: 1, Finished: true}, h)
	th.OnRelease(&State{}, h)
	assert.Equal(t, []string{op("tap", keycode.Ctl(keycode.PageUp))}, h.ops)
}

func TestTapHoldDoubleHoldRegistersTap(t *testing.T) {
	h := &fakeHost{}
	th := NewTapHold(keycode.A, keycode.B)
	th.OnResolve(&State{Count: 2, Pressed: true}, h)
	assert.Equal(t, keycode.A, th.Held())
}

// ==================== Quad Tests ====================

func TestQuadResetActions(t *testing.T) {
	tests := []struct {
		name    string
		quad    *Quad
		count   uint8
		pressed bool
		want    []string
	}{
		{
			name:  "single tap keycode",
			quad:  NewQuad(keycode.Escape, Key(keycode.Escape), Key(keycode.Ctl(keycode.Sft(keycode.Escape))), Key(keycode.Ctl(keycode.Alt(keycode.Delete)))),
			count: 1,
			want:  []string{op("tap", keycode.Escape)},
		},
		{
			name:    "double hold keycode",
			quad:    NewQuad(keycode.Escape, Key(keycode.Escape), Key(keycode.Ctl(keycode.Sft(keycode.Escape))), Key(keycode.Ctl(keycode.Alt(keycode.Delete)))),
			count:   2,
			pressed: true,
			want: []string{
				op("reg", keycode.Ctl(keycode.Alt(keycode.Delete))),
				op("unreg", keycode.Ctl(keycode.Alt(keycode.Delete))),
			},
		},
		{
			name:    "single hold layer",
			quad:    NewQuad(keycode.F11, LayerHold(2), Key(keycode.MyComputer), LayerHold(3)),
			count:   1,
			pressed: true,
			want:    []string{"on 2", "off 2"},
		},
		{
			name:  "double tap toggle",
			quad:  NewQuadFull(LayerToggle(5), LayerHold(5), LayerToggle(1), LayerHold(1)),
			count: 2,
			want:  []string{"invert 1"},
		},
		{
			name:    "multi hold is inert",
			quad:    NewQuad(keycode.F11, LayerHold(2), Key(keycode.MyComputer), LayerHold(3)),
			count:   3,
			pressed: true,
			want:    nil,
		},
		{
			name:  "multi tap is inert",
			quad:  NewQuad(keycode.F11, LayerHold(2), Key(keycode.MyComputer), LayerHold(3)),
			count: 4,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHost{}
			st := &State{Count: tt.count, Pressed: tt.pressed, Finished: true}
			tt.quad.OnResolve(st, h)
			tt.quad.OnReset(st, h)
			assert.Equal(t, tt.want, h.ops)
			assert.Equal(t, None, tt.quad.Classification())
		})
	}
}

func TestNewTriRepeatsDoubleTap(t *testing.T) {
	q := NewTri(keycode.Ctl(keycode.L), Key(keycode.RCtrl), Key(keycode.SftGui(keycode.C)))
	assert.Equal(t, q.DoubleTap, q.DoubleHold)
	assert.Equal(t, Key(keycode.Ctl(keycode.L)), q.SingleTap)
}

// ==================== Double Tests ====================

func TestDouble(t *testing.T) {
	h := &fakeHost{}
	d := NewDouble(keycode.Home, keycode.Ctl(keycode.Sft(keycode.T)))

	st := &State{Count: 1, Pressed: true}
	d.OnTap(st, h)
	assert.False(t, st.Finished)
	st.Count = 2
	d.OnTap(st, h)
	assert.True(t, st.Finished)
	d.OnReset(st, h)

	assert.Equal(t, []string{
		op("reg", keycode.Ctl(keycode.Sft(keycode.T))),
		op("unreg", keycode.Ctl(keycode.Sft(keycode.T))),
	}, h.ops)
}

// ==================== Engine Tests ====================

func newTestEngine(h *fakeHost) *Engine {
	actions := []Action{
		NewTapHold(keycode.Ctl(keycode.Backspace), keycode.Backslash),
		NewQuadFull(LayerToggle(5), LayerHold(5), LayerToggle(1), LayerHold(1)),
		NewDouble(keycode.End, keycode.Ctl(keycode.W)),
		nil,
	}
	return NewEngine(h, actions, WithTerm(func(kc keycode.Keycode) uint16 {
		if kc == keycode.TD(0) {
			return 175
		}
		return 200
	}))
}

func TestEngineTapHoldTap(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	assert.False(t, e.Process(keycode.TD(0), true, 0))
	assert.Equal(t, keycode.TD(0), e.Active())
	assert.False(t, e.Process(keycode.TD(0), false, 50))
	assert.Equal(t, []string{op("tap", keycode.Ctl(keycode.Backspace))}, h.ops)

	e.Task(175)
	assert.Equal(t, keycode.TD(0), e.Active(), "term is inclusive")
	e.Task(176)
	assert.Equal(t, keycode.No, e.Active())
	assert.Equal(t, State{}, e.State(0))
	assert.Len(t, h.ops, 1)
}

func TestEngineTapHoldHold(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(0), true, 0)
	e.Task(300)
	assert.Equal(t, []string{op("reg", keycode.Backslash)}, h.ops)
	assert.True(t, e.State(0).Finished)

	e.Task(400)
	assert.Len(t, h.ops, 1, "reset waits for release")

	e.Process(keycode.TD(0), false, 500)
	assert.Equal(t, []string{op("reg", keycode.Backslash), op("unreg", keycode.Backslash)}, h.ops)
	assert.Equal(t, keycode.No, e.Active())
}

func TestEngineQuadLayerToggle(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(1), true, 0)
	e.Process(keycode.TD(1), false, 20)
	e.Process(keycode.TD(1), true, 40)
	e.Process(keycode.TD(1), false, 60)
	e.Task(261)

	assert.Equal(t, []string{"invert 1"}, h.ops)
	assert.Equal(t, uint32(1<<1), h.layers)
}

func TestEngineQuadLayerHold(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(1), true, 0)
	e.Task(201)
	assert.Equal(t, uint32(1<<5), h.layers)
	e.Process(keycode.TD(1), false, 800)
	assert.Equal(t, uint32(0), h.layers)
}

func TestEngineInterrupt(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(1), true, 0)
	e.Process(keycode.TD(1), false, 10)

	assert.True(t, e.Process(keycode.A, true, 20), "other keys continue processing")
	assert.Equal(t, []string{"invert 5"}, h.ops, "interrupt finishes and resets a released dance")
	assert.Equal(t, keycode.No, e.Active())
}

func TestEngineInterruptWhileHeld(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(1), true, 0)
	e.Process(keycode.J, true, 20)
	assert.Equal(t, []string{"on 5"}, h.ops)
	assert.True(t, e.State(1).Interrupted)
	assert.Equal(t, keycode.J, e.State(1).Interrupter)

	e.Task(1000)
	assert.Len(t, h.ops, 1)

	e.Process(keycode.TD(1), false, 1100)
	assert.Equal(t, []string{"on 5", "off 5"}, h.ops)
}

func TestEngineDoubleFiresImmediately(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(2), true, 0)
	e.Process(keycode.TD(2), false, 10)
	e.Process(keycode.TD(2), true, 20)
	require.Equal(t, []string{op("reg", keycode.Ctl(keycode.W))}, h.ops)
	assert.Equal(t, keycode.No, e.Active())

	e.Process(keycode.TD(2), false, 30)
	assert.Equal(t, op("unreg", keycode.Ctl(keycode.W)), h.ops[1])
}

func TestEngineDoubleSingle(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(2), true, 0)
	e.Process(keycode.TD(2), false, 10)
	e.Task(211)
	assert.Equal(t, []string{op("reg", keycode.End), op("unreg", keycode.End)}, h.ops)
}

func TestEngineIgnoresUnboundKeys(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	assert.True(t, e.Process(keycode.TD(3), true, 0))
	assert.True(t, e.Process(keycode.TD(9), true, 0))
	assert.Equal(t, keycode.No, e.Active())
	assert.Equal(t, State{}, e.State(200))
	assert.Equal(t, 4, e.Len())
}

func TestEngineNewDanceInterruptsOther(t *testing.T) {
	h := &fakeHost{}
	e := newTestEngine(h)

	e.Process(keycode.TD(0), true, 0)
	e.Process(keycode.TD(0), false, 10)
	e.Process(keycode.TD(2), true, 20)

	assert.Equal(t, keycode.TD(2), e.Active())
	assert.Equal(t, State{}, e.State(0))
	assert.Equal(t, []string{op("tap", keycode.Ctl(keycode.Backspace))}, h.ops)
}
