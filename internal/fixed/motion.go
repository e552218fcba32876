package fixed

// Snap scroll tuning.
const (
	// SnapPitch is the grid spacing, in fixed point, a snapping scroll settles on.
	SnapPitch = 104 * FPDiv

	// SnapPull is the per-frame acceleration toward the grid while idle.
	SnapPull = 50

	// IdleDecay is the velocity decay while idle, in FPDiv units.
	IdleDecay = 50

	// TypingDecay is the velocity decay while typing, in FPDiv units.
	TypingDecay = 10

	// SnapSpeed is the largest velocity at which a scroll may snap to the grid.
	SnapSpeed = 100
)

// Motion is the persistent state of one scrolling scene. Position is kept in
// [0, extent*FPDiv) by every step.
type Motion struct {
	Position int
	Velocity int
	Target   int
}

// Pixel returns the whole-pixel offset of the current position.
func (m *Motion) Pixel() int {
	return m.Position / FPDiv
}

// Reset returns the scene to its origin.
func (m *Motion) Reset() {
	*m = Motion{}
}

// Scroll advances a looping scroll by velocity and wraps within extent
// pixels.
func (m *Motion) Scroll(velocity, extent int) int {
	m.Position = Wrap(m.Position+velocity, extent*FPDiv)
	return m.Pixel()
}

// Reverser flips scroll direction each time the typist stops. The flip
// happens on the first idle frame after a period of typing and not again
// until typing resumes.
type Reverser struct {
	direction int
	stopped   bool
}

// NewReverser returns a reverser heading forward and considered stopped.
func NewReverser() Reverser {
	return Reverser{direction: 1, stopped: true}
}

// Direction returns +1 or -1.
func (r *Reverser) Direction() int {
	if r.direction == 0 {
		return 1
	}
	return r.direction
}

// Observe updates the hysteresis from the current smoothed speed and returns
// the direction to use for this frame.
func (r *Reverser) Observe(ema int) int {
	if r.direction == 0 {
		*r = NewReverser()
	}
	if ema < FPDiv && !r.stopped {
		r.direction = -r.direction
		r.stopped = true
	} else if ema >= FPDiv {
		r.stopped = false
	}
	return r.direction
}

// ReversingScroll advances a looping scroll whose direction flips whenever
// typing stops.
func (m *Motion) ReversingScroll(r *Reverser, ema, extent int) int {
	dir := r.Observe(ema)
	return m.Scroll(ema/WPMDiv*dir, extent)
}

// SnapScroll advances a scroll that coasts while typing and, when idle,
// decelerates and settles exactly on the nearest multiple of SnapPitch.
func (m *Motion) SnapScroll(ema, extent int) int {
	instant := ema / WPMDiv
	if Abs(m.Velocity) <= Abs(instant) {
		m.Velocity = instant
	}

	m.Target = ClosestMultiple(m.Position, SnapPitch)
	if ema < FPDiv {
		m.Velocity += SnapPull * Sign(m.Target-m.Position)
		m.Velocity -= IdleDecay * m.Velocity / FPDiv
	} else {
		m.Velocity -= TypingDecay * m.Velocity / FPDiv
	}

	if Abs(m.Position-m.Target) <= FPDiv && Abs(m.Velocity) <= SnapSpeed {
		m.Position = Wrap(m.Target, extent*FPDiv)
		m.Velocity = 0
	} else {
		m.Position = Wrap(m.Position+m.Velocity, extent*FPDiv)
	}
	return m.Pixel()
}
