// Package timer provides the 32-bit millisecond clock the keyboard core runs
// on. Elapsed intervals are computed with unsigned subtraction so they stay
// correct across the ~49 day wraparound.
package timer

import (
	"sync/atomic"
	"time"
)

// Clock returns the current time in milliseconds.
type Clock interface {
	Now() uint32
}

// Elapsed returns the milliseconds from mark to now.
func Elapsed(now, mark uint32) uint32 {
	return now - mark
}

// Since returns the milliseconds from mark to the clock's current time.
func Since(c Clock, mark uint32) uint32 {
	return Elapsed(c.Now(), mark)
}

// System is a Clock backed by the monotonic wall clock, counting from its
// creation.
type System struct {
	start time.Time
}

// NewSystem returns a clock starting at zero.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now implements Clock.
func (s *System) Now() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}

// Manual is a Clock advanced explicitly. It is safe for concurrent use.
type Manual struct {
	now atomic.Uint32
}

// NewManual returns a manual clock set to start.
func NewManual(start uint32) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

// Now implements Clock.
func (m *Manual) Now() uint32 {
	return m.now.Load()
}

// Advance moves the clock forward by ms and returns the new time.
func (m *Manual) Advance(ms uint32) uint32 {
	return m.now.Add(ms)
}

// Set moves the clock to an absolute time.
func (m *Manual) Set(now uint32) {
	m.now.Store(now)
}
