// Package wpm estimates typing speed from recent key presses.
package wpm

import (
	"github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/timer"
)

const (
	// Window is the span of presses the estimate covers, in milliseconds.
	Window = 5000

	// CharsPerWord is the conventional word length.
	CharsPerWord = 5

	buckets  = 10
	bucketMs = Window / buckets
)

// Meter counts typing key presses in a sliding window of fixed buckets.
type Meter struct {
	clock    timer.Clock
	counts   [buckets]uint16
	epochs   [buckets]uint32
	pinned   bool
	override uint8
}

// NewMeter creates a meter reading time from clock.
func NewMeter(clock timer.Clock) *Meter {
	return &Meter{clock: clock}
}

// Record counts a press of kc if it types a letter or digit.
func (m *Meter) Record(kc keycode.Keycode) {
	if !kc.IsAlphanumeric() {
		return
	}
	epoch := m.clock.Now() / bucketMs
	i := epoch % buckets
	if m.epochs[i] != epoch {
		m.epochs[i] = epoch
		m.counts[i] = 0
	}
	if m.counts[i] < 0xFFFF {
		m.counts[i]++
	}
}

// CurrentWPM returns the speed over the last Window, capped at 255.
func (m *Meter) CurrentWPM() uint8 {
	if m.pinned {
		return m.override
	}
	epoch := m.clock.Now() / bucketMs
	total := 0
	for i := range m.counts {
		if epoch-m.epochs[i] < buckets {
			total += int(m.counts[i])
		}
	}
	wpm := total * 60000 / (Window * CharsPerWord)
	if wpm > 255 {
		wpm = 255
	}
	return uint8(wpm)
}

// Override pins the reported speed to n. A negative n returns to measuring.
func (m *Meter) Override(n int) {
	switch {
	case n < 0:
		m.pinned = false
	case n > 255:
		m.pinned, m.override = true, 255
	default:
		m.pinned, m.override = true, uint8(n)
	}
}

// Clear forgets every recorded press.
func (m *Meter) Clear() {
	m.counts = [buckets]uint16{}
	m.epochs = [buckets]uint32{}
}
