package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateOnOff(t *testing.T) {
	var s State
	assert.True(t, s.Is(0))
	assert.Equal(t, uint8(0), s.Highest())

	s.On(5)
	assert.True(t, s.Is(5))
	assert.False(t, s.Is(0), "base is implied only when nothing else is on")
	assert.Equal(t, uint8(5), s.Highest())

	s.On(2)
	s.Off(5)
	assert.Equal(t, uint8(2), s.Highest())
	s.Off(2)
	assert.True(t, s.Is(0))
}

func TestStateInvert(t *testing.T) {
	var s State
	s.Invert(1)
	assert.True(t, s.Is(1))
	s.Invert(1)
	assert.False(t, s.Is(1))
}

func TestStateOutOfRange(t *testing.T) {
	var s State
	s.On(40)
	s.Invert(32)
	assert.Equal(t, State(0), s)
	assert.False(t, s.Is(40))

	s.On(31)
	s.Clear()
	assert.Equal(t, State(0), s)
}
