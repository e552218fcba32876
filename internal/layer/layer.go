// Package layer tracks which keymap layers are active.
package layer

import "math/bits"

// MaxLayers is the number of layers a State can hold.
const MaxLayers = 32

// Info names a layer for the status screen. Prefix layers are overlays whose
// name is always listed when active, ahead of the highest regular layer.
type Info struct {
	Name   string
	Prefix bool
}

// State is a bitmask of active layers. The base layer is implied when no
// other layer is on.
type State uint32

// On activates layer n.
func (s *State) On(n uint8) {
	if n < MaxLayers {
		*s |= 1 << n
	}
}

// Off deactivates layer n.
func (s *State) Off(n uint8) {
	if n < MaxLayers {
		*s &^= 1 << n
	}
}

// Invert toggles layer n.
func (s *State) Invert(n uint8) {
	if n < MaxLayers {
		*s ^= 1 << n
	}
}

// Clear deactivates every layer.
func (s *State) Clear() {
	*s = 0
}

// Is reports whether layer n is active. Layer 0 is active when nothing else
// is.
func (s State) Is(n uint8) bool {
	if n == 0 && s == 0 {
		return true
	}
	return n < MaxLayers && s&(1<<n) != 0
}

// Highest returns the highest active layer, or 0.
func (s State) Highest() uint8 {
	if s == 0 {
		return 0
	}
	return uint8(bits.Len32(uint32(s)) - 1)
}
