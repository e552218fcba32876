package macro

// RecordState is the state of a dynamic macro slot.
type RecordState uint8

// Slot states.
const (
	Empty RecordState = iota
	Recording
	Set
)

func (s RecordState) String() string {
	switch s {
	case Recording:
		return "Recording"
	case Set:
		return "Set"
	default:
		return "Empty"
	}
}

// SlotStatus summarises one slot.
type SlotStatus struct {
	State RecordState
	Size  int
}

// Status tracks both dynamic macro slots. Direction +1 is slot 1 and -1 is
// slot 2, following the recorder's convention.
type Status struct {
	count int
	slots [2]SlotStatus
}

func slotIndex(dir int8) int {
	switch dir {
	case 1:
		return 0
	case -1:
		return 1
	default:
		return -1
	}
}

// RecordStart marks the slot as recording and restarts the key count.
func (s *Status) RecordStart(dir int8) {
	s.count = 0
	if i := slotIndex(dir); i >= 0 {
		s.slots[i].State = Recording
	}
}

// RecordKey counts one recorded key event.
func (s *Status) RecordKey(int8) {
	s.count++
}

// RecordEnd stores the outcome. The stop key is itself recorded, so the slot
// only counts as set with more than one event, and the size is the number
// of press and release pairs excluding it.
func (s *Status) RecordEnd(dir int8) {
	i := slotIndex(dir)
	if i < 0 {
		return
	}
	if s.count > 1 {
		s.slots[i].State = Set
	} else {
		s.slots[i].State = Empty
	}
	s.slots[i].Size = (s.count - 1) / 2
}

// Slot returns the status of slot 1 or 2.
func (s *Status) Slot(n int) SlotStatus {
	if n < 1 || n > 2 {
		return SlotStatus{}
	}
	return s.slots[n-1]
}

// Clear empties both slots.
func (s *Status) Clear() {
	*s = Status{}
}
