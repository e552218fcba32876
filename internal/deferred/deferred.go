// Package deferred runs callbacks at a later tick without blocking the
// keyboard loop.
//
// The Scheduler holds a fixed table of executors. Each executor fires once
// its trigger time is reached; a non-zero return value reschedules it that
// many milliseconds after the previous trigger, zero retires it. Everything
// runs on the caller's goroutine from Task.
package deferred

import "github.com/dshills/odin75/internal/timer"

// MaxExecutors is the size of the executor table.
const MaxExecutors = 8

// Token identifies a scheduled executor.
type Token uint8

// InvalidToken is returned when nothing was scheduled.
const InvalidToken Token = 0

// Executor is a deferred callback. Execute receives the time it was due and
// returns the delay until its next run, or 0 to stop.
type Executor interface {
	Execute(trigger uint32) uint32
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(trigger uint32) uint32

// Execute implements Executor.
func (f ExecutorFunc) Execute(trigger uint32) uint32 {
	return f(trigger)
}

type slot struct {
	token   Token
	trigger uint32
	exec    Executor
}

// Scheduler is a fixed-capacity deferred executor table.
type Scheduler struct {
	clock   timer.Clock
	slots   [MaxExecutors]slot
	next    Token
	lastRun uint32
	ran     bool
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock timer.Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Schedule arranges for exec to run delay milliseconds from now. It returns
// InvalidToken when delay is zero, exec is nil or the table is full.
func (s *Scheduler) Schedule(delay uint32, exec Executor) Token {
	if delay == 0 || exec == nil {
		return InvalidToken
	}
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.token != InvalidToken {
			continue
		}
		sl.token = s.nextToken()
		sl.trigger = s.clock.Now() + delay
		sl.exec = exec
		return sl.token
	}
	return InvalidToken
}

// Extend moves a pending executor's trigger to delay milliseconds from now.
// It reports whether the token was found.
func (s *Scheduler) Extend(token Token, delay uint32) bool {
	if sl := s.find(token); sl != nil && delay > 0 {
		sl.trigger = s.clock.Now() + delay
		return true
	}
	return false
}

// Cancel stops a pending executor. Unknown, retired and invalid tokens
// return false.
func (s *Scheduler) Cancel(token Token) bool {
	if sl := s.find(token); sl != nil {
		*sl = slot{}
		return true
	}
	return false
}

// Pending reports whether token refers to a scheduled executor.
func (s *Scheduler) Pending(token Token) bool {
	return s.find(token) != nil
}

// Len returns the number of scheduled executors.
func (s *Scheduler) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].token != InvalidToken {
			n++
		}
	}
	return n
}

// Task fires every due executor. It does nothing if called twice within the
// same millisecond.
func (s *Scheduler) Task() {
	now := s.clock.Now()
	if s.ran && now == s.lastRun {
		return
	}
	s.ran = true
	s.lastRun = now

	for i := range s.slots {
		sl := &s.slots[i]
		if sl.token == InvalidToken || int32(now-sl.trigger) < 0 {
			continue
		}

		token := sl.token
		delay := sl.exec.Execute(sl.trigger)

		// The executor may have cancelled itself or been replaced.
		if sl.token != token {
			continue
		}
		if delay == 0 {
			*sl = slot{}
			continue
		}
		sl.trigger += delay
	}
}

func (s *Scheduler) find(token Token) *slot {
	if token == InvalidToken {
		return nil
	}
	for i := range s.slots {
		if s.slots[i].token == token {
			return &s.slots[i]
		}
	}
	return nil
}

// nextToken returns a token that is neither invalid nor in use.
func (s *Scheduler) nextToken() Token {
	for {
		s.next++
		if s.next == InvalidToken {
			continue
		}
		if s.find(s.next) == nil {
			return s.next
		}
	}
}
