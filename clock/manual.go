package clock

import (
	"time"

	"github.com/phanxgames/skel"
)

// Manual is a deterministic scheduler. Time only moves when Advance or Step
// is called, and due callbacks run synchronously on the caller's goroutine.
//
// Manual is not safe for concurrent use.
type Manual struct {
	now    time.Duration
	nextID skel.TimerID
	timers []*manualTimer
}

type manualTimer struct {
	id       skel.TimerID
	interval time.Duration
	due      time.Duration
	fn       func()
}

var _ skel.Scheduler = (*Manual)(nil)

// NewManual creates a manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// StartTimer registers fn to run every interval, first at Now()+interval.
// Intervals below one nanosecond are raised to one nanosecond.
func (m *Manual) StartTimer(interval time.Duration, fn func()) skel.TimerID {
	if interval <= 0 {
		interval = 1
	}
	m.nextID++
	m.timers = append(m.timers, &manualTimer{
		id:       m.nextID,
		interval: interval,
		due:      m.now + interval,
		fn:       fn,
	})
	return m.nextID
}

// StopTimer cancels a timer. Safe to call from inside the timer's own
// callback and for unknown or already stopped ids.
func (m *Manual) StopTimer(id skel.TimerID) {
	for i, t := range m.timers {
		if t.id == id {
			copy(m.timers[i:], m.timers[i+1:])
			m.timers[len(m.timers)-1] = nil
			m.timers = m.timers[:len(m.timers)-1]
			return
		}
	}
}

// Now returns the scheduler's current time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of running timers.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// Step jumps to the next due timer and fires it once. Returns false when no
// timer is running.
func (m *Manual) Step() bool {
	t := m.next()
	if t == nil {
		return false
	}
	m.fire(t)
	return true
}

// Advance moves time forward by d, firing every callback that falls due on
// the way in due order, and returns how many fired.
func (m *Manual) Advance(d time.Duration) int {
	end := m.now + d
	fired := 0
	for {
		t := m.next()
		if t == nil || t.due > end {
			break
		}
		m.fire(t)
		fired++
	}
	m.now = end
	return fired
}

// RunUntilIdle steps until no timer is running or limit callbacks have
// fired, and returns how many fired.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit && m.Step() {
		fired++
	}
	return fired
}

func (m *Manual) fire(t *manualTimer) {
	if t.due > m.now {
		m.now = t.due
	}
	t.due += t.interval
	t.fn()
}

// next returns the running timer due soonest; ties go to the oldest timer.
func (m *Manual) next() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.due < best.due {
			best = t
		}
	}
	return best
}
