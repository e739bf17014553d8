package clock

import (
	"context"
	"sync"
	"time"

	"github.com/phanxgames/skel"
)

// minRealtimeInterval is the shortest interval a Realtime timer will tick at.
const minRealtimeInterval = time.Millisecond

// Realtime is a wall-clock scheduler. Each timer runs on its own goroutine,
// so callbacks of one timer never overlap. All timers stop when the context
// passed to NewRealtime is done.
type Realtime struct {
	ctx context.Context

	mu     sync.Mutex
	nextID skel.TimerID
	timers map[skel.TimerID]chan struct{}
	wg     sync.WaitGroup
}

var _ skel.Scheduler = (*Realtime)(nil)

// NewRealtime creates a wall-clock scheduler bound to ctx.
func NewRealtime(ctx context.Context) *Realtime {
	return &Realtime{
		ctx:    ctx,
		timers: make(map[skel.TimerID]chan struct{}),
	}
}

// StartTimer runs fn every interval until StopTimer or context cancellation.
func (r *Realtime) StartTimer(interval time.Duration, fn func()) skel.TimerID {
	if interval < minRealtimeInterval {
		interval = minRealtimeInterval
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	stop := make(chan struct{})
	r.timers[id] = stop
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				r.StopTimer(id)
				return
			case <-stop:
				return
			case <-ticker.C:
				// A stop can race with a tick that is already pending.
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return id
}

// StopTimer cancels a timer. Safe to call from inside the timer's own
// callback and for unknown or already stopped ids.
func (r *Realtime) StopTimer(id skel.TimerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stop, ok := r.timers[id]; ok {
		close(stop)
		delete(r.timers, id)
	}
}

// Pending returns the number of running timers.
func (r *Realtime) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Wait blocks until every timer goroutine has exited.
func (r *Realtime) Wait() {
	r.wg.Wait()
}
