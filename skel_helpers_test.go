package skel

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec3, tol float64) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, tol) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Transform, tol float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
			return
		}
	}
}

// --- fake scene ---

type fakeDef struct {
	name  string
	group bool
}

type fakeInstance struct {
	def       *fakeDef
	parent    *fakeDef
	transform Transform
	sets      int
}

// fakeScene records every call the core makes.
type fakeScene struct {
	defs      map[*fakeDef]bool
	instances []*fakeInstance
	created   []string
	setCalls  int

	failCreate string // definition name whose instancing fails
	failSetAt  int    // SetInstanceTransform call number that fails, 1-based
}

func newFakeScene() *fakeScene {
	return &fakeScene{defs: make(map[*fakeDef]bool)}
}

func (f *fakeScene) def(name string) *fakeDef {
	d := &fakeDef{name: name}
	f.defs[d] = true
	return d
}

func (f *fakeScene) NewGroup(name string) (Definition, error) {
	d := &fakeDef{name: name, group: true}
	f.defs[d] = true
	return d, nil
}

func (f *fakeScene) IsDefinition(def Definition) bool {
	d, ok := def.(*fakeDef)
	return ok && f.defs[d]
}

func (f *fakeScene) CreateInstance(def Definition, t Transform, parent Definition) (Instance, error) {
	d := def.(*fakeDef)
	if d.name == f.failCreate {
		return nil, errors.New("boom")
	}
	var p *fakeDef
	if parent != nil {
		p = parent.(*fakeDef)
	}
	inst := &fakeInstance{def: d, parent: p, transform: t}
	f.instances = append(f.instances, inst)
	f.created = append(f.created, d.name)
	return inst, nil
}

func (f *fakeScene) SetInstanceTransform(inst Instance, t Transform) error {
	f.setCalls++
	if f.failSetAt > 0 && f.setCalls == f.failSetAt {
		return fmt.Errorf("set %d failed", f.setCalls)
	}
	i := inst.(*fakeInstance)
	i.transform = t
	i.sets++
	return nil
}

// --- fake scheduler ---

type fakeScheduler struct {
	interval time.Duration
	fn       func()
	id       TimerID
	stopped  []TimerID
	starts   int
}

func (f *fakeScheduler) StartTimer(interval time.Duration, fn func()) TimerID {
	f.starts++
	f.interval = interval
	f.fn = fn
	f.id = TimerID(f.starts)
	return f.id
}

func (f *fakeScheduler) StopTimer(id TimerID) {
	f.stopped = append(f.stopped, id)
}

// fire invokes the registered callback up to n times, stopping early once the
// timer has been stopped. Returns the number of invocations.
func (f *fakeScheduler) fire(n int) int {
	fired := 0
	for i := 0; i < n && len(f.stopped) == 0; i++ {
		f.fn()
		fired++
	}
	return fired
}

// --- recording sink ---

type recordingSink struct {
	events []Event
}

func (r *recordingSink) EmitEvent(e Event) {
	e.Placements = e.ClonePlacements()
	r.events = append(r.events, e)
}

func (r *recordingSink) count(typ EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
