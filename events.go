package skel

// EventType identifies a point in a skeleton's lifecycle.
type EventType uint8

const (
	EventInstanced EventType = iota // the instancing pass completed
	EventTick                       // a tick moved the skeleton
	EventFinished                   // the animation completed or aborted
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventInstanced:
		return "instanced"
	case EventTick:
		return "tick"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Placement is the transform written to one bone's instance during a tick.
type Placement struct {
	Bone      *Bone
	Transform Transform
	Joint     Vec3
}

// Event carries lifecycle data to an EventSink.
type Event struct {
	Type     EventType
	Skeleton string
	Tick     int
	Clock    float64
	// Placements lists every bone placed by an EventTick, parents first.
	// The slice is reused by the next tick; copy it to keep it.
	Placements []Placement
	// Err is set on an EventFinished caused by a failed placement.
	Err error
}

// EventSink receives skeleton events. Events are emitted synchronously from
// the tick callback.
type EventSink interface {
	EmitEvent(event Event)
}

// MultiSink fans events out to every non-nil sink in order.
func MultiSink(sinks ...EventSink) EventSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []EventSink

func (m multiSink) EmitEvent(event Event) {
	for _, s := range m {
		s.EmitEvent(event)
	}
}

// ClonePlacements returns a copy of the event's placements that survives the
// next tick.
func (e Event) ClonePlacements() []Placement {
	if len(e.Placements) == 0 {
		return nil
	}
	out := make([]Placement, len(e.Placements))
	copy(out, e.Placements)
	return out
}

func (s *Skeleton) emit(event Event) {
	if s.sink == nil {
		return
	}
	event.Skeleton = s.name
	event.Tick = s.ticks
	event.Clock = s.Clock()
	s.sink.EmitEvent(event)
}
