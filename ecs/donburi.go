package ecs

import (
	"github.com/phanxgames/skel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType is the Donburi event type for skeleton events.
// Subscribe to this in your ECS systems to receive ticks and completions.
var AnimationEventType = events.NewEventType[skel.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are published to AnimationEventType and can be consumed with
// events.Subscribe and ProcessEvents. Published events own their placements,
// so they stay valid until processed.
func NewDonburiSink(world donburi.World) skel.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event skel.Event) {
	event.Placements = event.ClonePlacements()
	AnimationEventType.Publish(s.world, event)
}
