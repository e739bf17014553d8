// Package ecs provides ECS adapters for skel's animation events.
//
// The primary adapter is [NewDonburiSink], which bridges skeleton lifecycle
// events (instanced, tick, finished) into a [Donburi] world as typed events.
// Subscribe to [AnimationEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	sk, err := skel.NewSkeleton("arm", stage, sched, skel.WithEventSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
