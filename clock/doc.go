// Package clock provides skel.Scheduler implementations.
//
// Manual moves only when told to and is the driver for tests, fast-forward
// runs and frame-driven hosts such as ebitenview. Realtime ticks against the
// wall clock.
package clock
