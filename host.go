package skel

import "time"

// Definition is an opaque handle to a part's shape definition. Only the Scene
// that created it knows what it is.
type Definition any

// Instance is an opaque handle to a placed copy of a Definition.
type Instance any

// Scene is the document that owns definitions and placed instances.
type Scene interface {
	// NewGroup creates an empty definition that other instances can be
	// placed into. Each Skeleton creates one for its bones.
	NewGroup(name string) (Definition, error)

	// IsDefinition reports whether def is a shape definition of this scene.
	IsDefinition(def Definition) bool

	// CreateInstance places def at t inside parent. A nil parent places the
	// instance at the top level of the scene.
	CreateInstance(def Definition, t Transform, parent Definition) (Instance, error)

	// SetInstanceTransform overwrites the placement of inst.
	SetInstanceTransform(inst Instance, t Transform) error
}

// TimerID identifies a timer started by a Scheduler.
type TimerID uint64

// Scheduler is a fixed-rate repeating timer service. Callbacks for one timer
// never overlap: each must return before the next fires.
type Scheduler interface {
	StartTimer(interval time.Duration, fn func()) TimerID
	StopTimer(id TimerID)
}
