package skel

import "fmt"

// Keyframe is one segment of a bone's rotation track: rotate about Axis until
// Angle degrees have been covered by End seconds.
type Keyframe struct {
	Axis  Vec3
	Angle float64 // degrees covered by the segment, as supplied
	End   float64 // absolute end-time in seconds

	// Step is the per-tick rotation in degrees. Zero until the instancing
	// pass normalizes the track.
	Step float64
}

// binding is the visual state of a bone. The instancing pass is the only
// transition from unbound to bound.
type binding interface {
	definition() Definition
}

type unbound struct {
	def Definition
}

func (u unbound) definition() Definition { return u.def }

type bound struct {
	def  Definition
	inst Instance
}

func (b bound) definition() Definition { return b.def }

// Bone is a rigid part of a Skeleton. Bones are created with
// Skeleton.SetRoot and Bone.AddBone only.
type Bone struct {
	ID   uint32
	Name string

	owner    *Skeleton
	parent   *Bone
	children []*Bone

	visual binding
	rest   Transform
	joint  Vec3
	pose   Transform
	track  []Keyframe
}

// BoneOption configures a bone at creation.
type BoneOption func(*Bone)

// WithTransform sets the rest transform that places the bone relative to its
// parent. Defaults to the identity.
func WithTransform(t Transform) BoneOption {
	return func(b *Bone) {
		b.rest = t
	}
}

// WithJoint sets the point the bone rotates around, in its rest frame.
// Defaults to the origin.
func WithJoint(p Vec3) BoneOption {
	return func(b *Bone) {
		b.joint = p
	}
}

// WithName names the bone for logs and lookups.
func WithName(name string) BoneOption {
	return func(b *Bone) {
		b.Name = name
	}
}

func newBone(owner *Skeleton, parent *Bone, def Definition, opts []BoneOption) *Bone {
	b := &Bone{
		owner:  owner,
		parent: parent,
		visual: unbound{def: def},
		rest:   Identity(),
		pose:   Identity(),
	}
	if owner != nil {
		b.ID = owner.nextBoneID()
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Name == "" {
		b.Name = fmt.Sprintf("bone-%d", b.ID)
	}
	b.pose = b.rest
	return b
}

// --- Hierarchy ---

// AddBone creates a child bone showing def and appends it to this bone's
// children.
func (b *Bone) AddBone(def Definition, opts ...BoneOption) *Bone {
	child := newBone(b.owner, b, def, opts)
	b.children = append(b.children, child)
	if b.owner != nil && b.owner.debug {
		b.owner.debugCheckTreeDepth(child)
	}
	return child
}

// Parent returns the parent bone, or nil for the root.
func (b *Bone) Parent() *Bone {
	return b.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (b *Bone) Children() []*Bone {
	return b.children
}

// NumChildren returns the number of children.
func (b *Bone) NumChildren() int {
	return len(b.children)
}

// Walk calls fn for b and every descendant, parents before children. Walking
// stops early when fn returns false.
func (b *Bone) Walk(fn func(*Bone) bool) bool {
	if !fn(b) {
		return false
	}
	for _, child := range b.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// --- Keyframes ---

// AddKeyframe appends a rotation of angleDegrees about axis, to be completed
// by endSeconds. End-times must be non-decreasing across calls; out-of-order
// keyframes are kept as given and simply never become active.
func (b *Bone) AddKeyframe(axis Vec3, angleDegrees, endSeconds float64) {
	b.track = append(b.track, Keyframe{Axis: axis, Angle: angleDegrees, End: endSeconds})
}

// Track returns the bone's keyframes. The returned slice MUST NOT be mutated by the caller.
func (b *Bone) Track() []Keyframe {
	return b.track
}

// normalizeTrack turns each keyframe's absolute angle into a per-tick step.
// Segments with no duration get a zero step; they can never be active.
func (b *Bone) normalizeTrack(interval float64) {
	prev := 0.0
	for i := range b.track {
		k := &b.track[i]
		if d := k.End - prev; d > 0 {
			k.Step = k.Angle * interval / d
		} else {
			k.Step = 0
		}
		prev = k.End
	}
}

// activeKeyframe returns the first keyframe whose end-time has not passed.
func (b *Bone) activeKeyframe(clock, tolerance float64) (Keyframe, bool) {
	for _, k := range b.track {
		if clock <= k.End+tolerance {
			return k, true
		}
	}
	return Keyframe{}, false
}

// --- State ---

// Definition returns the shape definition the bone was created with.
func (b *Bone) Definition() Definition {
	return b.visual.definition()
}

// Instance returns the bone's placed instance once the instancing pass has
// run.
func (b *Bone) Instance() (Instance, bool) {
	if v, ok := b.visual.(bound); ok {
		return v.inst, true
	}
	return nil, false
}

// Bound reports whether the bone has been instanced.
func (b *Bone) Bound() bool {
	_, ok := b.visual.(bound)
	return ok
}

// RestTransform returns the transform applied once at instancing.
func (b *Bone) RestTransform() Transform {
	return b.rest
}

// Joint returns the current rotation center. Before instancing it is in the
// rest frame; afterwards it follows every transform applied to the bone.
func (b *Bone) Joint() Vec3 {
	return b.joint
}

// Pose returns the cumulative placement last written to the bone's instance.
// It equals the rest transform until the first tick.
func (b *Bone) Pose() Transform {
	return b.pose
}

// bind places the bone's definition in the scene. Fails with
// ErrAlreadyInstanced if the bone is already bound.
func (b *Bone) bind(scene Scene, parent Definition) error {
	u, ok := b.visual.(unbound)
	if !ok {
		return fmt.Errorf("bone %q: %w", b.Name, ErrAlreadyInstanced)
	}
	inst, err := scene.CreateInstance(u.def, b.rest, parent)
	if err != nil {
		return fmt.Errorf("skel: instance bone %q: %w", b.Name, err)
	}
	b.visual = bound{def: u.def, inst: inst}
	b.joint = TransformPoint(b.joint, b.rest)
	b.pose = b.rest
	return nil
}
