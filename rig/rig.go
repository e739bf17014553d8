// Package rig loads skeletons from YAML rig files.
//
// A rig file names the shapes an assembly is built from, the bone tree with
// rest transforms, joints and keyframes, and an optional whole-assembly
// motion track:
//
//	name: arm
//	interval: 0.1
//	shapes:
//	  upper: {box: {min: [-0.5, -0.5, 0], max: [0.5, 0.5, 3]}}
//	  lower: {box: {min: [0, -0.5, -0.5], max: [2, 0.5, 0.5]}}
//	root:
//	  name: upper
//	  shape: upper
//	  transform: [{translate: [0, 0, 2]}]
//	  joint: [0, 0, 3]
//	  children:
//	    - name: lower
//	      shape: lower
//	      transform:
//	        - translate: [0, 0, 2]
//	        - rotate: {axis: [0, 1, 0], angle: 17}
//	      keyframes:
//	        - {axis: [0, 1, 0], angle: 90, end: 1}
//
// A transform is a list of operations composed in the order written, so
// [a, b] is a*b: b is applied first.
package rig

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/skel"
	"github.com/phanxgames/skel/scene"
)

// Vec is a point or direction written as [x, y, z].
type Vec [3]float64

func (v Vec) vec3() skel.Vec3 {
	return skel.Vec3(v)
}

// File is a decoded rig file.
type File struct {
	Name     string           `yaml:"name"`
	Interval float64          `yaml:"interval,omitempty"`
	Shapes   map[string]Shape `yaml:"shapes"`
	Root     *Bone            `yaml:"root"`
	Motion   []Motion         `yaml:"motion,omitempty"`
}

// Shape holds exactly one shape kind.
type Shape struct {
	Box      *Box      `yaml:"box,omitempty"`
	Cylinder *Cylinder `yaml:"cylinder,omitempty"`
}

// Box is an axis-aligned box between two corners.
type Box struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

// Cylinder is a circular prism. Axis defaults to +Z.
type Cylinder struct {
	Center   Vec     `yaml:"center,omitempty"`
	Axis     Vec     `yaml:"axis,omitempty"`
	Radius   float64 `yaml:"radius"`
	Height   float64 `yaml:"height"`
	Segments int     `yaml:"segments,omitempty"`
}

// Op is one step of a transform: a translation or a rotation.
type Op struct {
	Translate *Vec    `yaml:"translate,omitempty"`
	Rotate    *Rotate `yaml:"rotate,omitempty"`
}

// Rotate turns Angle degrees about Axis through Point.
type Rotate struct {
	Point Vec     `yaml:"point,omitempty"`
	Axis  Vec     `yaml:"axis"`
	Angle float64 `yaml:"angle"`
}

// Bone is one node of the bone tree.
type Bone struct {
	Name      string     `yaml:"name"`
	Shape     string     `yaml:"shape"`
	Transform []Op       `yaml:"transform,omitempty"`
	Joint     *Vec       `yaml:"joint,omitempty"`
	Keyframes []Keyframe `yaml:"keyframes,omitempty"`
	Children  []*Bone    `yaml:"children,omitempty"`
}

// Keyframe rotates Angle degrees about Axis, finishing at End seconds.
type Keyframe struct {
	Axis  Vec     `yaml:"axis"`
	Angle float64 `yaml:"angle"`
	End   float64 `yaml:"end"`
}

// Motion moves the whole assembly by Transform, finishing at End seconds.
type Motion struct {
	Transform []Op    `yaml:"transform"`
	End       float64 `yaml:"end"`
}

// --- Loading ---

// Load decodes a rig file. Unknown fields are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("rig: empty file")
		}
		return nil, fmt.Errorf("rig: decode: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes the rig file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rig: open %s: %w", path, err)
	}
	defer fh.Close()
	f, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// --- Validation ---

// Validate checks the rig for problems Build would trip over or that would
// make the animation meaningless, and reports all of them at once.
func (f *File) Validate() error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if f.Interval < 0 || math.IsNaN(f.Interval) || math.IsInf(f.Interval, 0) {
		errs = append(errs, fmt.Errorf("interval %v: must be positive", f.Interval))
	}
	for _, name := range f.shapeNames() {
		errs = append(errs, f.Shapes[name].validate(name)...)
	}
	if f.Root == nil {
		errs = append(errs, errors.New("root bone is required"))
	} else {
		seen := make(map[string]bool)
		f.validateBone(f.Root, "root", seen, &errs)
	}
	prev := 0.0
	for i, m := range f.Motion {
		where := fmt.Sprintf("motion[%d]", i)
		errs = append(errs, validateOps(where, m.Transform)...)
		if !(m.End > 0) {
			errs = append(errs, fmt.Errorf("%s: end %v: must be positive", where, m.End))
		} else if m.End < prev {
			errs = append(errs, fmt.Errorf("%s: end %v before previous end %v", where, m.End, prev))
		}
		prev = math.Max(prev, m.End)
	}
	return errors.Join(errs...)
}

func (s Shape) validate(name string) []error {
	where := fmt.Sprintf("shape %q", name)
	switch {
	case s.Box != nil && s.Cylinder != nil:
		return []error{fmt.Errorf("%s: set box or cylinder, not both", where)}
	case s.Box != nil:
		return nil
	case s.Cylinder != nil:
		if !(s.Cylinder.Radius > 0) {
			return []error{fmt.Errorf("%s: radius %v: must be positive", where, s.Cylinder.Radius)}
		}
		return nil
	default:
		return []error{fmt.Errorf("%s: missing box or cylinder", where)}
	}
}

func (f *File) validateBone(b *Bone, where string, seen map[string]bool, errs *[]error) {
	if b.Name == "" {
		*errs = append(*errs, fmt.Errorf("%s: name is required", where))
	} else {
		where = fmt.Sprintf("bone %q", b.Name)
		if seen[b.Name] {
			*errs = append(*errs, fmt.Errorf("%s: duplicate name", where))
		}
		seen[b.Name] = true
	}
	if _, ok := f.Shapes[b.Shape]; !ok {
		*errs = append(*errs, fmt.Errorf("%s: unknown shape %q", where, b.Shape))
	}
	*errs = append(*errs, validateOps(where, b.Transform)...)

	prev := 0.0
	for i, k := range b.Keyframes {
		kw := fmt.Sprintf("%s keyframe[%d]", where, i)
		if k.Axis == (Vec{}) {
			*errs = append(*errs, fmt.Errorf("%s: zero axis", kw))
		}
		if !(k.End > 0) {
			*errs = append(*errs, fmt.Errorf("%s: end %v: must be positive", kw, k.End))
		} else if k.End < prev {
			*errs = append(*errs, fmt.Errorf("%s: end %v before previous end %v", kw, k.End, prev))
		}
		prev = math.Max(prev, k.End)
	}
	for i, c := range b.Children {
		if c == nil {
			*errs = append(*errs, fmt.Errorf("%s: child %d is empty", where, i))
			continue
		}
		f.validateBone(c, fmt.Sprintf("%s child[%d]", where, i), seen, errs)
	}
}

func validateOps(where string, ops []Op) []error {
	var errs []error
	for i, op := range ops {
		switch {
		case (op.Translate == nil) == (op.Rotate == nil):
			errs = append(errs, fmt.Errorf("%s transform[%d]: set exactly one of translate or rotate", where, i))
		case op.Rotate != nil && op.Rotate.Axis == (Vec{}):
			errs = append(errs, fmt.Errorf("%s transform[%d]: zero rotation axis", where, i))
		}
	}
	return errs
}

// --- Building ---

// Build validates the rig, registers its shapes on stage and assembles the
// skeleton. Shapes the stage already holds under the same name and geometry
// are reused, so building a rig again on one stage only adds a new group. The rig's interval is applied before opts, so an explicit
// skel.WithInterval in opts wins. The returned map indexes bones by name.
func (f *File) Build(stage *scene.Stage, sched skel.Scheduler, opts ...skel.Option) (*skel.Skeleton, map[string]*skel.Bone, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, fmt.Errorf("rig %q: %w", f.Name, err)
	}

	defs := make(map[string]*scene.Definition, len(f.Shapes))
	for _, name := range f.shapeNames() {
		defs[name] = f.Shapes[name].define(stage, name)
	}

	if f.Interval > 0 {
		opts = append([]skel.Option{skel.WithInterval(f.Interval)}, opts...)
	}
	sk, err := skel.NewSkeleton(f.Name, stage, sched, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("rig %q: %w", f.Name, err)
	}
	for _, m := range f.Motion {
		sk.AddKeyframe(compose(m.Transform), m.End)
	}

	bones := make(map[string]*skel.Bone)
	root, err := sk.SetRoot(defs[f.Root.Shape], boneOptions(f.Root)...)
	if err != nil {
		return nil, nil, fmt.Errorf("rig %q: %w", f.Name, err)
	}
	addBone(root, f.Root, defs, bones)
	return sk, bones, nil
}

func addBone(b *skel.Bone, rb *Bone, defs map[string]*scene.Definition, bones map[string]*skel.Bone) {
	bones[rb.Name] = b
	for _, k := range rb.Keyframes {
		b.AddKeyframe(k.Axis.vec3(), k.Angle, k.End)
	}
	for _, c := range rb.Children {
		child := b.AddBone(defs[c.Shape], boneOptions(c)...)
		addBone(child, c, defs, bones)
	}
}

func boneOptions(rb *Bone) []skel.BoneOption {
	opts := []skel.BoneOption{
		skel.WithName(rb.Name),
		skel.WithTransform(compose(rb.Transform)),
	}
	if rb.Joint != nil {
		opts = append(opts, skel.WithJoint(rb.Joint.vec3()))
	}
	return opts
}

// define returns the stage's definition with this name and geometry,
// registering one if there is none.
func (s Shape) define(stage *scene.Stage, name string) *scene.Definition {
	shape := s.shape()
	for _, d := range stage.Definitions() {
		if d.Name == name && sameShape(d.Shape, shape) {
			return d
		}
	}
	return stage.NewDefinition(name, shape)
}

func (s Shape) shape() scene.Shape {
	if s.Box != nil {
		return scene.Box{Min: s.Box.Min.vec3(), Max: s.Box.Max.vec3()}
	}
	c := s.Cylinder
	axis := c.Axis.vec3()
	if axis == (mgl64.Vec3{}) {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return scene.Cylinder{
		Center:   c.Center.vec3(),
		Axis:     axis,
		Radius:   c.Radius,
		Height:   c.Height,
		Segments: c.Segments,
	}
}

func sameShape(a, b scene.Shape) bool {
	switch a := a.(type) {
	case scene.Box:
		b, ok := b.(scene.Box)
		return ok && a == b
	case scene.Cylinder:
		b, ok := b.(scene.Cylinder)
		return ok && a == b
	}
	return false
}

// compose multiplies ops in the order written.
func compose(ops []Op) skel.Transform {
	t := skel.Identity()
	for _, op := range ops {
		var m skel.Transform
		switch {
		case op.Translate != nil:
			m = skel.Translation(op.Translate[0], op.Translate[1], op.Translate[2])
		case op.Rotate != nil:
			m = skel.Rotation(op.Rotate.Point.vec3(), op.Rotate.Axis.vec3(), op.Rotate.Angle)
		default:
			continue
		}
		t = t.Mul4(m)
	}
	return t
}

func (f *File) shapeNames() []string {
	names := make([]string, 0, len(f.Shapes))
	for name := range f.Shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
