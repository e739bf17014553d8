package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/skel"
)

var (
	// ErrUnknownDefinition is returned for definitions that do not belong to
	// the stage.
	ErrUnknownDefinition = errors.New("scene: unknown definition")

	// ErrUnknownInstance is returned for instances that do not belong to the
	// stage or have been removed.
	ErrUnknownInstance = errors.New("scene: unknown instance")

	// ErrNotGroup is returned when an instance is placed inside a definition
	// that is not a group.
	ErrNotGroup = errors.New("scene: parent is not a group")
)

// Definition is a reusable part: either a shape or a group that holds other
// instances.
type Definition struct {
	ID    uint32
	Name  string
	Shape Shape

	stage     *Stage
	container *Node // group contents; nil for shapes
}

// IsGroup reports whether the definition holds instances rather than a shape.
func (d *Definition) IsGroup() bool {
	return d.container != nil
}

// Contents returns the container node holding a group's instances, or nil
// for shapes.
func (d *Definition) Contents() *Node {
	return d.container
}

// Stage is an in-memory retained scene. It implements skel.Scene.
//
// Stage is single-threaded: mutate and read it from one goroutine at a time.
type Stage struct {
	root        *Node
	definitions []*Definition
	debug       bool

	nodeIDs uint32
	defIDs  uint32
}

var _ skel.Scene = (*Stage)(nil)

// NewStage creates a stage with an empty root container.
func NewStage() *Stage {
	s := &Stage{}
	s.root = newNode(s.nextNodeID(), "root", nil)
	s.root.Visible = false
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// SetDebugMode enables or disables debug mode. In debug mode, placements on
// removed instances panic instead of returning an error.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Definitions returns every definition created on the stage. The returned slice MUST NOT be mutated by the caller.
func (s *Stage) Definitions() []*Definition {
	return s.definitions
}

// --- Definitions ---

// NewDefinition registers a shape definition.
func (s *Stage) NewDefinition(name string, shape Shape) *Definition {
	d := &Definition{ID: s.nextDefID(), Name: name, Shape: shape, stage: s}
	s.definitions = append(s.definitions, d)
	return d
}

// NewBox registers a box definition between two corners.
func (s *Stage) NewBox(name string, min, max mgl64.Vec3) *Definition {
	return s.NewDefinition(name, Box{Min: min, Max: max})
}

// NewCylinder registers a cylinder definition.
func (s *Stage) NewCylinder(name string, center, axis mgl64.Vec3, radius, height float64) *Definition {
	return s.NewDefinition(name, Cylinder{Center: center, Axis: axis, Radius: radius, Height: height})
}

// NewGroup registers an empty group definition.
func (s *Stage) NewGroup(name string) (skel.Definition, error) {
	d := &Definition{ID: s.nextDefID(), Name: name, stage: s}
	d.container = newNode(s.nextNodeID(), name+"/contents", nil)
	d.container.Visible = false
	s.definitions = append(s.definitions, d)
	return d, nil
}

// IsDefinition reports whether def is a definition of this stage.
func (s *Stage) IsDefinition(def skel.Definition) bool {
	_, ok := s.definition(def)
	return ok
}

func (s *Stage) definition(def skel.Definition) (*Definition, bool) {
	d, ok := def.(*Definition)
	if !ok || d == nil || d.stage != s {
		return nil, false
	}
	return d, true
}

// --- Instances ---

// CreateInstance places def at t inside parent, or under the stage root when
// parent is nil. Instancing a group attaches its contents below the new
// node; a group's contents can only appear under one instance at a time, so
// instancing it again moves them.
func (s *Stage) CreateInstance(def skel.Definition, t skel.Transform, parent skel.Definition) (skel.Instance, error) {
	d, ok := s.definition(def)
	if !ok {
		return nil, fmt.Errorf("create instance of %T: %w", def, ErrUnknownDefinition)
	}

	into := s.root
	if parent != nil {
		p, ok := s.definition(parent)
		if !ok {
			return nil, fmt.Errorf("create instance of %q in %T: %w", d.Name, parent, ErrUnknownDefinition)
		}
		if !p.IsGroup() {
			return nil, fmt.Errorf("create instance of %q in %q: %w", d.Name, p.Name, ErrNotGroup)
		}
		if p == d {
			return nil, fmt.Errorf("create instance of %q inside itself: %w", d.Name, ErrNotGroup)
		}
		into = p.container
	}

	if into.disposed {
		return nil, fmt.Errorf("create instance of %q: parent group was removed: %w", d.Name, ErrUnknownDefinition)
	}

	n := newNode(s.nextNodeID(), d.Name, d)
	n.SetLocal(t)
	if d.IsGroup() {
		if d.container.disposed {
			return nil, fmt.Errorf("create instance of %q: group was removed: %w", d.Name, ErrUnknownDefinition)
		}
		n.Visible = false
		if isAncestor(d.container, into) {
			return nil, fmt.Errorf("create instance of %q: group contains its parent", d.Name)
		}
		n.AddChild(d.container)
	}
	into.AddChild(n)
	return n, nil
}

// SetInstanceTransform overwrites an instance's local placement.
func (s *Stage) SetInstanceTransform(inst skel.Instance, t skel.Transform) error {
	n, ok := inst.(*Node)
	if !ok || n == nil {
		return fmt.Errorf("set transform of %T: %w", inst, ErrUnknownInstance)
	}
	if n.disposed {
		if s.debug {
			panic(fmt.Sprintf("scene debug: SetInstanceTransform on disposed node %q", n.Name))
		}
		return fmt.Errorf("set transform of %q: disposed: %w", n.Name, ErrUnknownInstance)
	}
	n.SetLocal(t)
	return nil
}

// RemoveInstance detaches an instance from the stage and disposes it along
// with everything below it, including the contents of an instanced group.
// Later placements of a removed instance fail with ErrUnknownInstance.
func (s *Stage) RemoveInstance(inst skel.Instance) error {
	n, ok := inst.(*Node)
	if !ok || n == nil || n.disposed || n == s.root {
		return fmt.Errorf("remove %T: %w", inst, ErrUnknownInstance)
	}
	n.Dispose()
	return nil
}

// RemoveDefinition unregisters def. A group's contents are disposed with it.
// Instances already placed from a shape definition keep drawing it.
func (s *Stage) RemoveDefinition(def skel.Definition) error {
	d, ok := s.definition(def)
	if !ok {
		return fmt.Errorf("remove definition %T: %w", def, ErrUnknownDefinition)
	}
	for i, c := range s.definitions {
		if c == d {
			copy(s.definitions[i:], s.definitions[i+1:])
			s.definitions[len(s.definitions)-1] = nil
			s.definitions = s.definitions[:len(s.definitions)-1]
			break
		}
	}
	if d.container != nil {
		d.container.Dispose()
	}
	d.stage = nil
	return nil
}

// --- Traversal ---

// Update recomputes world transforms for every dirty subtree.
func (s *Stage) Update() {
	updateWorldTransform(s.root, mgl64.Ident4(), false)
}

// Walk calls fn for every node below the root, parents before children.
// Walking skips a node's subtree when fn returns false.
func (s *Stage) Walk(fn func(*Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			if fn(c) {
				walk(c)
			}
		}
	}
	walk(s.root)
}

// FindByName returns every node whose name matches, in traversal order.
func (s *Stage) FindByName(name string) []*Node {
	var out []*Node
	s.Walk(func(n *Node) bool {
		if n.Name == name {
			out = append(out, n)
		}
		return true
	})
	return out
}

// --- ID counters (plain, the stage is single-threaded) ---

func (s *Stage) nextNodeID() uint32 {
	s.nodeIDs++
	return s.nodeIDs
}

func (s *Stage) nextDefID() uint32 {
	s.defIDs++
	return s.defIDs
}
