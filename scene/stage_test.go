package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/skel"
)

func TestStageDefinitions(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, err := s.NewGroup("arm")
	if err != nil {
		t.Fatal(err)
	}

	if !s.IsDefinition(box) || !s.IsDefinition(group) {
		t.Error("stage should recognize its own definitions")
	}
	if box.IsGroup() {
		t.Error("box should not be a group")
	}
	if !group.(*Definition).IsGroup() {
		t.Error("group should be a group")
	}
	if len(s.Definitions()) != 2 {
		t.Errorf("Definitions = %d, want 2", len(s.Definitions()))
	}
}

func TestIsDefinitionRejectsForeign(t *testing.T) {
	s := NewStage()
	other := NewStage().NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	var nilDef *Definition
	for _, def := range []skel.Definition{nil, "box", other, nilDef} {
		if s.IsDefinition(def) {
			t.Errorf("IsDefinition(%v) = true", def)
		}
	}
}

func TestCreateInstanceTopLevel(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	inst, err := s.CreateInstance(box, mgl64.Translate3D(0, 0, 3), nil)
	if err != nil {
		t.Fatal(err)
	}
	n := inst.(*Node)
	if n.Parent != s.Root() || n.Definition != box {
		t.Error("instance should sit under the root and reference its definition")
	}
	s.Update()
	assertVec(t, "origin", n.LocalToWorld(mgl64.Vec3{}), mgl64.Vec3{0, 0, 3})
}

func TestCreateInstanceInGroup(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, _ := s.NewGroup("arm")

	inst, err := s.CreateInstance(box, mgl64.Translate3D(1, 0, 0), group)
	if err != nil {
		t.Fatal(err)
	}
	if inst.(*Node).Parent != group.(*Definition).Contents() {
		t.Fatal("instance should sit in the group's contents")
	}

	// The group is not reachable until it is itself instanced.
	if len(s.FindByName("box")) != 0 {
		t.Error("uninstanced group contents should not be on the stage")
	}
	if _, err := s.CreateInstance(group, mgl64.Translate3D(0, 5, 0), nil); err != nil {
		t.Fatal(err)
	}
	s.Update()
	found := s.FindByName("box")
	if len(found) != 1 {
		t.Fatalf("FindByName = %d nodes, want 1", len(found))
	}
	assertVec(t, "nested origin", found[0].LocalToWorld(mgl64.Vec3{}), mgl64.Vec3{1, 5, 0})
}

func TestCreateInstanceErrors(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, _ := s.NewGroup("g")
	foreign := NewStage().NewBox("x", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})

	if _, err := s.CreateInstance(foreign, mgl64.Ident4(), nil); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("foreign def: err = %v", err)
	}
	if _, err := s.CreateInstance(box, mgl64.Ident4(), foreign); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("foreign parent: err = %v", err)
	}
	if _, err := s.CreateInstance(box, mgl64.Ident4(), box); !errors.Is(err, ErrNotGroup) {
		t.Errorf("shape parent: err = %v", err)
	}
	if _, err := s.CreateInstance(group, mgl64.Ident4(), group); !errors.Is(err, ErrNotGroup) {
		t.Errorf("self parent: err = %v", err)
	}
}

func TestCreateInstanceGroupCycle(t *testing.T) {
	s := NewStage()
	outer, _ := s.NewGroup("outer")
	inner, _ := s.NewGroup("inner")
	if _, err := s.CreateInstance(inner, mgl64.Ident4(), outer); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateInstance(outer, mgl64.Ident4(), inner); err == nil {
		t.Error("expected an error for a group containing its parent")
	}
}

func TestSetInstanceTransform(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	inst, _ := s.CreateInstance(box, mgl64.Ident4(), nil)

	if err := s.SetInstanceTransform(inst, mgl64.Translate3D(2, 0, 0)); err != nil {
		t.Fatal(err)
	}
	s.Update()
	assertVec(t, "moved", inst.(*Node).LocalToWorld(mgl64.Vec3{}), mgl64.Vec3{2, 0, 0})

	if err := s.SetInstanceTransform("nope", mgl64.Ident4()); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("foreign instance: err = %v", err)
	}
	if err := s.RemoveInstance(inst); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInstanceTransform(inst, mgl64.Ident4()); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("removed instance: err = %v", err)
	}
}

func TestSetInstanceTransformRemovedPanicsInDebug(t *testing.T) {
	s := NewStage()
	s.SetDebugMode(true)
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	inst, _ := s.CreateInstance(box, mgl64.Ident4(), nil)
	_ = s.RemoveInstance(inst)
	assertPanics(t, "removed", func() { _ = s.SetInstanceTransform(inst, mgl64.Ident4()) })
}

func TestRemoveInstanceDisposesGroupContents(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, _ := s.NewGroup("arm")
	part, _ := s.CreateInstance(box, mgl64.Ident4(), group)
	placed, _ := s.CreateInstance(group, mgl64.Ident4(), nil)

	if err := s.RemoveInstance(placed); err != nil {
		t.Fatal(err)
	}
	if s.Root().NumChildren() != 0 {
		t.Error("removed instance should leave the root")
	}
	if !part.(*Node).IsDisposed() {
		t.Error("group contents should be disposed with the instance")
	}
	if err := s.RemoveInstance(placed); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("second remove: err = %v", err)
	}
	if err := s.RemoveInstance(s.Root()); !errors.Is(err, ErrUnknownInstance) {
		t.Errorf("root remove: err = %v", err)
	}
	if _, err := s.CreateInstance(group, mgl64.Ident4(), nil); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("instancing an emptied group: err = %v", err)
	}
	if _, err := s.CreateInstance(box, mgl64.Ident4(), group); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("placing into an emptied group: err = %v", err)
	}
}

func TestRemoveDefinition(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, _ := s.NewGroup("arm")
	part, _ := s.CreateInstance(box, mgl64.Ident4(), group)

	if err := s.RemoveDefinition(group); err != nil {
		t.Fatal(err)
	}
	if s.IsDefinition(group) {
		t.Error("removed definition should no longer belong to the stage")
	}
	if len(s.Definitions()) != 1 || s.Definitions()[0] != box {
		t.Errorf("Definitions = %v, want [box]", s.Definitions())
	}
	if !part.(*Node).IsDisposed() {
		t.Error("group contents should be disposed")
	}
	if err := s.RemoveDefinition(group); !errors.Is(err, ErrUnknownDefinition) {
		t.Errorf("second remove: err = %v", err)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	s := NewStage()
	box := s.NewBox("box", mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	group, _ := s.NewGroup("g")
	s.CreateInstance(box, mgl64.Ident4(), group)
	s.CreateInstance(group, mgl64.Ident4(), nil)
	s.CreateInstance(box, mgl64.Ident4(), nil)

	var names []string
	s.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "g"
	})
	want := []string{"g", "box"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("walk = %v, want %v", names, want)
	}
}

// TestSkeletonOnStage drives a real skeleton against a Stage: a lower arm
// swings a quarter turn about a joint at the elbow.
func TestSkeletonOnStage(t *testing.T) {
	s := NewStage()
	upper := s.NewCylinder("upper", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0.5, 3)
	lower := s.NewCylinder("lower", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0.4, 3)

	sk, err := skel.NewSkeleton("arm", s, nil)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := sk.SetRoot(upper)
	elbow := root.AddBone(lower, skel.WithTransform(skel.Translation(0, 0, 3)))
	elbow.AddKeyframe(skel.Vec3{0, 1, 0}, 90, 1)
	if err := sk.Instantiate(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateInstance(sk.Group(), mgl64.Ident4(), nil); err != nil {
		t.Fatal(err)
	}
	for {
		done, err := sk.Tick()
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
	}
	s.Update()

	inst, _ := elbow.Instance()
	n := inst.(*Node)
	assertVec(t, "elbow stays put", n.LocalToWorld(mgl64.Vec3{}), mgl64.Vec3{0, 0, 3})
	assertVec(t, "forearm tip", n.LocalToWorld(mgl64.Vec3{0, 0, 3}), mgl64.Vec3{3, 0, 3})
}
