// Package scene is an in-memory retained 3D scene that implements
// skel.Scene.
//
// Definitions are either shapes (a Box, a Cylinder or any Shape) or groups.
// Instances are Nodes: placing a definition creates a Node with a local
// transform, and Stage.Update composes local transforms down the tree into
// world transforms, recomputing only dirty subtrees.
//
//	stage := scene.NewStage()
//	arm := stage.NewBox("arm", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 3})
//	n, _ := stage.CreateInstance(arm, mgl64.Translate3D(0, 0, 2), nil)
//	stage.Update()
//	top := n.(*scene.Node).LocalToWorld(mgl64.Vec3{0, 0, 3}) // (0, 0, 5)
package scene
