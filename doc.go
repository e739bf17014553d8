// Package skel animates rigid-body assemblies with a joint hierarchy.
//
// A [Skeleton] owns a tree of [Bone] values. Each bone carries a visual
// definition, a rest transform that places it relative to its parent, a joint
// (the point it rotates around) and a track of angular keyframes. The skeleton
// itself carries a track of whole-assembly rigid motion.
//
// The package does not build geometry, own a document or run a clock. It talks
// to those through two small interfaces, [Scene] and [Scheduler]. The scene
// package provides an in-memory [Scene], the clock package provides
// deterministic and real-time schedulers, and ebitenview provides a preview
// window that is both.
//
// # Quick start
//
//	stage := scene.NewStage()
//	upper := stage.NewBox("upper arm", mgl64.Vec3{-0.5, -0.5, 0}, mgl64.Vec3{0.5, 0.5, 3})
//	lower := stage.NewBox("lower arm", mgl64.Vec3{0, -0.5, -0.5}, mgl64.Vec3{2, 0.5, 0.5})
//
//	sk, _ := skel.NewSkeleton("arm", stage, sched)
//	up, _ := sk.SetRoot(upper, skel.WithTransform(skel.Translation(0, 0, 2)), skel.WithJoint(skel.Vec3{0, 0, 3}))
//	low := up.AddBone(lower, skel.WithTransform(skel.Translation(0, 0, 2)))
//	low.AddKeyframe(skel.Vec3{0, 1, 0}, 90, 1)
//
//	_ = sk.Animate(0)
//	<-sk.Done()
//
// # Animation phases
//
// [Skeleton.Animate] runs the instancing pass once: every bone gets a placed
// instance at its rest transform, its joint is moved into the placed frame and
// its keyframe angles become per-tick increments. After that a repeating timer
// calls [Skeleton.Tick] every interval until the clock passes the end of the
// longest track. Tick can also be called directly to step the animation by
// hand.
//
// Keyframe end-times must be supplied in non-decreasing order. The package
// does not sort or validate them.
package skel
