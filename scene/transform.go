package scene

import "github.com/go-gl/mathgl/mgl64"

// updateWorldTransform recomputes a node's world transform.
// parentRecomputed indicates whether the parent was recomputed this pass,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentTransform mgl64.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.world = parentTransform.Mul4(n.local)
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.world, recompute)
	}
}

// --- Transform accessors ---

// Local returns the node's placement relative to its parent.
func (n *Node) Local() mgl64.Mat4 {
	return n.local
}

// SetLocal overwrites the node's placement relative to its parent and marks
// it dirty.
func (n *Node) SetLocal(t mgl64.Mat4) {
	n.local = t
	n.transformDirty = true
}

// World returns the world transform computed by the last Stage.Update.
func (n *Node) World() mgl64.Mat4 {
	return n.world
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.world)
}
