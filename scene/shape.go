package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Edge is a line segment in a shape's local space.
type Edge [2]mgl64.Vec3

// Shape is the outline of a part. Viewers draw its edges; nothing else looks
// inside it.
type Shape interface {
	Edges() []Edge
}

// Box is an axis-aligned box between two corners.
type Box struct {
	Min, Max mgl64.Vec3
}

// Edges returns the twelve edges of the box.
func (b Box) Edges() []Edge {
	lo, hi := b.Min, b.Max
	c := [8]mgl64.Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	return []Edge{
		{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]},
		{c[4], c[5]}, {c[5], c[6]}, {c[6], c[7]}, {c[7], c[4]},
		{c[0], c[4]}, {c[1], c[5]}, {c[2], c[6]}, {c[3], c[7]},
	}
}

// defaultCylinderSegments is the ring resolution used when Segments is zero.
const defaultCylinderSegments = 16

// Cylinder is a circular prism whose base is centered on Center and which
// extends Height along Axis. A negative Height extends against Axis.
type Cylinder struct {
	Center   mgl64.Vec3
	Axis     mgl64.Vec3
	Radius   float64
	Height   float64
	Segments int
}

// Edges returns both rings and four generator lines.
func (c Cylinder) Edges() []Edge {
	n := c.Segments
	if n < 3 {
		n = defaultCylinderSegments
	}
	axis := c.Axis
	if axis.Len() == 0 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	axis = axis.Normalize()
	u, v := basis(axis)
	top := axis.Mul(c.Height)

	ring := make([]mgl64.Vec3, n)
	for i := range ring {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		ring[i] = c.Center.Add(u.Mul(cos * c.Radius)).Add(v.Mul(sin * c.Radius))
	}

	edges := make([]Edge, 0, 2*n+4)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%n]
		edges = append(edges, Edge{a, b}, Edge{a.Add(top), b.Add(top)})
	}
	step := n / 4
	if step < 1 {
		step = 1
	}
	for i := 0; i < n; i += step {
		edges = append(edges, Edge{ring[i], ring[i].Add(top)})
	}
	return edges
}

// basis returns two unit vectors perpendicular to axis and to each other.
func basis(axis mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis[0]) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u := axis.Cross(ref).Normalize()
	return u, axis.Cross(u)
}
