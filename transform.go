package skel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a 4x4 affine transform, column-major.
// a.Mul4(b) applies b first, then a.
type Transform = mgl64.Mat4

// Vec3 is a point or direction in 3D space.
type Vec3 = mgl64.Vec3

// Identity returns the identity transform.
func Identity() Transform {
	return mgl64.Ident4()
}

// Translation returns a transform that moves points by (x, y, z).
func Translation(x, y, z float64) Transform {
	return mgl64.Translate3D(x, y, z)
}

// Rotation returns a rotation of degrees about the line through point along
// axis. The axis need not be normalized. A zero axis yields the identity.
//
//	T(point) * R(axis, angle) * T(-point)
func Rotation(point, axis Vec3, degrees float64) Transform {
	l := axis.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Ident4()
	}
	r := mgl64.HomogRotate3D(mgl64.DegToRad(degrees), axis.Mul(1/l))
	to := mgl64.Translate3D(point[0], point[1], point[2])
	from := mgl64.Translate3D(-point[0], -point[1], -point[2])
	return to.Mul4(r).Mul4(from)
}

// Interpolate blends from toward to element-wise by fraction. A fraction of
// 0 returns from and 1 returns to.
func Interpolate(from, to Transform, fraction float64) Transform {
	return from.Mul(1 - fraction).Add(to.Mul(fraction))
}

// TransformPoint applies t to the point p.
func TransformPoint(p Vec3, t Transform) Vec3 {
	return mgl64.TransformCoordinate(p, t)
}

// TranslationOf returns the translation component of t.
func TranslationOf(t Transform) Vec3 {
	return t.Col(3).Vec3()
}
