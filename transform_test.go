package skel

import (
	"math"
	"testing"
)

func TestIdentityLeavesPointsAlone(t *testing.T) {
	p := Vec3{1, -2, 3}
	assertVec(t, "identity", TransformPoint(p, Identity()), p, epsilon)
}

func TestTranslation(t *testing.T) {
	got := TransformPoint(Vec3{0, 0, 0}, Translation(0, 0, 3))
	assertVec(t, "translated origin", got, Vec3{0, 0, 3}, epsilon)
	assertVec(t, "translation of", TranslationOf(Translation(1, 2, 3)), Vec3{1, 2, 3}, epsilon)
}

func TestRotationAboutOrigin(t *testing.T) {
	r := Rotation(Vec3{}, Vec3{0, 1, 0}, 90)
	// Right-handed: +90 about Y takes +X to -Z.
	assertVec(t, "x about y", TransformPoint(Vec3{1, 0, 0}, r), Vec3{0, 0, -1}, epsilon)
	assertVec(t, "y about y", TransformPoint(Vec3{0, 1, 0}, r), Vec3{0, 1, 0}, epsilon)
}

func TestRotationAboutPoint(t *testing.T) {
	r := Rotation(Vec3{0, 0, 3}, Vec3{0, 1, 0}, 90)
	assertVec(t, "center fixed", TransformPoint(Vec3{0, 0, 3}, r), Vec3{0, 0, 3}, epsilon)
	assertVec(t, "offset point", TransformPoint(Vec3{1, 0, 3}, r), Vec3{0, 0, 2}, epsilon)
}

func TestRotationNormalizesAxis(t *testing.T) {
	a := Rotation(Vec3{}, Vec3{0, 0, 5}, 30)
	b := Rotation(Vec3{}, Vec3{0, 0, 1}, 30)
	assertMatrix(t, "scaled axis", a, b, epsilon)
}

func TestRotationZeroAxisIsIdentity(t *testing.T) {
	assertMatrix(t, "zero axis", Rotation(Vec3{1, 2, 3}, Vec3{}, 45), Identity(), 0)
}

func TestRotationComposesAngles(t *testing.T) {
	step := Rotation(Vec3{1, 0, 0}, Vec3{1, 1, 0}, 9)
	acc := Identity()
	for i := 0; i < 10; i++ {
		acc = step.Mul4(acc)
	}
	assertMatrix(t, "10 x 9deg", acc, Rotation(Vec3{1, 0, 0}, Vec3{1, 1, 0}, 90), 1e-12)
}

func TestInterpolateEndpoints(t *testing.T) {
	to := Translation(5, 0, 0)
	assertMatrix(t, "f=0", Interpolate(Identity(), to, 0), Identity(), 0)
	assertMatrix(t, "f=1", Interpolate(Identity(), to, 1), to, epsilon)
}

func TestInterpolateTranslationFraction(t *testing.T) {
	got := Interpolate(Identity(), Translation(5, 0, 0), 0.1/5)
	assertMatrix(t, "per tick", got, Translation(0.1, 0, 0), epsilon)
}

func TestInterpolateRotationIsApproximate(t *testing.T) {
	// Element-wise blending of a rotation shrinks the basis; the per-tick
	// step is only close to a rigid rotation for small fractions.
	r := Rotation(Vec3{}, Vec3{0, 0, 1}, 20)
	step := Interpolate(Identity(), r, 0.1)
	col := step.Col(0).Vec3()
	if l := col.Len(); l >= 1 || math.Abs(l-1) > 0.01 {
		t.Errorf("basis length = %v, want just under 1", l)
	}
}

func TestCompositionOrder(t *testing.T) {
	// a.Mul4(b) applies b first.
	move := Translation(1, 0, 0)
	turn := Rotation(Vec3{}, Vec3{0, 0, 1}, 90)
	assertVec(t, "turn then move", TransformPoint(Vec3{1, 0, 0}, move.Mul4(turn)), Vec3{1, 1, 0}, epsilon)
	assertVec(t, "move then turn", TransformPoint(Vec3{1, 0, 0}, turn.Mul4(move)), Vec3{0, 2, 0}, epsilon)
}
