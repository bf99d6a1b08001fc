package banyan

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestAxisAngleRotate(t *testing.T) {
	q := NewQuaternionAxisAngle(V3Up, math32.Pi/2)
	assertVec3(t, "90 about Y", q.Rotate(Vec3(1, 0, 0)), Vec3(0, 0, -1))

	q = NewQuaternionAxisAngle(Vec3(0, 0, 1), math32.Pi)
	assertVec3(t, "180 about Z", q.Rotate(Vec3(1, 0, 0)), Vec3(-1, 0, 0))
}

func TestQuaternionIdentityRotate(t *testing.T) {
	v := Vec3(1.5, -2, 0.3)
	assertVec3(t, "identity", QuaternionIdentity.Rotate(v), v)
}

func TestQuaternionMulComposition(t *testing.T) {
	a := NewQuaternionAxisAngle(V3Up, math32.Pi/2)
	b := NewQuaternionAxisAngle(Vec3(1, 0, 0), math32.Pi/2)
	// (a*b) rotates by b first, then a.
	got := a.Mul(b).Rotate(Vec3(0, 1, 0))
	want := a.Rotate(b.Rotate(Vec3(0, 1, 0)))
	assertVec3(t, "composition", got, want)
}

func TestQuaternionInverse(t *testing.T) {
	q := NewQuaternionAxisAngle(Vec3(1, 2, 3), 1.3)
	v := Vec3(0.5, -1, 2)
	assertVec3(t, "inverse round trip", q.Inverse().Rotate(q.Rotate(v)), v)
}

func TestQuaternionMatrixAgreesWithRotate(t *testing.T) {
	q := NewQuaternionAxisAngle(Vec3(1, -1, 0.5), 2.1)
	v := Vec3(1, 2, 3)
	assertVec3(t, "matrix vs rotate", q.Matrix().MulPoint(v), q.Rotate(v))
}

func TestQuaternionFromMatrixRoundTrip(t *testing.T) {
	// Exercise all Shepperd branches with rotations near 0 and near 180
	// about each axis.
	cases := []Quaternion{
		NewQuaternionAxisAngle(V3Up, 0.01),
		NewQuaternionAxisAngle(Vec3(1, 0, 0), 3.1),
		NewQuaternionAxisAngle(Vec3(0, 1, 0), 3.1),
		NewQuaternionAxisAngle(Vec3(0, 0, 1), 3.1),
		NewQuaternionAxisAngle(Vec3(1, 1, 1), 2),
	}
	probe := Vec3(0.2, -0.9, 1.4)
	for _, want := range cases {
		got := quaternionFromMatrix(want.Matrix())
		assertVec3(t, "round trip", got.Rotate(probe), want.Rotate(probe))
	}
}

func TestLookRotationForward(t *testing.T) {
	q := LookRotation(Vec3(0, 0, -1), V3Up)
	// Already looking down -Z: identity rotation.
	assertVec3(t, "straight", q.Rotate(Vec3(0, 0, -1)), Vec3(0, 0, -1))

	q = LookRotation(Vec3(1, 0, 0), V3Up)
	assertVec3(t, "toward +X", q.Rotate(Vec3(0, 0, -1)), Vec3(1, 0, 0))
	// Up is preserved when the target is in the horizontal plane.
	assertVec3(t, "up preserved", q.Rotate(V3Up), V3Up)
}
