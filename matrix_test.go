package banyan

import (
	"testing"

	"github.com/chewxy/math32"
)

// --- Basic transforms ---

func TestTranslationPoint(t *testing.T) {
	m := NewTranslation(Vec3(10, -5, 2))
	assertVec3(t, "point", m.MulPoint(Vec3(1, 1, 1)), Vec3(11, -4, 3))
	// Directions ignore translation.
	assertVec3(t, "dir", m.MulDir(Vec3(1, 1, 1)), Vec3(1, 1, 1))
}

func TestScalePoint(t *testing.T) {
	m := NewScale(Vec3(2, 3, 4))
	assertVec3(t, "point", m.MulPoint(Vec3(1, 1, 1)), Vec3(2, 3, 4))
}

func TestMulOrder(t *testing.T) {
	tr := NewTranslation(Vec3(5, 0, 0))
	sc := NewScale(Vec3(2, 2, 2))
	// (T * S) p scales first, then translates.
	assertVec3(t, "T*S", tr.Mul(sc).MulPoint(Vec3(1, 0, 0)), Vec3(7, 0, 0))
	// (S * T) p translates first, then scales.
	assertVec3(t, "S*T", sc.Mul(tr).MulPoint(Vec3(1, 0, 0)), Vec3(12, 0, 0))
}

// --- Compose / Decompose ---

func TestComposeOrderTRS(t *testing.T) {
	// Compose applies scale, then rotation, then translation.
	r := NewQuaternionAxisAngle(V3Up, math32.Pi/2)
	m := Compose(Vec3(10, 0, 0), r, Vec3(2, 2, 2))
	// (1,0,0): scale -> (2,0,0); rotate 90 about Y -> (0,0,-2); translate -> (10,0,-2)
	assertVec3(t, "TRS", m.MulPoint(Vec3(1, 0, 0)), Vec3(10, 0, -2))
}

func TestDecomposeRoundTrip(t *testing.T) {
	wantT := Vec3(1, -2, 3)
	wantR := NewQuaternionAxisAngle(Vec3(1, 2, 0.5), 0.8)
	wantS := Vec3(2, 3, 0.5)
	gotT, gotR, gotS := Compose(wantT, wantR, wantS).Decompose()
	assertVec3(t, "translation", gotT, wantT)
	assertVec3(t, "scale", gotS, wantS)
	// Compare rotations by effect (q and -q are the same rotation).
	probe := Vec3(0.3, -0.7, 1.1)
	assertVec3(t, "rotation", gotR.Rotate(probe), wantR.Rotate(probe))
}

// --- Inverse ---

func TestInverseRoundTrip(t *testing.T) {
	m := Compose(Vec3(3, -1, 2), NewQuaternionAxisAngle(Vec3(0, 1, 1), 1.1), Vec3(2, 1, 0.5))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	assertMatrix4(t, "m*inv", m.Mul(inv), Identity4())
}

func TestInverseSingular(t *testing.T) {
	m := NewScale(Vec3(1, 0, 1)) // zero scale on Y
	inv, ok := m.Inverse()
	if ok {
		t.Error("expected singular matrix to report ok=false")
	}
	assertMatrix4(t, "fallback", inv, Identity4())
}

// --- Projections ---

func TestPerspectiveProjection(t *testing.T) {
	p := NewPerspective(math32.Pi/2, 1, 1, 100)

	// A point straight ahead at the near plane projects to NDC z=-1.
	ndc, w := p.Project(Vec3(0, 0, -1))
	assertNear(t, "near z", ndc.Z, -1)
	assertNear(t, "near w", w, 1)

	// A point at the far plane projects to NDC z=+1.
	ndc, _ = p.Project(Vec3(0, 0, -100))
	assertNear(t, "far z", ndc.Z, 1)

	// With fov 90 the view extends 45 degrees: a point at x=z lands on the
	// right NDC edge.
	ndc, _ = p.Project(Vec3(10, 0, -10))
	assertNear(t, "edge x", ndc.X, 1)

	// Points behind the eye have negative W.
	_, w = p.Project(Vec3(0, 0, 5))
	if w >= 0 {
		t.Errorf("behind-eye w = %v, want negative", w)
	}
}

func TestOrthographicProjection(t *testing.T) {
	p := NewOrthographic(10, 5, 1, 100)
	ndc, w := p.Project(Vec3(10, -5, -1))
	assertNear(t, "x", ndc.X, 1)
	assertNear(t, "y", ndc.Y, -1)
	assertNear(t, "z near", ndc.Z, -1)
	assertNear(t, "w", w, 1)

	ndc, _ = p.Project(Vec3(0, 0, -100))
	assertNear(t, "z far", ndc.Z, 1)
}

// --- LookAt ---

func TestLookAtForward(t *testing.T) {
	eye := Vec3(0, 0, 5)
	m := NewLookAt(eye, Vec3(0, 0, 0), V3Up)
	// Model matrix: -Z axis of the oriented frame points toward the center.
	fwd := m.MulDir(Vec3(0, 0, -1))
	assertVec3(t, "forward", fwd, Vec3(0, 0, -1))
	assertVec3(t, "position", m.MulPoint(Vector3{}), eye)
}

func TestLookAtDegenerateUp(t *testing.T) {
	// Looking straight down with up = +Y: the up hint is parallel to the
	// view direction and a fallback right axis must be chosen.
	m := NewLookAt(Vec3(0, 10, 0), Vec3(0, 0, 0), V3Up)
	fwd := m.MulDir(Vec3(0, 0, -1))
	assertVec3(t, "forward", fwd, Vec3(0, -1, 0))
}

// --- NormalMatrix ---

func TestNormalMatrixUniformScale(t *testing.T) {
	// Under uniform scale the normal direction is unchanged.
	nm := NewScale(Vec3(2, 2, 2)).NormalMatrix()
	n := nm.MulVec(Vec3(0, 1, 0)).Normalized()
	assertVec3(t, "normal", n, Vec3(0, 1, 0))
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// A 45-degree surface normal under scale (2,1,1): the plain linear part
	// would tilt it wrong; the inverse-transpose corrects it.
	nm := NewScale(Vec3(2, 1, 1)).NormalMatrix()
	n := nm.MulVec(Vec3(1, 1, 0).Normalized()).Normalized()
	// Surface x+2y=c after scaling; normal (1/2, 1) normalized.
	want := Vec3(0.5, 1, 0).Normalized()
	assertVec3(t, "normal", n, want)
}

func TestNormalMatrixRotationOnly(t *testing.T) {
	r := NewQuaternionAxisAngle(Vec3(1, 0, 0), 0.7)
	nm := r.Matrix().NormalMatrix()
	n := Vec3(0, 1, 0)
	assertVec3(t, "normal", nm.MulVec(n), r.Rotate(n))
}
