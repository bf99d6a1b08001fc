package banyan

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 matrix in column-major order (OpenGL layout):
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Matrix4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewTranslation returns a matrix translating by t.
func NewTranslation(t Vector3) Matrix4 {
	m := Identity4()
	m[12] = t.X
	m[13] = t.Y
	m[14] = t.Z
	return m
}

// NewScale returns a matrix scaling by s.
func NewScale(s Vector3) Matrix4 {
	m := Identity4()
	m[0] = s.X
	m[5] = s.Y
	m[10] = s.Z
	return m
}

// Mul returns the matrix product m * o. Applying the result to a point is
// equivalent to applying o first, then m.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] = m[row]*o[c*4] +
				m[4+row]*o[c*4+1] +
				m[8+row]*o[c*4+2] +
				m[12+row]*o[c*4+3]
		}
	}
	return r
}

// MulPoint transforms the point v by m, including translation.
// The homogeneous W component is assumed to remain 1 (affine transforms).
func (m Matrix4) MulPoint(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulDir transforms the direction v by m, ignoring translation.
func (m Matrix4) MulDir(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms the homogeneous vector v by m.
func (m Matrix4) MulVec4(v Vector4) Vector4 {
	return Vector4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Project transforms the point v by m and performs the perspective divide.
// The returned W is the clip-space W prior to division; callers use it for
// near-plane rejection.
func (m Matrix4) Project(v Vector3) (Vector3, float32) {
	c := m.MulVec4(Vector4{v.X, v.Y, v.Z, 1})
	if c.W == 0 {
		return Vector3{}, 0
	}
	inv := 1 / c.W
	return Vector3{c.X * inv, c.Y * inv, c.Z * inv}, c.W
}

// Transpose returns the transpose of m.
func (m Matrix4) Transpose() Matrix4 {
	return Matrix4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Compose builds the local transform matrix T * R * S from translation,
// rotation, and scale.
func Compose(t Vector3, r Quaternion, s Vector3) Matrix4 {
	m := r.Matrix()
	m[0] *= s.X
	m[1] *= s.X
	m[2] *= s.X
	m[4] *= s.Y
	m[5] *= s.Y
	m[6] *= s.Y
	m[8] *= s.Z
	m[9] *= s.Z
	m[10] *= s.Z
	m[12] = t.X
	m[13] = t.Y
	m[14] = t.Z
	return m
}

// Decompose splits an affine TRS matrix into translation, rotation, and
// scale. Negative scales are not recovered (a flip folds into the rotation).
func (m Matrix4) Decompose() (t Vector3, r Quaternion, s Vector3) {
	t = Vector3{m[12], m[13], m[14]}
	s = Vector3{
		Vector3{m[0], m[1], m[2]}.Length(),
		Vector3{m[4], m[5], m[6]}.Length(),
		Vector3{m[8], m[9], m[10]}.Length(),
	}
	rm := m
	if s.X != 0 {
		rm[0] /= s.X
		rm[1] /= s.X
		rm[2] /= s.X
	}
	if s.Y != 0 {
		rm[4] /= s.Y
		rm[5] /= s.Y
		rm[6] /= s.Y
	}
	if s.Z != 0 {
		rm[8] /= s.Z
		rm[9] /= s.Z
		rm[10] /= s.Z
	}
	r = quaternionFromMatrix(rm)
	return t, r, s
}

// Inverse returns the inverse of m. ok is false when m is singular, in which
// case the identity matrix is returned.
func (m Matrix4) Inverse() (Matrix4, bool) {
	var inv Matrix4

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] +
		m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] -
		m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] +
		m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] -
		m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] -
		m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] +
		m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] -
		m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] +
		m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] +
		m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] -
		m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] +
		m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] -
		m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] -
		m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] +
		m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] -
		m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] +
		m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det > -1e-12 && det < 1e-12 {
		return Identity4(), false
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv, true
}

// NewPerspective returns a perspective projection matrix.
// fovY is the vertical field of view in radians.
func NewPerspective(fovY, aspect, near, far float32) Matrix4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)
	var m Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// NewOrthographic returns an orthographic projection matrix spanning
// [-halfW, halfW] x [-halfH, halfH] between the near and far planes.
func NewOrthographic(halfW, halfH, near, far float32) Matrix4 {
	nf := 1 / (near - far)
	var m Matrix4
	m[0] = 1 / halfW
	m[5] = 1 / halfH
	m[10] = 2 * nf
	m[14] = (far + near) * nf
	m[15] = 1
	return m
}

// NewLookAt returns a world-space orientation matrix for an observer at eye
// looking toward center, with the given up hint. The result places the
// observer's -Z axis toward center (the camera convention). It is a model
// matrix, not a view matrix; invert it (or use a view helper) for viewing.
func NewLookAt(eye, center, up Vector3) Matrix4 {
	fwd := center.Sub(eye).Normalized()
	if fwd.LengthSq() == 0 {
		fwd = Vector3{0, 0, -1}
	}
	right := fwd.Cross(up).Normalized()
	if right.LengthSq() == 0 {
		// fwd parallel to up; pick an arbitrary perpendicular.
		right = fwd.Cross(Vector3{1, 0, 0}).Normalized()
		if right.LengthSq() == 0 {
			right = Vector3{0, 0, 1}
		}
	}
	newUp := right.Cross(fwd)
	return Matrix4{
		right.X, right.Y, right.Z, 0,
		newUp.X, newUp.Y, newUp.Z, 0,
		-fwd.X, -fwd.Y, -fwd.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
}

// Matrix3 is a 3x3 matrix in column-major order, used for normal transforms.
type Matrix3 [9]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// MulVec transforms v by m.
func (m Matrix3) MulVec(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 of m,
// used to transform normals under non-uniform scale. Returns the plain
// upper-left 3x3 when m's linear part is singular.
func (m Matrix4) NormalMatrix() Matrix3 {
	a := Matrix3{m[0], m[1], m[2], m[4], m[5], m[6], m[8], m[9], m[10]}

	det := a[0]*(a[4]*a[8]-a[7]*a[5]) -
		a[3]*(a[1]*a[8]-a[7]*a[2]) +
		a[6]*(a[1]*a[5]-a[4]*a[2])
	if det > -1e-12 && det < 1e-12 {
		return a
	}
	invDet := 1 / det

	// Inverse, then transpose: write cofactors directly into transposed slots.
	return Matrix3{
		(a[4]*a[8] - a[7]*a[5]) * invDet,
		(a[6]*a[5] - a[3]*a[8]) * invDet,
		(a[3]*a[7] - a[6]*a[4]) * invDet,
		(a[7]*a[2] - a[1]*a[8]) * invDet,
		(a[0]*a[8] - a[6]*a[2]) * invDet,
		(a[6]*a[1] - a[0]*a[7]) * invDet,
		(a[1]*a[5] - a[4]*a[2]) * invDet,
		(a[3]*a[2] - a[0]*a[5]) * invDet,
		(a[0]*a[4] - a[3]*a[1]) * invDet,
	}
}
