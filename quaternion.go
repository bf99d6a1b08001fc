package banyan

import "github.com/chewxy/math32"

// Quaternion is a unit quaternion representing a 3D rotation.
// The zero value is NOT a valid rotation; use QuaternionIdentity.
type Quaternion struct {
	X, Y, Z, W float32
}

// QuaternionIdentity is the no-rotation quaternion.
var QuaternionIdentity = Quaternion{0, 0, 0, 1}

// NewQuaternionAxisAngle returns the rotation of angle radians about axis.
// The axis need not be normalized.
func NewQuaternionAxisAngle(axis Vector3, angle float32) Quaternion {
	a := axis.Normalized()
	s := math32.Sin(angle / 2)
	return Quaternion{a.X * s, a.Y * s, a.Z * s, math32.Cos(angle / 2)}
}

// Mul returns the composed rotation q * o: applying the result rotates by o
// first, then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Inverse returns the inverse rotation. For unit quaternions this is the
// conjugate.
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

// Normalized returns q scaled to unit length. Returns the identity when q
// has (near-)zero length.
func (q Quaternion) Normalized() Quaternion {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < 1e-12 {
		return QuaternionIdentity
	}
	return Quaternion{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to the vector v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	// v' = v + 2*qv x (qv x v + w*v)
	qv := Vector3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// Matrix returns the rotation as a 4x4 matrix.
func (q Quaternion) Matrix() Matrix4 {
	x2 := q.X + q.X
	y2 := q.Y + q.Y
	z2 := q.Z + q.Z
	xx := q.X * x2
	xy := q.X * y2
	xz := q.X * z2
	yy := q.Y * y2
	yz := q.Y * z2
	zz := q.Z * z2
	wx := q.W * x2
	wy := q.W * y2
	wz := q.W * z2
	return Matrix4{
		1 - (yy + zz), xy + wz, xz - wy, 0,
		xy - wz, 1 - (xx + zz), yz + wx, 0,
		xz + wy, yz - wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}
}

// quaternionFromMatrix extracts the rotation from a pure rotation matrix
// (orthonormal linear part, no scale). Shepperd's method: branch on the
// largest diagonal term for numerical stability.
func quaternionFromMatrix(m Matrix4) Quaternion {
	m00, m01, m02 := m[0], m[4], m[8]
	m10, m11, m12 := m[1], m[5], m[9]
	m20, m21, m22 := m[2], m[6], m[10]

	trace := m00 + m11 + m22
	var q Quaternion
	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		q = Quaternion{
			(m21 - m12) * s,
			(m02 - m20) * s,
			(m10 - m01) * s,
			0.25 / s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math32.Sqrt(1+m00-m11-m22)
		q = Quaternion{
			0.25 * s,
			(m01 + m10) / s,
			(m02 + m20) / s,
			(m21 - m12) / s,
		}
	case m11 > m22:
		s := 2 * math32.Sqrt(1+m11-m00-m22)
		q = Quaternion{
			(m01 + m10) / s,
			0.25 * s,
			(m12 + m21) / s,
			(m02 - m20) / s,
		}
	default:
		s := 2 * math32.Sqrt(1+m22-m00-m11)
		q = Quaternion{
			(m02 + m20) / s,
			(m12 + m21) / s,
			0.25 * s,
			(m10 - m01) / s,
		}
	}
	return q.Normalized()
}

// LookRotation returns the rotation orienting -Z toward dir with the given
// up hint, the orientation convention shared by cameras and look-at
// constraints.
func LookRotation(dir, up Vector3) Quaternion {
	m := NewLookAt(Vector3{}, dir, up)
	return quaternionFromMatrix(m)
}
