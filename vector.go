package banyan

import "github.com/chewxy/math32"

// Vector2 is a 2D vector used for screen points and region sizes.
type Vector2 struct {
	X, Y float32
}

// Vector3 is a 3D vector used for positions, directions, scales, and offsets
// throughout the API.
type Vector3 struct {
	X, Y, Z float32
}

// Vec3 is shorthand for Vector3{x, y, z}.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

// V3One is the unit scale vector (1, 1, 1).
var V3One = Vector3{1, 1, 1}

// V3Up is the world up axis (+Y).
var V3Up = Vector3{0, 1, 0}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product of v and o.
func (v Vector3) Mul(o Vector3) Vector3 {
	return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSq returns the squared length of v. Cheaper than Length when only
// comparing distances.
func (v Vector3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalized returns v scaled to unit length. Returns the zero vector when v
// has (near-)zero length.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l < 1e-12 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vector3) DistanceTo(o Vector3) float32 {
	return o.Sub(v).Length()
}

// Lerp returns the linear interpolation between v and o at t.
// t = 0 returns v; t = 1 returns o.
func (v Vector3) Lerp(o Vector3, t float32) Vector3 {
	return Vector3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// MaxComponent returns the largest of X, Y, Z.
func (v Vector3) MaxComponent() float32 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

// Vector4 is a homogeneous 4D vector, used for clip-space positions.
type Vector4 struct {
	X, Y, Z, W float32
}

// Box3 is an axis-aligned bounding box in 3D space.
type Box3 struct {
	Min, Max Vector3
}

// NewBox3 returns the box spanning the given corners.
func NewBox3(min, max Vector3) Box3 {
	return Box3{Min: min, Max: max}
}

// Size returns the box dimensions (Max - Min).
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center point.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Union returns the smallest box containing both b and o.
func (b Box3) Union(o Box3) Box3 {
	return Box3{
		Min: Vector3{
			math32.Min(b.Min.X, o.Min.X),
			math32.Min(b.Min.Y, o.Min.Y),
			math32.Min(b.Min.Z, o.Min.Z),
		},
		Max: Vector3{
			math32.Max(b.Max.X, o.Max.X),
			math32.Max(b.Max.Y, o.Max.Y),
			math32.Max(b.Max.Z, o.Max.Z),
		},
	}
}

// ExpandByPoint returns the box grown to include p.
func (b Box3) ExpandByPoint(p Vector3) Box3 {
	return b.Union(Box3{Min: p, Max: p})
}
