package banyan

import "github.com/chewxy/math32"

// Shape is a collision volume attached to a node for raycast picking. The
// shape is defined in the node's local space and tested against rays in
// scene space using the node's current scene translation/rotation/scale.
type Shape interface {
	// IntersectRay returns the distance along ray to the nearest
	// intersection with the shape as placed by node n. ok is false when
	// the ray misses. backfaceCull skips hits seen from inside/behind.
	IntersectRay(ray Ray, n *Node, backfaceCull bool) (float32, bool)
}

// SphereShape is a sphere in node-local space. Non-uniform node scale
// scales the radius by the largest axis.
type SphereShape struct {
	Center Vector3
	Radius float32
}

// IntersectRay implements Shape by solving the ray-sphere quadratic.
func (s *SphereShape) IntersectRay(ray Ray, n *Node, backfaceCull bool) (float32, bool) {
	center := n.SceneTransform().MulPoint(s.Center)
	radius := s.Radius * n.SceneScale().MaxComponent()

	oc := ray.Origin.Sub(center)
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSq() - radius*radius
	disc := halfB*halfB - c
	if disc < 0 {
		return 0, false
	}
	sqrtD := math32.Sqrt(disc)

	t := -halfB - sqrtD // entry point
	if t < 0 {
		if backfaceCull {
			// Origin inside or past the sphere: the only forward hit
			// would be the back surface.
			return 0, false
		}
		t = -halfB + sqrtD // exit point
		if t < 0 {
			return 0, false
		}
	}
	return t, true
}

// BoxShape is an axis-aligned box in node-local space; the node's rotation
// makes it an oriented box in scene space.
type BoxShape struct {
	Box Box3
}

// NewBoxShape returns a box shape spanning min to max in local space.
func NewBoxShape(min, max Vector3) *BoxShape {
	return &BoxShape{Box: NewBox3(min, max)}
}

// IntersectRay implements Shape with a slab test in the node's local space.
// The ray is mapped through the inverse scene transform; because an affine
// map preserves the ray parameter, the local-space parameter is the
// scene-space distance for a normalized input direction.
func (b *BoxShape) IntersectRay(ray Ray, n *Node, backfaceCull bool) (float32, bool) {
	inv, ok := n.SceneTransform().Inverse()
	if !ok {
		return 0, false
	}
	o := inv.MulPoint(ray.Origin)
	d := inv.MulDir(ray.Direction)

	tMin := math32.Inf(-1)
	tMax := math32.Inf(1)
	bounds := [2]Vector3{b.Box.Min, b.Box.Max}

	for axis := 0; axis < 3; axis++ {
		var ro, rd, lo, hi float32
		switch axis {
		case 0:
			ro, rd, lo, hi = o.X, d.X, bounds[0].X, bounds[1].X
		case 1:
			ro, rd, lo, hi = o.Y, d.Y, bounds[0].Y, bounds[1].Y
		default:
			ro, rd, lo, hi = o.Z, d.Z, bounds[0].Z, bounds[1].Z
		}
		if rd == 0 {
			if ro < lo || ro > hi {
				return 0, false
			}
			continue
		}
		t0 := (lo - ro) / rd
		t1 := (hi - ro) / rd
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box; tMax is the back face.
		if backfaceCull {
			return 0, false
		}
		return tMax, true
	}
	return tMin, true
}
