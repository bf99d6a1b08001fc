package banyan

import (
	"iter"
	"sort"
)

// Ray is an origin and normalized direction in scene space. Immutable value.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay returns a ray with dir normalized.
func NewRay(origin, dir Vector3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalized()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) Vector3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit is one raycast result: the hit node and the distance along the ray.
type Hit struct {
	Node     *Node
	Distance float32
}

// RaycastQuery lazily tests a frozen ray against a sequence of candidate
// nodes, yielding a hit for each node that carries a collision shape the
// ray intersects.
//
// The query is single-pass: Hits (or Sorted) may be consumed once, and a
// second consumption panics. This is deliberately a different contract from
// Node.Descendants, which is a restartable pure function of the tree.
//
// The query reads node transforms as it iterates; it is a
// snapshot-at-iteration-time operation. Structurally mutating the tree
// while a query is being consumed is undefined.
type RaycastQuery struct {
	ray   Ray
	nodes iter.Seq[*Node]

	// BackfaceCull skips intersections entered from inside or behind the
	// shape surface. Disabled by default, the useful setting for picking.
	BackfaceCull bool

	consumed bool
}

// NewRaycastQuery creates a query over the given candidate nodes, typically
// scene.Root().Descendants(nil).
func NewRaycastQuery(ray Ray, nodes iter.Seq[*Node]) *RaycastQuery {
	return &RaycastQuery{ray: ray, nodes: nodes}
}

// Ray returns the query's frozen ray.
func (q *RaycastQuery) Ray() Ray {
	return q.ray
}

// Hits yields (node, distance) pairs in candidate order for nodes whose
// collision shape intersects the ray. Nodes without a shape are never
// yielded. Panics if the query has already been consumed.
func (q *RaycastQuery) Hits() iter.Seq[Hit] {
	if q.consumed {
		panic("banyan: raycast query already consumed")
	}
	q.consumed = true
	return func(yield func(Hit) bool) {
		for n := range q.nodes {
			if n.Shape == nil {
				continue
			}
			d, ok := n.Shape.IntersectRay(q.ray, n, q.BackfaceCull)
			if !ok {
				continue
			}
			if !yield(Hit{Node: n, Distance: d}) {
				return
			}
		}
	}
}

// Sorted materializes the full result set ordered by ascending collision
// distance. Equal distances keep candidate (traversal) order. Consumes the
// query.
func (q *RaycastQuery) Sorted() []Hit {
	var hits []Hit
	for h := range q.Hits() {
		hits = append(hits, h)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
