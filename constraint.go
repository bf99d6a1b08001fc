package banyan

// Constraint adjusts a node's local transform from some external reference,
// typically another node. Constraints are applied by Scene.Update exactly
// once per generation, in depth-first tree order, after all of the previous
// frame's transforms are resolvable.
//
// Mutual constraints (A targets B while B targets A) do not converge within
// a frame: each application reads the target's transform as most recently
// resolved, so a cycle settles over successive frames instead of recursing.
// See DESIGN.md for the evaluation-order decision.
type Constraint interface {
	// Apply adjusts n's local transform. dt is the frame delta in seconds.
	Apply(n *Node, dt float32)
}

// LookAtConstraint orients the node so its -Z axis points at the target
// node's scene translation.
type LookAtConstraint struct {
	Target *Node
	// Up is the up hint for roll; the zero value means world +Y.
	Up Vector3
}

// Apply implements Constraint.
func (c *LookAtConstraint) Apply(n *Node, dt float32) {
	if c.Target == nil || c.Target.IsDisposed() || c.Target == n {
		return
	}
	up := c.Up
	if up == (Vector3{}) {
		up = V3Up
	}
	dir := c.Target.ScenePosition().Sub(n.ScenePosition())
	if dir.LengthSq() == 0 {
		return
	}
	world := LookRotation(dir, up)
	// The constraint produces a world-space orientation; convert to local
	// by removing the parent's rotation.
	local := world
	if n.Parent != nil {
		local = n.Parent.SceneRotation().Inverse().Mul(world)
	}
	n.SetRotation(local)
}

// FollowConstraint moves the node toward the target node's scene translation
// plus Offset. Lerp controls smoothing per frame: 1 snaps immediately, lower
// values trail behind (the same factor semantics as a camera follow).
type FollowConstraint struct {
	Target *Node
	Offset Vector3
	Lerp   float32
}

// Apply implements Constraint.
func (c *FollowConstraint) Apply(n *Node, dt float32) {
	if c.Target == nil || c.Target.IsDisposed() || c.Target == n {
		return
	}
	lerp := c.Lerp
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	goal := c.Target.ScenePosition().Add(c.Offset)
	if n.Parent != nil {
		goal = n.Parent.WorldToLocal(goal)
	}
	n.SetPosition(n.Position.Lerp(goal, lerp))
}

// applyConstraints walks the subtree depth-first and applies each pending
// constraint once for the given generation. Constraint application uses the
// ordinary transform setters, so downstream caches invalidate normally.
func applyConstraints(n *Node, gen uint64, dt float32) {
	for c := range n.Descendants(func(d *Node) bool { return d.Constraint != nil }) {
		if c.constraintGen == gen {
			continue
		}
		c.constraintGen = gen
		c.Constraint.Apply(c, dt)
	}
}
