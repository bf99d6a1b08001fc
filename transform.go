package banyan

// Transform caching uses a single monotonically increasing change epoch
// (transformEpoch) instead of dirty-bit propagation through subtrees.
// Every local or structural change stamps the node with the current epoch;
// a node's cached scene matrix is valid iff it reflects the newest change
// epoch among the node and its ancestors. Setting a transform is therefore
// O(1) and resolution is O(depth), with no allocation and no observer graph.

// transformEpoch is the global change counter. Like node IDs it is a plain
// package variable: banyan runs scene mutation, rendering, and queries on a
// single control thread.
var transformEpoch uint64

// markChanged records that this node's local transform or place in the tree
// changed, invalidating its own and every descendant's cached scene matrix
// (descendants compare against ancestor epochs on resolution, so no walk is
// needed here).
func (n *Node) markChanged() {
	transformEpoch++
	n.changedEpoch = transformEpoch
}

// --- Transform property setters ---

// SetPosition sets the node's local translation.
func (n *Node) SetPosition(p Vector3) {
	n.Position = p
	n.localDirty = true
	n.markChanged()
}

// SetRotation sets the node's local rotation.
func (n *Node) SetRotation(r Quaternion) {
	n.Rotation = r
	n.localDirty = true
	n.markChanged()
}

// SetScale sets the node's local scale.
func (n *Node) SetScale(s Vector3) {
	n.Scale = s
	n.localDirty = true
	n.markChanged()
}

// MarkDirty marks the node's transform as changed, forcing recomputation on
// the next query. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.localDirty = true
	n.markChanged()
}

// --- Resolution ---

// LocalTransform returns the node's local matrix, the composition
// Translate * Rotate * Scale, recomposed lazily after any component is set.
func (n *Node) LocalTransform() Matrix4 {
	if n.localDirty {
		n.localMatrix = Compose(n.Position, n.Rotation, n.Scale)
		n.localDirty = false
	}
	return n.localMatrix
}

// newestAncestorEpoch returns the newest change epoch among the node and its
// ancestors: the epoch its scene matrix must reflect to be current.
func (n *Node) newestAncestorEpoch() uint64 {
	e := n.changedEpoch
	for p := n.Parent; p != nil; p = p.Parent {
		if p.changedEpoch > e {
			e = p.changedEpoch
		}
	}
	return e
}

// SceneTransform returns the node's world-space matrix:
// parent.SceneTransform * LocalTransform, or LocalTransform alone for a
// root. The result is cached and recomputed only when this node or an
// ancestor has changed since the cached value was produced — a stale value
// is never observable.
func (n *Node) SceneTransform() Matrix4 {
	e := n.newestAncestorEpoch()
	if n.resolvedTo == e {
		return n.sceneMatrix
	}
	if n.Parent != nil {
		n.sceneMatrix = n.Parent.SceneTransform().Mul(n.LocalTransform())
	} else {
		n.sceneMatrix = n.LocalTransform()
	}
	n.resolvedTo = e
	return n.sceneMatrix
}

// resolveDecomposition refreshes the cached scene-space translation,
// rotation, and scale if stale.
func (n *Node) resolveDecomposition() {
	e := n.newestAncestorEpoch()
	if n.decompEpoch == e {
		return
	}
	n.scenePos, n.sceneRot, n.sceneScl = n.SceneTransform().Decompose()
	n.decompEpoch = e
}

// ScenePosition returns the node's world-space translation.
func (n *Node) ScenePosition() Vector3 {
	n.resolveDecomposition()
	return n.scenePos
}

// SceneRotation returns the node's world-space rotation.
func (n *Node) SceneRotation() Quaternion {
	n.resolveDecomposition()
	return n.sceneRot
}

// SceneScale returns the node's world-space scale.
func (n *Node) SceneScale() Vector3 {
	n.resolveDecomposition()
	return n.sceneScl
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate
// space. Returns the point unchanged when the scene transform is singular
// (zero scale on some axis).
func (n *Node) WorldToLocal(p Vector3) Vector3 {
	inv, ok := n.SceneTransform().Inverse()
	if !ok {
		return p
	}
	return inv.MulPoint(p)
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p Vector3) Vector3 {
	return n.SceneTransform().MulPoint(p)
}
