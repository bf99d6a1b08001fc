package banyan

import "iter"

// nodeIDCounter is a plain counter (no atomic — banyan is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element: one place in the hierarchy,
// carrying a local transform and optional typed attachments. A single flat
// struct with fixed attachment slots is used instead of per-kind node types
// to keep "nodes with a model" a plain filter over the tree.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Use the Set* methods so change tracking fires;
	// after writing fields directly, call MarkDirty.
	Position Vector3
	Rotation Quaternion
	Scale    Vector3

	// Attachments (nil when absent)
	Camera *Camera
	Light  *Light
	Model  *Model
	Shape  Shape

	// Constraint, when non-nil, adjusts this node's local transform once
	// per scene generation during Scene.Update.
	Constraint    Constraint
	constraintGen uint64

	Visible bool

	// Metadata
	UserData any

	// Transform caches (transform.go)
	localMatrix  Matrix4
	localDirty   bool
	sceneMatrix  Matrix4
	resolvedTo   uint64 // epoch the cached sceneMatrix reflects
	changedEpoch uint64 // epoch of the last local or structural change
	decompEpoch  uint64 // epoch of the cached decomposition below
	scenePos     Vector3
	sceneRot     Quaternion
	sceneScl     Vector3

	// scene is the owning Scene back-pointer, set on the root node only.
	// A non-owning relation: the Scene owns the root, never the reverse.
	scene *Scene

	// Internal
	disposed bool
}

// NewNode creates a detached node with identity transform and no attachments.
func NewNode(name string) *Node {
	n := &Node{
		Name:     name,
		Rotation: QuaternionIdentity,
		Scale:    V3One,
		Visible:  true,
	}
	n.ID = nextNodeID()
	n.localDirty = true
	n.markChanged()
	return n
}

// --- Attachment setters ---
// Attachment changes invalidate the owning scene's model/light indices.

// SetCamera attaches camera parameters to this node. Pass nil to detach.
func (n *Node) SetCamera(c *Camera) {
	n.Camera = c
	if c != nil {
		c.node = n
	}
	n.invalidateSceneIndices()
}

// SetLight attaches a light to this node. Pass nil to detach.
func (n *Node) SetLight(l *Light) {
	n.Light = l
	if l != nil {
		l.node = n
	}
	n.invalidateSceneIndices()
}

// SetModel attaches a renderable model to this node. Pass nil to detach.
func (n *Node) SetModel(m *Model) {
	n.Model = m
	n.invalidateSceneIndices()
}

// SetShape attaches a collision shape used by raycast queries.
// Pass nil to detach.
func (n *Node) SetShape(s Shape) {
	n.Shape = s
	n.invalidateSceneIndices()
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("banyan: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("banyan: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.invalidateSceneIndices()
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	child.markChanged()
	n.invalidateSceneIndices()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("banyan: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("banyan: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("banyan: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.invalidateSceneIndices()
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.markChanged()
	n.invalidateSceneIndices()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("banyan: child's parent is not this node")
	}
	n.invalidateSceneIndices()
	n.removeChildByPtr(child)
	child.Parent = nil
	child.markChanged()
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("banyan: child index out of range")
	}
	child := n.children[index]
	n.invalidateSceneIndices()
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	child.markChanged()
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	n.invalidateSceneIndices()
	for _, child := range n.children {
		child.Parent = nil
		child.markChanged()
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Traversal ---

// Descendants returns a lazy depth-first sequence of the nodes below this
// node, in child-list order, filtered by match (nil = all). The sequence is
// restartable: each range over it starts a fresh traversal, and the predicate
// is evaluated only as candidates are produced, so an early break does no
// further work.
func (n *Node) Descendants(match func(*Node) bool) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkDescendants(n, match, yield)
	}
}

func walkDescendants(n *Node, match func(*Node) bool, yield func(*Node) bool) bool {
	for _, child := range n.children {
		if match == nil || match(child) {
			if !yield(child) {
				return false
			}
		}
		if !walkDescendants(child, match, yield) {
			return false
		}
	}
	return true
}

// Find returns the first descendant with the given name, or nil.
func (n *Node) Find(name string) *Node {
	for d := range n.Descendants(func(c *Node) bool { return c.Name == name }) {
		return d
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Camera = nil
	n.Light = nil
	n.Model = nil
	n.Shape = nil
	n.Constraint = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// invalidateSceneIndices marks the owning scene's model/light node indices
// dirty. No-op for detached subtrees. O(depth): walks to the root and checks
// its scene back-pointer.
func (n *Node) invalidateSceneIndices() {
	if s := n.ownerScene(); s != nil {
		s.structureDirty = true
	}
}

// ownerScene returns the Scene owning this node's tree, or nil when detached.
func (n *Node) ownerScene() *Scene {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root.scene
}
