package banyan

// Scene is the top-level object that owns the node tree root and the derived
// model/light node indices used by the render pipeline.
type Scene struct {
	root *Node

	// generation counts Update calls. Constraint application and per-frame
	// caches are keyed by it.
	generation uint64

	// structureDirty is set on node add/remove/attachment change and forces
	// the next ModelNodes/LightNodes call to rebuild by a full subtree scan.
	// The indices are never rebuilt merely because a frame passed.
	structureDirty bool
	modelNodes     []*Node
	lightNodes     []*Node

	// Tweens owned by the scene, advanced each Update (animation.go).
	tweens []*TweenGroup

	updateFunc func(dt float32)

	debug bool
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	root := NewNode("root")
	s := &Scene{root: root, structureDirty: true}
	root.scene = s
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Generation returns the scene's current update generation.
func (s *Scene) Generation() uint64 {
	return s.generation
}

// Update advances the scene by one frame step: the generation increments,
// owned tweens advance, and node constraints are applied once for the new
// generation. dt is the frame delta in seconds.
func (s *Scene) Update(dt float32) {
	s.generation++
	if s.updateFunc != nil {
		s.updateFunc(dt)
	}
	s.stepTweens(dt)
	applyConstraints(s.root, s.generation, dt)
}

// SetUpdateFunc registers a per-frame callback invoked at the start of each
// Update, before tweens and constraints run. Pass nil to clear.
func (s *Scene) SetUpdateFunc(fn func(dt float32)) {
	s.updateFunc = fn
}

// ModelNodes returns every node in the tree carrying a renderable model,
// visible or not; visibility is filtered at draw time. The cached index is
// rebuilt only after a structural mutation.
// The returned slice MUST NOT be mutated by the caller.
func (s *Scene) ModelNodes() []*Node {
	s.rebuildIndices()
	return s.modelNodes
}

// LightNodes returns the nodes carrying a light attachment.
// The returned slice MUST NOT be mutated by the caller.
func (s *Scene) LightNodes() []*Node {
	s.rebuildIndices()
	return s.lightNodes
}

func (s *Scene) rebuildIndices() {
	if !s.structureDirty {
		return
	}
	s.modelNodes = s.modelNodes[:0]
	s.lightNodes = s.lightNodes[:0]
	for n := range s.root.Descendants(nil) {
		if n.Model != nil {
			s.modelNodes = append(s.modelNodes, n)
		}
		if n.Light != nil {
			s.lightNodes = append(s.lightNodes, n)
		}
	}
	s.structureDirty = false
}

// Raycast returns a single-pass query testing the ray against every node in
// the scene that carries a collision shape. See RaycastQuery.
func (s *Scene) Raycast(ray Ray) *RaycastQuery {
	return NewRaycastQuery(ray, s.root.Descendants(nil))
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth warnings are printed, and per-frame pipeline
// timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
