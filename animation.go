package banyan

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenColor) and call Update(dt) each frame, or hand the group to
// Scene.AddTween to have the scene drive it. The group auto-applies values
// and marks the node's transform changed. If the target node is disposed,
// the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float32
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target
// fields, and marks the node's transform changed. If the target node has been
// disposed, Done is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition creates a TweenGroup that animates node.Position to the given
// target point over the specified duration using the easing function.
func TweenPosition(node *Node, to Vector3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	g.tweens[0] = gween.New(node.Position.X, to.X, duration, fn)
	g.tweens[1] = gween.New(node.Position.Y, to.Y, duration, fn)
	g.tweens[2] = gween.New(node.Position.Z, to.Z, duration, fn)
	g.fields[0] = &node.Position.X
	g.fields[1] = &node.Position.Y
	g.fields[2] = &node.Position.Z
	return g
}

// TweenScale creates a TweenGroup that animates node.Scale to the given
// target factors over the specified duration using the easing function.
func TweenScale(node *Node, to Vector3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	g.tweens[0] = gween.New(node.Scale.X, to.X, duration, fn)
	g.tweens[1] = gween.New(node.Scale.Y, to.Y, duration, fn)
	g.tweens[2] = gween.New(node.Scale.Z, to.Z, duration, fn)
	g.fields[0] = &node.Scale.X
	g.fields[1] = &node.Scale.Y
	g.fields[2] = &node.Scale.Z
	return g
}

// TweenColor creates a TweenGroup that animates all four components of the
// model override material's color to the target color. The node must carry a
// model with an Override material; otherwise the group is immediately Done.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Model == nil || node.Model.Override == nil {
		return &TweenGroup{target: node, Done: true}
	}
	c := &node.Model.Override.Color
	g := &TweenGroup{count: 4, target: node}
	g.tweens[0] = gween.New(c.R, to.R, duration, fn)
	g.tweens[1] = gween.New(c.G, to.G, duration, fn)
	g.tweens[2] = gween.New(c.B, to.B, duration, fn)
	g.tweens[3] = gween.New(c.A, to.A, duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}

// TweenFocusDistance creates a TweenGroup that animates the camera's focus
// distance (a dolly for orthographic cameras). The node must carry a camera;
// otherwise the group is immediately Done.
func TweenFocusDistance(node *Node, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Camera == nil {
		return &TweenGroup{target: node, Done: true}
	}
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(node.Camera.FocusDistance, to, duration, fn)
	g.fields[0] = &node.Camera.FocusDistance
	return g
}

// AddTween hands a tween group to the scene; Scene.Update advances it until
// Done and then drops it.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// stepTweens advances scene-owned tween groups and compacts out finished ones.
func (s *Scene) stepTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}
