package banyan

import "github.com/chewxy/math32"

// Camera is an attribute bag attached to a node via Node.SetCamera. The
// node supplies position and orientation (the "point of view"); the Camera
// supplies projection parameters.
type Camera struct {
	// Kind selects perspective or orthographic projection.
	Kind ProjectionKind

	// FOVY is the vertical field of view in radians.
	FOVY float32

	// Near and Far are the clip plane distances.
	Near, Far float32

	// Aspect fixes the width/height ratio. Zero derives it from the target
	// region at projection time.
	Aspect float32

	// FocusDistance sizes the orthographic projection: the vertical extent
	// equals 2 * tan(FOVY/2) * FocusDistance, matching what a perspective
	// camera would see at that distance.
	FocusDistance float32

	// Target, when set, orients the camera toward the target node's scene
	// translation instead of using the node's own rotation. A non-owning
	// relation: a disposed target is ignored.
	Target *Node

	// node is the back-pointer set by Node.SetCamera.
	node *Node
}

// NewCamera returns a perspective camera with common defaults
// (60 degree FOV, near 0.1, far 1000, focus 10).
func NewCamera() *Camera {
	return &Camera{
		Kind:          ProjectionPerspective,
		FOVY:          math32.Pi / 3,
		Near:          0.1,
		Far:           1000,
		FocusDistance: 10,
	}
}

// aspectFor resolves the aspect-ratio policy against a target region.
func (c *Camera) aspectFor(region Rect) float32 {
	if c.Aspect > 0 {
		return c.Aspect
	}
	return region.Aspect()
}

// Projection builds the projection matrix for rendering onto region.
func (c *Camera) Projection(region Rect) Matrix4 {
	aspect := c.aspectFor(region)
	if c.Kind == ProjectionOrthographic {
		halfH := math32.Tan(c.FOVY/2) * c.FocusDistance
		return NewOrthographic(halfH*aspect, halfH, c.Near, c.Far)
	}
	return NewPerspective(c.FOVY, aspect, c.Near, c.Far)
}

// eye returns the camera node's scene translation.
func (c *Camera) eye() Vector3 {
	if c.node == nil {
		return Vector3{}
	}
	return c.node.ScenePosition()
}

// orientation returns the camera's world rotation: toward Target when one is
// set and alive, otherwise the node's scene rotation. Node scale never
// affects the view.
func (c *Camera) orientation() Quaternion {
	if c.Target != nil && !c.Target.IsDisposed() {
		dir := c.Target.ScenePosition().Sub(c.eye())
		if dir.LengthSq() > 0 {
			return LookRotation(dir, V3Up)
		}
	}
	if c.node == nil {
		return QuaternionIdentity
	}
	return c.node.SceneRotation()
}

// ViewMatrix returns the world-to-view matrix: the inverse of the camera
// pose (translation and rotation only).
func (c *Camera) ViewMatrix() Matrix4 {
	rot := c.orientation()
	return rot.Inverse().Matrix().Mul(NewTranslation(c.eye().Negate()))
}

// ViewProjection returns projection * view for rendering onto region.
func (c *Camera) ViewProjection(region Rect) Matrix4 {
	return c.Projection(region).Mul(c.ViewMatrix())
}
