package banyan

import "github.com/chewxy/math32"

// Frustum holds the 8 world-space corners of a camera's view volume,
// ordered near{TL, BL, BR, TR} then far{TL, BL, BR, TR}.
type Frustum [8]Vector3

// Frustum corner indices.
const (
	FrustumNearTopLeft = iota
	FrustumNearBottomLeft
	FrustumNearBottomRight
	FrustumNearTopRight
	FrustumFarTopLeft
	FrustumFarBottomLeft
	FrustumFarBottomRight
	FrustumFarTopRight
)

// Center returns the centroid of the frustum corners.
func (f Frustum) Center() Vector3 {
	var c Vector3
	for _, p := range f {
		c = c.Add(p)
	}
	return c.Scale(1.0 / 8)
}

// Frustum computes the world-space view frustum for rendering onto region.
// ok is false when the node has no camera attachment — an absent result,
// not an error.
//
// The corners equal the inverse view-projection of the 8 NDC cube corners;
// they are computed directly from the camera pose and the projection
// half-heights, which is cheaper and avoids a matrix inversion.
func (n *Node) Frustum(region Rect) (Frustum, bool) {
	cam := n.Camera
	if cam == nil {
		return Frustum{}, false
	}

	eye := cam.eye()
	rot := cam.orientation()
	fwd := rot.Rotate(Vector3{0, 0, -1})
	up := rot.Rotate(Vector3{0, 1, 0})
	right := rot.Rotate(Vector3{1, 0, 0})

	aspect := cam.aspectFor(region)
	var hNear, hFar float32
	if cam.Kind == ProjectionOrthographic {
		// Constant half-height, sized at the focus distance.
		h := math32.Tan(cam.FOVY/2) * cam.FocusDistance
		hNear, hFar = h, h
	} else {
		// Half-height scales with distance.
		t := math32.Tan(cam.FOVY / 2)
		hNear, hFar = t*cam.Near, t*cam.Far
	}

	var f Frustum
	writePlane := func(base int, center Vector3, h float32) {
		w := h * aspect
		u := up.Scale(h)
		r := right.Scale(w)
		f[base+0] = center.Add(u).Sub(r) // top left
		f[base+1] = center.Sub(u).Sub(r) // bottom left
		f[base+2] = center.Sub(u).Add(r) // bottom right
		f[base+3] = center.Add(u).Add(r) // top right
	}
	writePlane(FrustumNearTopLeft, eye.Add(fwd.Scale(cam.Near)), hNear)
	writePlane(FrustumFarTopLeft, eye.Add(fwd.Scale(cam.Far)), hFar)
	return f, true
}

// Unproject maps a normalized-device-coordinate point (each component in
// [-1, 1], Z = -1 at the near plane) back to scene space using the inverse
// view-projection matrix.
func Unproject(ndc Vector3, invViewProjection Matrix4) Vector3 {
	p, _ := invViewProjection.Project(ndc)
	return p
}

// ScreenRay converts a pixel position within region into a scene-space Ray
// using the node's camera. ok is false when the node has no camera or the
// view-projection is not invertible.
func (n *Node) ScreenRay(region Rect, sx, sy float32) (Ray, bool) {
	cam := n.Camera
	if cam == nil || region.Width <= 0 || region.Height <= 0 {
		return Ray{}, false
	}
	inv, ok := cam.ViewProjection(region).Inverse()
	if !ok {
		return Ray{}, false
	}
	// Pixel to NDC; pixel Y grows downward, NDC Y grows upward.
	ndcX := (sx-region.X)/region.Width*2 - 1
	ndcY := 1 - (sy-region.Y)/region.Height*2
	near := Unproject(Vector3{ndcX, ndcY, -1}, inv)
	far := Unproject(Vector3{ndcX, ndcY, 1}, inv)
	dir := far.Sub(near)
	if dir.LengthSq() == 0 {
		return Ray{}, false
	}
	return NewRay(near, dir), true
}
