package banyan

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// OverlayWidget is a HUD element drawn by a viewport after the opaque pass.
type OverlayWidget interface {
	Update(dt float32)
	Draw(target *ebiten.Image)
}

// Viewport maps a scene, seen from a point-of-view node, onto a pixel
// region of the render target. It also participates in the responder chain:
// events the viewport does not handle fall through to its target responder.
type Viewport struct {
	// Region is the screen-space pixel rectangle this viewport renders into.
	Region Rect

	// Scene is the presented scene. Nil means the viewport draws nothing.
	Scene *Scene

	pov     *Node
	overlay []OverlayWidget
	next    Responder
}

// NewViewport creates a viewport covering the given region.
func NewViewport(region Rect) *Viewport {
	return &Viewport{Region: region}
}

// SetPointOfView sets the node supplying the camera pose. The node should
// carry a camera attachment; without one the render pipeline skips this
// viewport entirely.
func (v *Viewport) SetPointOfView(n *Node) {
	v.pov = n
}

// PointOfView returns the current point-of-view node, or nil.
func (v *Viewport) PointOfView() *Node {
	return v.pov
}

// AddOverlay appends a HUD widget drawn after the opaque pass, in add order.
func (v *Viewport) AddOverlay(w OverlayWidget) {
	v.overlay = append(v.overlay, w)
}

// Update advances overlay widgets. Scene updates are the caller's
// responsibility (scenes may be shared across viewports).
func (v *Viewport) Update(dt float32) {
	for _, w := range v.overlay {
		w.Update(dt)
	}
}

// renderOverlay draws the HUD widgets clipped to the viewport region.
func (v *Viewport) renderOverlay(target *ebiten.Image) {
	if len(v.overlay) == 0 {
		return
	}
	sub := target.SubImage(image.Rect(
		int(v.Region.X), int(v.Region.Y),
		int(v.Region.X+v.Region.Width), int(v.Region.Y+v.Region.Height),
	)).(*ebiten.Image)
	for _, w := range v.overlay {
		w.Draw(sub)
	}
}

// ScreenRay converts a screen pixel position into a scene-space ray from
// the viewport's camera. ok is false when the position is outside the
// region or the viewport has no usable point of view.
func (v *Viewport) ScreenRay(sx, sy float32) (Ray, bool) {
	if v.pov == nil || v.pov.IsDisposed() || !v.Region.Contains(sx, sy) {
		return Ray{}, false
	}
	return v.pov.ScreenRay(v.Region, sx, sy)
}

// Pick casts a ray through the given screen position and returns the hit
// nodes ordered by ascending collision distance. An empty result means
// nothing was hit (or the viewport has no scene or camera).
func (v *Viewport) Pick(sx, sy float32) []Hit {
	if v.Scene == nil {
		return nil
	}
	ray, ok := v.ScreenRay(sx, sy)
	if !ok {
		return nil
	}
	return v.Scene.Raycast(ray).Sorted()
}

// --- Responder chain ---

// SetNextResponder sets the responder events fall through to when the
// viewport does not handle them (the chain's "target").
func (v *Viewport) SetNextResponder(r Responder) {
	v.next = r
}

// HandleEvent implements Responder. The viewport handles nothing itself;
// it exists in the chain so a window can route events toward a viewport's
// target.
func (v *Viewport) HandleEvent(e Event) bool {
	return false
}

// NextResponder implements Responder.
func (v *Viewport) NextResponder() Responder {
	return v.next
}
