// Package banyan is a retained-mode 3D scene graph for [Ebitengine].
//
// Banyan provides the node hierarchy, lazy world-transform resolution,
// cameras with perspective and orthographic projection, viewports, a
// per-frame render pipeline, point lighting, raycast picking, and tweens
// that a non-trivial 3D game or visualization needs.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window, a
// full-window viewport, and the game loop for you:
//
//	scene := banyan.NewScene()
//	camNode := banyan.NewNode("camera")
//	camNode.SetCamera(banyan.NewCamera())
//	camNode.SetPosition(banyan.Vec3(0, 2, 8))
//	scene.Root().AddChild(camNode)
//	// ... add model nodes ...
//	banyan.Run(scene, camNode, banyan.RunConfig{
//		Title: "My Game", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself (or use [Window]) and
// drive [Scene.Update] and [RenderContext.Render] directly.
//
// # Scene graph
//
// Every object is a [Node]. Nodes form a tree rooted at [Scene.Root].
// Children inherit their parent's transform. A node becomes a camera, a
// light, or a renderable by attaching a [Camera], [Light], or [Model]; a
// [Shape] attachment makes it pickable by [Scene.Raycast].
//
// World transforms resolve lazily: setting a local transform is O(1), and
// [Node.SceneTransform] recomputes only when the node or an ancestor
// actually changed.
//
// # Key features
//
// Banyan includes look-at and follow constraints, multi-viewport rendering
// with per-viewport cameras, frustum extraction and screen-ray picking,
// material overrides with Kage shader hooks, tweens (via [gween]), and an
// overlay layer for HUD widgets.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package banyan
