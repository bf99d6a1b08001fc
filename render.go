package banyan

import (
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// pipelinePhase tracks where a viewport's render pass is within the frame.
// The pass always runs Idle -> ResolvingScene -> DrawingOpaque ->
// DrawingOverlay -> Idle; the field exists for debug stats and assertions.
type pipelinePhase uint8

const (
	phaseIdle pipelinePhase = iota
	phaseResolvingScene
	phaseDrawingOpaque
	phaseDrawingOverlay
)

// nodeMatrices is the per-node matrix cache entry for one frame generation.
type nodeMatrices struct {
	model  Matrix4
	mvp    Matrix4
	normal Matrix3
	gen    uint64
}

// RenderContext is the per-frame scratch state shared by every viewport
// drawn in a frame: a generation counter incremented once per frame, the
// per-node matrix cache valid for the current generation only, and the
// global render toggles. The matrix cache is exclusively owned by the
// pipeline during a frame and is cleared at the start of each viewport's
// pass so no matrices leak across viewports or frames.
type RenderContext struct {
	driver     Driver
	generation uint64
	matrices   map[uint32]nodeMatrices
	state      RenderState
	phase      pipelinePhase

	shaders  map[*Material]DriverShader
	lightBuf []LightBinding
}

// NewRenderContext creates a render context drawing through the given driver.
func NewRenderContext(d Driver) *RenderContext {
	return &RenderContext{
		driver:   d,
		matrices: make(map[uint32]nodeMatrices),
		shaders:  make(map[*Material]DriverShader),
	}
}

// Generation returns the current frame generation.
func (ctx *RenderContext) Generation() uint64 {
	return ctx.generation
}

// BeginFrame advances the frame generation. Call once per rendered frame,
// before the first viewport's Render.
func (ctx *RenderContext) BeginFrame() {
	ctx.generation++
}

// Render runs one full pipeline pass for the viewport onto target.
//
// If the viewport has no presented scene, or its point of view is missing or
// carries no camera, the pipeline performs no work and returns nil: an
// absent camera is the normal branch, not an error. Mesh upload or shader
// installation failures are the only reported errors.
//
// Render never mutates node transforms; it only fills the context's
// per-generation caches and issues driver calls.
func (ctx *RenderContext) Render(v *Viewport, target *ebiten.Image) error {
	scene := v.Scene
	pov := v.PointOfView()
	if scene == nil || pov == nil || pov.IsDisposed() || pov.Camera == nil {
		return nil
	}

	var t0 time.Time
	var stats pipelineStats
	if scene.debug {
		t0 = time.Now()
	}

	// Mandatory: each viewport starts from an empty matrix cache so a
	// node rendered by two viewports in one frame resolves a distinct
	// model-view-projection per viewport.
	clear(ctx.matrices)

	ctx.phase = phaseResolvingScene
	scene.rebuildIndices()
	applyConstraints(scene.root, scene.generation, 0)
	viewProj := pov.Camera.ViewProjection(v.Region)

	if scene.debug {
		stats.resolveTime = time.Since(t0)
		t0 = time.Now()
	}

	ctx.driver.Begin(target, v.Region)
	ctx.phase = phaseDrawingOpaque
	ctx.setState(opaqueState)

	for _, n := range scene.ModelNodes() {
		if !effectivelyVisible(n) {
			continue
		}
		if err := ctx.drawModelNode(n, viewProj, &stats); err != nil {
			ctx.driver.End()
			ctx.phase = phaseIdle
			return err
		}
	}

	if scene.debug {
		stats.opaqueTime = time.Since(t0)
		t0 = time.Now()
	}

	// End flushes the opaque pass and must run while the opaque state is
	// still current (the driver's depth ordering keys off it). The overlay
	// then draws last: depth testing off, blending back on.
	ctx.driver.End()
	ctx.phase = phaseDrawingOverlay
	ctx.setState(overlayState)
	v.renderOverlay(target)

	ctx.phase = phaseIdle
	if scene.debug {
		stats.overlayTime = time.Since(t0)
		logPipelineStats(stats)
	}
	return nil
}

// drawModelNode draws every mesh of the node's model.
func (ctx *RenderContext) drawModelNode(n *Node, viewProj Matrix4, stats *pipelineStats) error {
	model := n.Model
	mats := ctx.matricesFor(n, model, viewProj)
	lights := ctx.applicableLights(n)

	for i, mesh := range model.Meshes {
		// Load signals the graphics layer; a second load is a no-op.
		if err := mesh.Load(ctx.driver); err != nil {
			return err
		}
		mat := model.MaterialFor(i)
		shader, err := ctx.shaderFor(mat)
		if err != nil {
			return err
		}

		bound := lights
		if len(bound) > mat.MaxLights {
			bound = bound[:mat.MaxLights]
		}
		if mat.Unshaded {
			bound = nil
		}

		call := DrawCall{
			Model:               mats.model,
			ModelViewProjection: mats.mvp,
			Normal:              mats.normal,
			Material:            mat,
			Shader:              shader,
			Lights:              bound,
		}
		mesh.draw(&call)
		stats.drawCalls++
	}
	return nil
}

// matricesFor resolves the node's model, model-view-projection, and normal
// matrices, computing them at most once per node per frame generation.
// Subsequent meshes of the same node reuse the cached values.
func (ctx *RenderContext) matricesFor(n *Node, model *Model, viewProj Matrix4) nodeMatrices {
	if e, ok := ctx.matrices[n.ID]; ok && e.gen == ctx.generation {
		return e
	}
	m := model.modelMatrix(n.SceneTransform())
	e := nodeMatrices{
		model:  m,
		mvp:    viewProj.Mul(m),
		normal: m.NormalMatrix(),
		gen:    ctx.generation,
	}
	ctx.matrices[n.ID] = e
	return e
}

// applicableLights collects the point lights applicable to the node, nearest
// first. Directional and spot lights are never bound (known limitation, see
// light.go). The returned slice aliases the context's scratch buffer and is
// valid until the next call.
func (ctx *RenderContext) applicableLights(n *Node) []LightBinding {
	scene := n.ownerScene()
	if scene == nil {
		return nil
	}
	ctx.lightBuf = ctx.lightBuf[:0]
	pos := n.ScenePosition()
	for _, ln := range scene.LightNodes() {
		b, ok := ln.Light.bindingFor()
		if !ok {
			continue
		}
		if b.Range > 0 && b.Position.DistanceTo(pos) > b.Range {
			continue
		}
		ctx.lightBuf = append(ctx.lightBuf, b)
	}
	buf := ctx.lightBuf
	sort.SliceStable(buf, func(i, j int) bool {
		return buf[i].Position.Sub(pos).LengthSq() < buf[j].Position.Sub(pos).LengthSq()
	})
	return buf
}

// shaderFor installs the material's shader on first use and caches the
// handle. Materials without shader source draw with the fixed pipeline.
func (ctx *RenderContext) shaderFor(mat *Material) (DriverShader, error) {
	if mat.ShaderSrc == nil {
		return nil, nil
	}
	if sh, ok := ctx.shaders[mat]; ok {
		return sh, nil
	}
	sh, err := ctx.driver.InstallShader(mat.ShaderSrc)
	if err != nil {
		return nil, err
	}
	ctx.shaders[mat] = sh
	return sh, nil
}

func (ctx *RenderContext) setState(st RenderState) {
	ctx.state = st
	ctx.driver.SetState(st)
}

// effectivelyVisible reports whether the node and all its ancestors are
// visible.
func effectivelyVisible(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
