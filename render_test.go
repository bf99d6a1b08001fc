package banyan

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Recording fake driver ---

type recordedDraw struct {
	call     DrawCall
	material *Material
}

type fakeDriver struct {
	begun     int
	ended     int
	uploads   int
	installs  int
	states    []RenderState
	cur       RenderState
	endState  RenderState // state current when End flushed the pass
	draws     []recordedDraw
	uploadErr error
	shaderErr error
}

type fakeMesh struct {
	driver   *fakeDriver
	released bool
}

type fakeShader struct{}

func (f *fakeShader) Assign(value any, uniform string)                       {}
func (f *fakeShader) AssignTexture(tex *ebiten.Image, uniform string, u int) {}

func (d *fakeDriver) Begin(target *ebiten.Image, region Rect) { d.begun++ }

func (d *fakeDriver) End() {
	d.ended++
	d.endState = d.cur
}

func (d *fakeDriver) SetState(st RenderState) {
	d.states = append(d.states, st)
	d.cur = st
}

func (d *fakeDriver) UploadMesh(src *MeshSource) (DriverMesh, error) {
	if d.uploadErr != nil {
		return nil, d.uploadErr
	}
	d.uploads++
	return &fakeMesh{driver: d}, nil
}

func (d *fakeDriver) InstallShader(src []byte) (DriverShader, error) {
	if d.shaderErr != nil {
		return nil, d.shaderErr
	}
	d.installs++
	return &fakeShader{}, nil
}

func (m *fakeMesh) Draw(call *DrawCall) {
	m.driver.draws = append(m.driver.draws, recordedDraw{call: *call, material: call.Material})
}

func (m *fakeMesh) Release() { m.released = true }

// --- Rig ---

func singleTriMesh(name string) *Mesh {
	return NewMesh(name, &MeshSource{
		Vertices: []Vertex{
			{Position: Vec3(0, 0, 0), Normal: V3Up, Color: ColorWhite},
			{Position: Vec3(1, 0, 0), Normal: V3Up, Color: ColorWhite},
			{Position: Vec3(0, 0, 1), Normal: V3Up, Color: ColorWhite},
		},
		Indices: []uint16{0, 1, 2},
	})
}

type renderRig struct {
	scene  *Scene
	cam    *Node
	view   *Viewport
	driver *fakeDriver
	ctx    *RenderContext
	target *ebiten.Image
}

func newRenderRig() *renderRig {
	s := NewScene()
	cam := NewNode("cam")
	cam.SetCamera(NewCamera())
	cam.SetPosition(Vec3(0, 0, 10))
	s.Root().AddChild(cam)

	v := NewViewport(Rect{Width: 320, Height: 240})
	v.Scene = s
	v.SetPointOfView(cam)

	d := &fakeDriver{}
	return &renderRig{
		scene:  s,
		cam:    cam,
		view:   v,
		driver: d,
		ctx:    NewRenderContext(d),
		target: ebiten.NewImage(320, 240),
	}
}

func (r *renderRig) addModelNode(name string, model *Model) *Node {
	n := NewNode(name)
	n.SetModel(model)
	r.scene.Root().AddChild(n)
	return n
}

func (r *renderRig) render(t *testing.T) {
	t.Helper()
	r.ctx.BeginFrame()
	if err := r.ctx.Render(r.view, r.target); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

// --- Pipeline entry conditions ---

func TestRenderNoopWithoutScene(t *testing.T) {
	r := newRenderRig()
	r.view.Scene = nil
	r.render(t)
	if r.driver.begun != 0 {
		t.Error("missing scene must skip the pipeline entirely")
	}
}

func TestRenderNoopWithoutCamera(t *testing.T) {
	r := newRenderRig()
	plain := NewNode("no_camera")
	r.scene.Root().AddChild(plain)
	r.view.SetPointOfView(plain)
	r.render(t)
	if r.driver.begun != 0 {
		t.Error("point of view without a camera must skip the pipeline")
	}

	r.view.SetPointOfView(nil)
	r.render(t)
	if r.driver.begun != 0 {
		t.Error("missing point of view must skip the pipeline")
	}
}

func TestRenderDisposedPOV(t *testing.T) {
	r := newRenderRig()
	r.cam.Dispose()
	r.render(t)
	if r.driver.begun != 0 {
		t.Error("disposed point of view must skip the pipeline")
	}
}

// --- Draw dispatch ---

func TestRenderDrawsVisibleModels(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("a", NewModel("a", singleTriMesh("a")))
	r.addModelNode("b", NewModel("b", singleTriMesh("b")))
	r.render(t)

	if len(r.driver.draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(r.driver.draws))
	}
	if r.driver.begun != 1 || r.driver.ended != 1 {
		t.Errorf("begun/ended = %d/%d, want 1/1", r.driver.begun, r.driver.ended)
	}
}

func TestRenderSkipsInvisibleSubtree(t *testing.T) {
	r := newRenderRig()
	group := NewNode("group")
	r.scene.Root().AddChild(group)
	child := NewNode("child")
	child.SetModel(NewModel("m", singleTriMesh("m")))
	group.AddChild(child)

	group.Visible = false
	r.render(t)
	if len(r.driver.draws) != 0 {
		t.Error("ancestor invisibility must hide the whole subtree")
	}
}

func TestRenderPassStateOrder(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.render(t)

	if len(r.driver.states) != 2 {
		t.Fatalf("states = %d, want opaque then overlay", len(r.driver.states))
	}
	if r.driver.states[0] != opaqueState {
		t.Errorf("first state = %+v, want opaque", r.driver.states[0])
	}
	if r.driver.states[1] != overlayState {
		t.Errorf("second state = %+v, want overlay", r.driver.states[1])
	}
}

func TestRenderEndsPassUnderOpaqueState(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.render(t)

	// End flushes the queued opaque geometry, and the driver keys its depth
	// ordering off the state current at that moment.
	if r.driver.endState != opaqueState {
		t.Errorf("state at End = %+v, want opaque", r.driver.endState)
	}
}

// --- Materials ---

func TestRenderMaterialCycling(t *testing.T) {
	r := newRenderRig()
	red := NewMaterial("red")
	blue := NewMaterial("blue")
	model := NewModel("m",
		singleTriMesh("m0"), singleTriMesh("m1"), singleTriMesh("m2"))
	model.Materials = []*Material{red, blue}
	r.addModelNode("m", model)
	r.render(t)

	if len(r.driver.draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(r.driver.draws))
	}
	want := []*Material{red, blue, red} // mesh i gets Materials[i % len]
	for i, d := range r.driver.draws {
		if d.material != want[i] {
			t.Errorf("draw %d material = %q, want %q", i, d.material.Name, want[i].Name)
		}
	}
}

func TestRenderOverrideMaterial(t *testing.T) {
	r := newRenderRig()
	base := NewMaterial("base")
	over := NewMaterial("override")
	model := NewModel("m", singleTriMesh("m0"), singleTriMesh("m1"))
	model.Materials = []*Material{base}
	model.Override = over
	r.addModelNode("m", model)
	r.render(t)

	for i, d := range r.driver.draws {
		if d.material != over {
			t.Errorf("draw %d material = %q, want override", i, d.material.Name)
		}
	}
}

func TestRenderDefaultMaterialFallback(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.render(t)
	if r.driver.draws[0].material != DefaultMaterial() {
		t.Error("model without materials should draw with the default material")
	}
}

// --- Mesh loading ---

func TestRenderLoadsMeshOnce(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.render(t)
	r.render(t)
	r.render(t)
	if r.driver.uploads != 1 {
		t.Errorf("uploads = %d, want 1 (load is idempotent)", r.driver.uploads)
	}
}

func TestRenderUploadFailureAborts(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.driver.uploadErr = errors.New("out of memory")

	r.ctx.BeginFrame()
	err := r.ctx.Render(r.view, r.target)
	if err == nil {
		t.Fatal("expected upload failure to propagate")
	}
	if r.driver.ended != 1 {
		t.Error("the pass must be ended even on failure")
	}
}

// --- Pivot ---

func TestRenderPivotOffset(t *testing.T) {
	r := newRenderRig()
	mesh := NewMesh("m", &MeshSource{
		Vertices: []Vertex{
			{Position: Vec3(1, 2, 3)},
			{Position: Vec3(3, 4, 5)},
			{Position: Vec3(2, 3, 4)},
		},
		Indices: []uint16{0, 1, 2},
	})
	model := NewModel("m", mesh)
	model.Pivot = Vector3{} // anchor away from the center
	r.addModelNode("m", model)
	r.render(t)

	// Bounding box min (1,2,3), dims (2,2,2), pivot (0,0,0):
	// offset = (1-0)*dims + min = (3,4,5).
	m := r.driver.draws[0].call.Model
	assertVec3(t, "pivot offset", Vec3(m[12], m[13], m[14]), Vec3(3, 4, 5))
}

func TestRenderCenterPivotNoOffset(t *testing.T) {
	r := newRenderRig()
	model := NewModel("m", singleTriMesh("m"))
	n := r.addModelNode("m", model)
	n.SetPosition(Vec3(7, 0, 0))
	r.render(t)

	m := r.driver.draws[0].call.Model
	assertVec3(t, "translation", Vec3(m[12], m[13], m[14]), Vec3(7, 0, 0))
}

// --- Matrix cache ---

func TestMatrixCacheWithinGeneration(t *testing.T) {
	r := newRenderRig()
	// Two meshes on one node: the second draw must reuse the cached matrices.
	model := NewModel("m", singleTriMesh("m0"), singleTriMesh("m1"))
	r.addModelNode("m", model)
	r.render(t)

	if len(r.driver.draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(r.driver.draws))
	}
	if r.driver.draws[0].call.ModelViewProjection != r.driver.draws[1].call.ModelViewProjection {
		t.Error("meshes of one node must share the cached matrices")
	}
}

func TestMatrixCacheClearedPerViewport(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))

	// A second viewport with a different camera pose over the same scene.
	cam2 := NewNode("cam2")
	cam2.SetCamera(NewCamera())
	cam2.SetPosition(Vec3(50, 0, 10))
	r.scene.Root().AddChild(cam2)
	v2 := NewViewport(Rect{Width: 320, Height: 240})
	v2.Scene = r.scene
	v2.SetPointOfView(cam2)

	r.ctx.BeginFrame()
	if err := r.ctx.Render(r.view, r.target); err != nil {
		t.Fatal(err)
	}
	if err := r.ctx.Render(v2, r.target); err != nil {
		t.Fatal(err)
	}

	if len(r.driver.draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(r.driver.draws))
	}
	if r.driver.draws[0].call.ModelViewProjection == r.driver.draws[1].call.ModelViewProjection {
		t.Error("per-viewport matrices must not leak between viewports")
	}
}

func TestRenderGenerationAdvances(t *testing.T) {
	r := newRenderRig()
	g := r.ctx.Generation()
	r.ctx.BeginFrame()
	if r.ctx.Generation() != g+1 {
		t.Errorf("Generation = %d, want %d", r.ctx.Generation(), g+1)
	}
}

// --- Lights ---

func lightAt(s *Scene, pos Vector3, rng float32) *Node {
	n := NewNode("light")
	n.SetLight(NewPointLight(1, rng))
	n.SetPosition(pos)
	s.Root().AddChild(n)
	return n
}

func TestRenderBindsNearestLightsFirst(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	lightAt(r.scene, Vec3(20, 0, 0), 0)
	lightAt(r.scene, Vec3(2, 0, 0), 0)
	lightAt(r.scene, Vec3(7, 0, 0), 0)
	r.render(t)

	lights := r.driver.draws[0].call.Lights
	if len(lights) != 3 {
		t.Fatalf("lights = %d, want 3", len(lights))
	}
	wantX := []float32{2, 7, 20}
	for i, l := range lights {
		assertNear(t, "light order", l.Position.X, wantX[i])
	}
}

func TestRenderLightCapPerMaterial(t *testing.T) {
	r := newRenderRig()
	mat := NewMaterial("capped")
	mat.MaxLights = 2
	model := NewModel("m", singleTriMesh("m"))
	model.Override = mat
	r.addModelNode("m", model)
	for i := 0; i < 5; i++ {
		lightAt(r.scene, Vec3(float32(i+1), 0, 0), 0)
	}
	r.render(t)

	if got := len(r.driver.draws[0].call.Lights); got != 2 {
		t.Errorf("bound lights = %d, want MaxLights cap of 2", got)
	}
}

func TestRenderRangeExcludesFarLights(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	lightAt(r.scene, Vec3(3, 0, 0), 5)   // in range
	lightAt(r.scene, Vec3(100, 0, 0), 5) // out of range
	r.render(t)

	if got := len(r.driver.draws[0].call.Lights); got != 1 {
		t.Errorf("bound lights = %d, want 1", got)
	}
}

func TestRenderSkipsNonPointLights(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	dir := NewNode("sun")
	dir.SetLight(&Light{Kind: LightDirectional, Color: ColorWhite, Intensity: 1})
	r.scene.Root().AddChild(dir)
	r.render(t)

	if got := len(r.driver.draws[0].call.Lights); got != 0 {
		t.Errorf("bound lights = %d, want 0 (directional never binds)", got)
	}
}

func TestRenderUnshadedGetsNoLights(t *testing.T) {
	r := newRenderRig()
	mat := NewMaterial("flat")
	mat.Unshaded = true
	model := NewModel("m", singleTriMesh("m"))
	model.Override = mat
	r.addModelNode("m", model)
	lightAt(r.scene, Vec3(1, 0, 0), 0)
	r.render(t)

	if r.driver.draws[0].call.Lights != nil {
		t.Error("unshaded material must receive no lights")
	}
}

// --- Shaders ---

func TestRenderInstallsShaderOncePerMaterial(t *testing.T) {
	r := newRenderRig()
	mat := NewMaterial("shaded")
	mat.ShaderSrc = []byte("package main")
	model := NewModel("m", singleTriMesh("m0"), singleTriMesh("m1"))
	model.Override = mat
	r.addModelNode("m", model)
	r.render(t)
	r.render(t)

	if r.driver.installs != 1 {
		t.Errorf("installs = %d, want 1", r.driver.installs)
	}
	if r.driver.draws[0].call.Shader == nil {
		t.Error("draw call should carry the installed shader")
	}
}

func TestRenderNoShaderForPlainMaterial(t *testing.T) {
	r := newRenderRig()
	r.addModelNode("m", NewModel("m", singleTriMesh("m")))
	r.render(t)
	if r.driver.draws[0].call.Shader != nil {
		t.Error("material without shader source draws with the fixed pipeline")
	}
	if r.driver.installs != 0 {
		t.Errorf("installs = %d, want 0", r.driver.installs)
	}
}

// --- Overlay ---

type countingWidget struct {
	updated int
	drawn   int
}

func (w *countingWidget) Update(dt float32)         { w.updated++ }
func (w *countingWidget) Draw(target *ebiten.Image) { w.drawn++ }

func TestRenderOverlayDrawnAfterOpaque(t *testing.T) {
	r := newRenderRig()
	w := &countingWidget{}
	r.view.AddOverlay(w)
	r.view.Update(1.0 / 60)
	r.render(t)

	if w.updated != 1 {
		t.Errorf("widget updated %d times, want 1", w.updated)
	}
	if w.drawn != 1 {
		t.Errorf("widget drawn %d times, want 1", w.drawn)
	}
	// Overlay draws after the pass ended (depth off).
	if r.driver.ended != 1 {
		t.Errorf("ended = %d, want 1", r.driver.ended)
	}
}

// --- Resolve step ---

func TestRenderAppliesPendingConstraints(t *testing.T) {
	r := newRenderRig()
	target := NewNode("target")
	target.SetPosition(Vec3(10, 0, 0))
	r.scene.Root().AddChild(target)

	watcher := NewNode("watcher")
	watcher.Constraint = &LookAtConstraint{Target: target}
	watcher.SetModel(NewModel("m", singleTriMesh("m")))
	r.scene.Root().AddChild(watcher)

	// Render without a preceding Scene.Update: the resolve step must apply
	// the constraint itself.
	r.render(t)
	fwd := watcher.SceneRotation().Rotate(Vec3(0, 0, -1))
	assertVec3(t, "forward", fwd, Vec3(1, 0, 0))
}
