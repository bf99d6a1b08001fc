package banyan

import "github.com/hajimehoshi/ebiten/v2"

// This file defines the narrow contract between the render pipeline and the
// external graphics binding layer. The pipeline assumes every call is
// synchronous and that state set before Draw remains bound for that call.

// Driver is the graphics binding layer the render pipeline draws through.
type Driver interface {
	// Begin starts a pass targeting region within target. Scissor and
	// viewport mapping are restored by End.
	Begin(target *ebiten.Image, region Rect)

	// UploadMesh transfers mesh data to the GPU and returns a handle.
	// Idempotence is handled by the Mesh wrapper, not the driver.
	UploadMesh(src *MeshSource) (DriverMesh, error)

	// InstallShader compiles shader source for later draws. Installing the
	// same source twice returns the cached program.
	InstallShader(src []byte) (DriverShader, error)

	// SetState applies the global render toggles for subsequent draws.
	SetState(st RenderState)

	// End flushes the pass and restores scissor/viewport state.
	End()
}

// DriverMesh is an uploaded mesh handle.
type DriverMesh interface {
	// Draw issues one draw using the currently set state.
	Draw(call *DrawCall)

	// Release frees the GPU resources. Releasing twice is a no-op.
	Release()
}

// DriverShader is an installed shader program handle.
type DriverShader interface {
	// Assign sets a uniform value for subsequent draws with this shader.
	Assign(value any, uniform string)

	// AssignTexture binds a texture to a uniform at the given unit.
	AssignTexture(tex *ebiten.Image, uniform string, unit int)
}

// DrawCall carries the per-draw inputs resolved by the pipeline: matrices,
// material, and the point lights selected for the node.
type DrawCall struct {
	Model               Matrix4
	ModelViewProjection Matrix4
	Normal              Matrix3
	Material            *Material
	Shader              DriverShader // nil when the material has no shader
	Lights              []LightBinding
}
