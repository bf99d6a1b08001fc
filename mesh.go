package banyan

import (
	"errors"
	"fmt"
)

// ErrMeshUploaded is returned by operations that require mesh data to still
// be CPU-side, such as Bake after Load.
var ErrMeshUploaded = errors.New("mesh already uploaded")

// Vertex is one mesh vertex: model-space position and normal, texture
// coordinates, and a color multiplied with the material color at draw time.
type Vertex struct {
	Position Vector3
	Normal   Vector3
	U, V     float32
	Color    Color
}

// MeshSource is the opaque vertex data supplied by the asset loading layer.
// The Mesh entity treats it as input data and never mutates it after upload.
type MeshSource struct {
	Vertices  []Vertex
	Indices   []uint16
	Primitive PrimitiveKind
}

// Bounds computes the model-space AABB of the source vertices.
func (src *MeshSource) Bounds() Box3 {
	if len(src.Vertices) == 0 {
		return Box3{}
	}
	b := Box3{Min: src.Vertices[0].Position, Max: src.Vertices[0].Position}
	for _, v := range src.Vertices[1:] {
		b = b.ExpandByPoint(v.Position)
	}
	return b
}

// Mesh wraps a MeshSource with GPU upload state. Load and Unload signal the
// graphics binding layer and are idempotent.
type Mesh struct {
	Name   string
	Source *MeshSource

	uploaded DriverMesh
}

// NewMesh creates a mesh over the given source data.
func NewMesh(name string, src *MeshSource) *Mesh {
	return &Mesh{Name: name, Source: src}
}

// Load uploads the mesh through the driver. Loading an already-loaded mesh
// is a no-op: the upload happens exactly once until Unload.
func (m *Mesh) Load(d Driver) error {
	if m.uploaded != nil {
		return nil
	}
	dm, err := d.UploadMesh(m.Source)
	if err != nil {
		return fmt.Errorf("load mesh %q: %w", m.Name, err)
	}
	m.uploaded = dm
	return nil
}

// Unload releases the GPU resources. Unloading an unloaded mesh is a no-op.
func (m *Mesh) Unload() {
	if m.uploaded == nil {
		return
	}
	m.uploaded.Release()
	m.uploaded = nil
}

// IsLoaded reports whether the mesh currently holds a GPU handle.
func (m *Mesh) IsLoaded() bool {
	return m.uploaded != nil
}

// Bake pre-transforms the source vertices by t, folding a static transform
// into the mesh data. It must be called before Load: once the data has been
// uploaded the mesh is left unchanged and ErrMeshUploaded is returned.
func (m *Mesh) Bake(t Matrix4) error {
	if m.uploaded != nil {
		return fmt.Errorf("bake mesh %q: %w (unload first)", m.Name, ErrMeshUploaded)
	}
	nm := t.NormalMatrix()
	for i := range m.Source.Vertices {
		v := &m.Source.Vertices[i]
		v.Position = t.MulPoint(v.Position)
		v.Normal = nm.MulVec(v.Normal).Normalized()
	}
	return nil
}

// draw issues the mesh's draw call through its uploaded handle.
// Callers must Load first.
func (m *Mesh) draw(call *DrawCall) {
	m.uploaded.Draw(call)
}
