package banyan

// pivotCenter is the normalized pivot at the bounding-box center, the
// default anchor. Models with this pivot get no pivot offset.
var pivotCenter = Vector3{0.5, 0.5, 0.5}

// Model groups the meshes, materials, and bounds a node renders.
type Model struct {
	Name   string
	Meshes []*Mesh

	// Materials are assigned to meshes by index. A model with fewer
	// materials than meshes reuses them cyclically (mesh i gets
	// Materials[i % len]); an empty list falls back to DefaultMaterial.
	Materials []*Material

	// Override, when non-nil, takes precedence over the per-mesh material
	// list for every mesh.
	Override *Material

	// Bounds is the model-space bounding box of all mesh vertices.
	Bounds Box3

	// Pivot is the normalized offset within Bounds about which the model's
	// transform is anchored. The zero value anchors at Bounds.Min+Size
	// per the pivot-offset rule below; (0.5, 0.5, 0.5) is the center and
	// applies no offset.
	Pivot Vector3
}

// NewModel creates a model from meshes, computing Bounds from their sources.
func NewModel(name string, meshes ...*Mesh) *Model {
	m := &Model{Name: name, Meshes: meshes, Pivot: pivotCenter}
	for i, mesh := range meshes {
		b := mesh.Source.Bounds()
		if i == 0 {
			m.Bounds = b
		} else {
			m.Bounds = m.Bounds.Union(b)
		}
	}
	return m
}

// MaterialFor resolves the material bound for mesh index i:
// Override first, then the cyclic per-mesh list, then DefaultMaterial.
func (m *Model) MaterialFor(i int) *Material {
	if m.Override != nil {
		return m.Override
	}
	if len(m.Materials) == 0 {
		return DefaultMaterial()
	}
	return m.Materials[i%len(m.Materials)]
}

// PivotOffset returns the model-space translation applied when the pivot is
// not at the bounding-box center: (1 - Pivot) * Size + Bounds.Min.
func (m *Model) PivotOffset() Vector3 {
	if m.Pivot == pivotCenter {
		return Vector3{}
	}
	size := m.Bounds.Size()
	return Vector3{
		(1-m.Pivot.X)*size.X + m.Bounds.Min.X,
		(1-m.Pivot.Y)*size.Y + m.Bounds.Min.Y,
		(1-m.Pivot.Z)*size.Z + m.Bounds.Min.Z,
	}
}

// modelMatrix is the node's scene transform with the pivot offset applied.
func (m *Model) modelMatrix(sceneTransform Matrix4) Matrix4 {
	off := m.PivotOffset()
	if off == (Vector3{}) {
		return sceneTransform
	}
	return sceneTransform.Mul(NewTranslation(off))
}
