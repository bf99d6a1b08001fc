package banyan

import "github.com/chewxy/math32"

// --- Procedural meshes ---

// NewCubeMesh creates an axis-aligned cube mesh centered on the origin with
// the given edge length, one quad per face with outward normals.
func NewCubeMesh(name string, size float32) *Mesh {
	h := size / 2
	type face struct {
		normal Vector3
		// corner offsets in face-local (right, up) order
		right, up Vector3
	}
	faces := [6]face{
		{normal: Vec3(0, 0, 1), right: Vec3(1, 0, 0), up: Vec3(0, 1, 0)},  // front
		{normal: Vec3(0, 0, -1), right: Vec3(-1, 0, 0), up: Vec3(0, 1, 0)}, // back
		{normal: Vec3(1, 0, 0), right: Vec3(0, 0, -1), up: Vec3(0, 1, 0)},  // right
		{normal: Vec3(-1, 0, 0), right: Vec3(0, 0, 1), up: Vec3(0, 1, 0)},  // left
		{normal: Vec3(0, 1, 0), right: Vec3(1, 0, 0), up: Vec3(0, 0, -1)},  // top
		{normal: Vec3(0, -1, 0), right: Vec3(1, 0, 0), up: Vec3(0, 0, 1)},  // bottom
	}

	src := &MeshSource{Primitive: PrimitiveTriangles}
	for _, f := range faces {
		center := f.normal.Scale(h)
		base := uint16(len(src.Vertices))
		for i := 0; i < 4; i++ {
			// Corner order: BL, BR, TR, TL (counter-clockwise from outside).
			rs := float32(-1)
			if i == 1 || i == 2 {
				rs = 1
			}
			us := float32(-1)
			if i >= 2 {
				us = 1
			}
			pos := center.Add(f.right.Scale(rs * h)).Add(f.up.Scale(us * h))
			src.Vertices = append(src.Vertices, Vertex{
				Position: pos,
				Normal:   f.normal,
				U:        (rs + 1) / 2,
				V:        (1 - us) / 2,
				Color:    ColorWhite,
			})
		}
		src.Indices = append(src.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	}
	return NewMesh(name, src)
}

// NewPlaneMesh creates a single quad in the XZ plane centered on the origin,
// normal up, spanning width along X and depth along Z.
func NewPlaneMesh(name string, width, depth float32) *Mesh {
	hw, hd := width/2, depth/2
	src := &MeshSource{
		Primitive: PrimitiveTriangles,
		Vertices: []Vertex{
			{Position: Vec3(-hw, 0, hd), Normal: V3Up, U: 0, V: 1, Color: ColorWhite},
			{Position: Vec3(hw, 0, hd), Normal: V3Up, U: 1, V: 1, Color: ColorWhite},
			{Position: Vec3(hw, 0, -hd), Normal: V3Up, U: 1, V: 0, Color: ColorWhite},
			{Position: Vec3(-hw, 0, -hd), Normal: V3Up, U: 0, V: 0, Color: ColorWhite},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
	return NewMesh(name, src)
}

// NewSphereMesh creates a UV sphere with the given radius. segments is the
// longitudinal resolution and rings the latitudinal one; both are clamped to
// a minimum of 3.
func NewSphereMesh(name string, radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 3 {
		rings = 3
	}
	src := &MeshSource{Primitive: PrimitiveTriangles}

	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings)
		y := math32.Cos(phi)
		ringRadius := math32.Sin(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(segments)
			n := Vec3(ringRadius*math32.Cos(theta), y, ringRadius*math32.Sin(theta))
			src.Vertices = append(src.Vertices, Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				U:        float32(s) / float32(segments),
				V:        float32(r) / float32(rings),
				Color:    ColorWhite,
			})
		}
	}

	stride := uint16(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint16(r)*stride + uint16(s)
			b := a + stride
			src.Indices = append(src.Indices,
				a, b, a+1,
				a+1, b, b+1)
		}
	}
	return NewMesh(name, src)
}
