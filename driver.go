package banyan

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenDriver implements the graphics binding contract on the CPU: it
// projects mesh triangles with the draw call's model-view-projection
// matrix, shades them per vertex, and submits them to Ebitengine as
// DrawTriangles batches. Depth testing is approximated by painter's
// ordering (triangles sorted back to front at flush), which is the standard
// approach for software 3D on Ebitengine.
type EbitenDriver struct {
	dst    *ebiten.Image
	region Rect
	state  RenderState

	tris    []shadedTri
	shaders map[string]*ebitenShader

	// Reused submission buffers.
	vertBuf []ebiten.Vertex
	indBuf  []uint16
}

// ambientLevel is the flat ambient term applied to lit materials so faces
// turned away from every light remain faintly visible.
const ambientLevel = 0.15

// shadedTri is one projected, shaded triangle awaiting flush.
type shadedTri struct {
	verts [3]ebiten.Vertex
	depth float32 // mean NDC depth, for painter ordering
	tex   *ebiten.Image
	blend ebiten.Blend
}

// NewEbitenDriver creates the Ebitengine-backed graphics driver.
func NewEbitenDriver() *EbitenDriver {
	return &EbitenDriver{shaders: make(map[string]*ebitenShader)}
}

// Begin implements Driver. Drawing is confined to region by targeting a
// sub-image, which acts as the scissor; End drops the sub-image again.
func (d *EbitenDriver) Begin(target *ebiten.Image, region Rect) {
	d.region = region
	d.dst = target.SubImage(image.Rect(
		int(region.X), int(region.Y),
		int(region.X+region.Width), int(region.Y+region.Height),
	)).(*ebiten.Image)
	d.tris = d.tris[:0]
}

// SetState implements Driver.
func (d *EbitenDriver) SetState(st RenderState) {
	d.state = st
}

// UploadMesh implements Driver. There is no GPU-side vertex buffer in this
// backend; upload validates the data and pins it behind a handle.
func (d *EbitenDriver) UploadMesh(src *MeshSource) (DriverMesh, error) {
	if src == nil || len(src.Vertices) == 0 {
		return nil, fmt.Errorf("upload mesh: no vertex data")
	}
	if src.Primitive == PrimitiveTriangles && len(src.Indices)%3 != 0 {
		return nil, fmt.Errorf("upload mesh: triangle index count %d not divisible by 3", len(src.Indices))
	}
	if src.Primitive == PrimitiveLines && len(src.Indices)%2 != 0 {
		return nil, fmt.Errorf("upload mesh: line index count %d not divisible by 2", len(src.Indices))
	}
	for _, idx := range src.Indices {
		if int(idx) >= len(src.Vertices) {
			return nil, fmt.Errorf("upload mesh: index %d out of range (%d vertices)", idx, len(src.Vertices))
		}
	}
	return &ebitenMesh{driver: d, src: src}, nil
}

// InstallShader implements Driver by compiling Kage source. The compiled
// program is cached by source text.
func (d *EbitenDriver) InstallShader(src []byte) (DriverShader, error) {
	key := string(src)
	if sh, ok := d.shaders[key]; ok {
		return sh, nil
	}
	prog, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("install shader: %w", err)
	}
	sh := &ebitenShader{prog: prog, uniforms: make(map[string]any)}
	d.shaders[key] = sh
	return sh, nil
}

// End implements Driver: flushes accumulated triangles and restores the
// full-target drawing state.
func (d *EbitenDriver) End() {
	if d.dst != nil {
		d.flush()
	}
	d.dst = nil
}

// flush sorts and submits the accumulated triangles in batches that share a
// texture and blend mode.
func (d *EbitenDriver) flush() {
	tris := d.tris
	if len(tris) == 0 {
		return
	}
	if d.state.DepthTest {
		// Painter's ordering: farthest first. Stable keeps submission
		// order for coplanar triangles.
		sort.SliceStable(tris, func(i, j int) bool {
			return tris[i].depth > tris[j].depth
		})
	}

	for start := 0; start < len(tris); {
		end := start + 1
		for end < len(tris) && tris[end].tex == tris[start].tex && tris[end].blend == tris[start].blend {
			end++
		}
		d.submitRun(tris[start:end])
		start = end
	}
	d.tris = d.tris[:0]
}

func (d *EbitenDriver) submitRun(run []shadedTri) {
	d.vertBuf = d.vertBuf[:0]
	d.indBuf = d.indBuf[:0]
	for _, t := range run {
		base := uint16(len(d.vertBuf))
		d.vertBuf = append(d.vertBuf, t.verts[0], t.verts[1], t.verts[2])
		d.indBuf = append(d.indBuf, base, base+1, base+2)
	}
	img := run[0].tex
	if img == nil {
		img = whitePixel()
	}
	op := &ebiten.DrawTrianglesOptions{Blend: run[0].blend}
	d.dst.DrawTriangles(d.vertBuf, d.indBuf, img, op)
}

// whitePixelImage is a lazily-initialized 1x1 white image used for
// untextured materials (no sync.Once — banyan is single-threaded).
var whitePixelImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// --- Mesh handle ---

type ebitenMesh struct {
	driver   *EbitenDriver
	src      *MeshSource
	released bool
}

// Release implements DriverMesh. Releasing twice is a no-op.
func (m *ebitenMesh) Release() {
	m.released = true
}

// projVert is one projected vertex: NDC position plus the clip-space w used
// for near-plane rejection.
type projVert struct {
	ndc Vector3
	w   float32
}

// Draw implements DriverMesh: project, cull, shade, and queue the mesh's
// primitives for the current pass.
func (m *ebitenMesh) Draw(call *DrawCall) {
	if m.released || m.driver.dst == nil {
		return
	}

	// Project all vertices once.
	proj := make([]projVert, len(m.src.Vertices))
	for i, v := range m.src.Vertices {
		ndc, w := call.ModelViewProjection.Project(v.Position)
		proj[i] = projVert{ndc: ndc, w: w}
	}

	if m.src.Primitive == PrimitiveLines {
		m.queueLines(call, proj)
		return
	}
	m.queueTriangles(call, proj)
}

// toScreen maps an NDC position to destination pixels. Sub-image
// destinations keep the original image's coordinate system (the sub-region
// only clips), so the region origin must be added here.
func (d *EbitenDriver) toScreen(ndc Vector3) (float32, float32) {
	return d.region.X + (ndc.X+1)*d.region.Width/2,
		d.region.Y + (1-ndc.Y)*d.region.Height/2
}

func (m *ebitenMesh) queueTriangles(call *DrawCall, proj []projVert) {
	d := m.driver
	src := m.src
	mat := call.Material
	blend := mat.Blend.EbitenBlend()
	texW, texH := textureSize(mat)

	for i := 0; i+2 < len(src.Indices); i += 3 {
		i0, i1, i2 := src.Indices[i], src.Indices[i+1], src.Indices[i+2]
		p0, p1, p2 := proj[i0], proj[i1], proj[i2]

		// Reject triangles crossing or behind the near plane rather than
		// clipping them; acceptable for this backend.
		if p0.w <= 0 || p1.w <= 0 || p2.w <= 0 {
			continue
		}

		sx0, sy0 := d.toScreen(p0.ndc)
		sx1, sy1 := d.toScreen(p1.ndc)
		sx2, sy2 := d.toScreen(p2.ndc)

		if d.state.CullFaces && !mat.DoubleSided {
			// Counter-clockwise in screen space (Y down) is back-facing.
			area := (sx1-sx0)*(sy2-sy0) - (sx2-sx0)*(sy1-sy0)
			if area >= 0 {
				continue
			}
		}

		var tri shadedTri
		tri.tex = mat.Texture
		tri.blend = blend
		tri.depth = (p0.ndc.Z + p1.ndc.Z + p2.ndc.Z) / 3

		for k, idx := range [3]uint16{i0, i1, i2} {
			v := src.Vertices[idx]
			var sx, sy float32
			switch k {
			case 0:
				sx, sy = sx0, sy0
			case 1:
				sx, sy = sx1, sy1
			default:
				sx, sy = sx2, sy2
			}
			tri.verts[k] = shadedVertex(v, call, sx, sy, texW, texH)
		}
		d.tris = append(d.tris, tri)
	}
}

// lineHalfWidth is half the screen-space width of a rendered line segment.
const lineHalfWidth = 0.5

// queueLines expands each index pair into a thin screen-space quad
// (two triangles) along the projected segment. Lines are never backface
// culled.
func (m *ebitenMesh) queueLines(call *DrawCall, proj []projVert) {
	d := m.driver
	src := m.src
	blend := call.Material.Blend.EbitenBlend()
	texW, texH := textureSize(call.Material)

	for i := 0; i+1 < len(src.Indices); i += 2 {
		i0, i1 := src.Indices[i], src.Indices[i+1]
		p0, p1 := proj[i0], proj[i1]
		if p0.w <= 0 || p1.w <= 0 {
			continue
		}

		sx0, sy0 := d.toScreen(p0.ndc)
		sx1, sy1 := d.toScreen(p1.ndc)
		dx, dy := sx1-sx0, sy1-sy0
		length := math32.Sqrt(dx*dx + dy*dy)
		if length == 0 {
			continue
		}
		// Perpendicular offset of half the line width to each side.
		nx := -dy / length * lineHalfWidth
		ny := dx / length * lineHalfWidth

		v0 := shadedVertex(src.Vertices[i0], call, 0, 0, texW, texH)
		v1 := shadedVertex(src.Vertices[i1], call, 0, 0, texW, texH)
		depth := (p0.ndc.Z + p1.ndc.Z) / 2

		a0, a1 := v0, v0
		a0.DstX, a0.DstY = sx0+nx, sy0+ny
		a1.DstX, a1.DstY = sx0-nx, sy0-ny
		b0, b1 := v1, v1
		b0.DstX, b0.DstY = sx1+nx, sy1+ny
		b1.DstX, b1.DstY = sx1-nx, sy1-ny

		d.tris = append(d.tris,
			shadedTri{verts: [3]ebiten.Vertex{a0, a1, b1}, depth: depth, tex: call.Material.Texture, blend: blend},
			shadedTri{verts: [3]ebiten.Vertex{a0, b1, b0}, depth: depth, tex: call.Material.Texture, blend: blend},
		)
	}
}

// textureSize returns the material texture's pixel dimensions, or 1x1 for
// untextured materials.
func textureSize(mat *Material) (float32, float32) {
	if mat.Texture == nil {
		return 1, 1
	}
	b := mat.Texture.Bounds()
	return float32(b.Dx()), float32(b.Dy())
}

// shadedVertex builds the submission vertex at the given screen position:
// shaded, premultiplied, with texture coordinates scaled to pixels.
func shadedVertex(v Vertex, call *DrawCall, sx, sy, texW, texH float32) ebiten.Vertex {
	c := shadeVertex(v, call)
	return ebiten.Vertex{
		DstX:   sx,
		DstY:   sy,
		SrcX:   v.U * texW,
		SrcY:   v.V * texH,
		ColorR: c.R * c.A,
		ColorG: c.G * c.A,
		ColorB: c.B * c.A,
		ColorA: c.A,
	}
}

// shadeVertex computes the vertex color: material color times vertex color,
// lit by the bound point lights with Lambert diffuse and linear range
// falloff.
func shadeVertex(v Vertex, call *DrawCall) Color {
	c := call.Material.Color.Mul(v.Color)
	if call.Material.Unshaded || len(call.Lights) == 0 {
		return c
	}
	worldPos := call.Model.MulPoint(v.Position)
	worldN := call.Normal.MulVec(v.Normal).Normalized()

	lum := float32(ambientLevel)
	var lr, lg, lb float32 = 1, 1, 1
	for _, l := range call.Lights {
		toLight := l.Position.Sub(worldPos)
		dist := toLight.Length()
		if dist == 0 {
			continue
		}
		nDotL := worldN.Dot(toLight.Scale(1 / dist))
		if nDotL <= 0 {
			continue
		}
		atten := float32(1)
		if l.Range > 0 {
			atten = 1 - dist/l.Range
			if atten <= 0 {
				continue
			}
		}
		contrib := nDotL * l.Intensity * atten
		lum += contrib
		lr += l.Color.R * contrib
		lg += l.Color.G * contrib
		lb += l.Color.B * contrib
	}
	if lum > 1 {
		lum = 1
	}
	total := lr + lg + lb
	return Color{
		R: c.R * lum * (3 * lr / total),
		G: c.G * lum * (3 * lg / total),
		B: c.B * lum * (3 * lb / total),
		A: c.A,
	}
}

// --- Shader handle ---

type ebitenShader struct {
	prog     *ebiten.Shader
	uniforms map[string]any
}

// Assign implements DriverShader.
func (s *ebitenShader) Assign(value any, uniform string) {
	s.uniforms[uniform] = value
}

// AssignTexture implements DriverShader. Ebitengine binds images positionally;
// the unit selects the image slot.
func (s *ebitenShader) AssignTexture(tex *ebiten.Image, uniform string, unit int) {
	s.uniforms[uniform] = tex
	_ = unit
}
