package banyan

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default material and vertex color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// Mul returns the component-wise product of two colors.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale returns the color with R, G, B multiplied by s. Alpha is unchanged.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Add returns the component-wise sum of two colors. Alpha is taken from c.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A}
}

// toRGBA converts the color to a color.RGBA (premultiplied).
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned pixel rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward. Used for viewport
// regions and scissor areas.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Aspect returns Width/Height, or 1 if the rectangle is degenerate.
func (r Rect) Aspect() float32 {
	if r.Height == 0 {
		return 1
	}
	return r.Width / r.Height
}

// ProjectionKind selects how a Camera maps view space to clip space.
type ProjectionKind uint8

const (
	ProjectionPerspective  ProjectionKind = iota // standard perspective projection
	ProjectionOrthographic                       // parallel projection sized at FocusDistance
)

// LightKind distinguishes light attachment behavior.
//
// Only point lights are bound during the draw pass. Directional and spot
// lights are carried in the data model but never applied; see light.go.
type LightKind uint8

const (
	LightPoint       LightKind = iota // radiates from the node's scene translation
	LightDirectional                  // parsed but not bound at draw time
	LightSpot                         // parsed but not bound at draw time
)

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// PrimitiveKind selects how mesh indices are interpreted.
type PrimitiveKind uint8

const (
	PrimitiveTriangles PrimitiveKind = iota // indexed triangle list
	PrimitiveLines                          // indexed line list (drawn as thin quads)
)

// RenderState holds the global render toggles applied before draw dispatch.
type RenderState struct {
	Blend       bool
	CullFaces   bool
	DepthTest   bool
	StencilTest bool
}

// opaqueState is the state installed at the start of the opaque pass.
var opaqueState = RenderState{Blend: false, CullFaces: true, DepthTest: true}

// overlayState is the state installed for the overlay pass: depth testing
// off, blending back on.
var overlayState = RenderState{Blend: true, CullFaces: false, DepthTest: false}
