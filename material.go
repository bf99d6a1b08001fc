package banyan

import "github.com/hajimehoshi/ebiten/v2"

// Material describes the surface appearance bound before a mesh draw.
type Material struct {
	Name  string
	Color Color

	// Texture, when non-nil, is sampled across the mesh UVs. Nil draws with
	// the flat Color.
	Texture *ebiten.Image

	// ShaderSrc, when non-nil, is Kage shader source installed by the
	// driver before first use. Installation failure surfaces as an error
	// from the render pass, never as a draw with undefined state.
	ShaderSrc []byte

	// MaxLights caps how many point lights are bound for a draw call using
	// this material. Zero means unlit.
	MaxLights int

	Blend       BlendMode
	Unshaded    bool
	DoubleSided bool
}

// defaultMaterialMaxLights is the light cap for the fallback material.
const defaultMaterialMaxLights = 4

// NewMaterial returns a white, lit material with the default light cap.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Color:     ColorWhite,
		MaxLights: defaultMaterialMaxLights,
	}
}

// defaultMaterial is bound when a model defines no materials at all.
var defaultMaterial = NewMaterial("default")

// DefaultMaterial returns the shared fallback material.
func DefaultMaterial() *Material {
	return defaultMaterial
}
