package banyan

// Light is an attribute bag attached to a node via Node.SetLight. The node
// supplies the light's scene-space position.
//
// Known limitation: the draw pass binds point lights only. Directional and
// spot lights are accepted into the data model (Kind, Direction, and cone
// fields are parsed and preserved) but are skipped during light selection.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float32

	// Range is the falloff distance for point lights. Zero or negative
	// means unbounded.
	Range float32

	// Direction is the local-space beam direction for directional and spot
	// lights. Unused for point lights.
	Direction Vector3

	// ConeAngle is the spot cone half-angle in radians. Unused otherwise.
	ConeAngle float32

	// node is the back-pointer set by Node.SetLight.
	node *Node
}

// NewPointLight returns a white point light with the given intensity and range.
func NewPointLight(intensity, rng float32) *Light {
	return &Light{
		Kind:      LightPoint,
		Color:     ColorWhite,
		Intensity: intensity,
		Range:     rng,
	}
}

// LightBinding is a point light resolved against a node for one draw call:
// scene-space position plus shading parameters.
type LightBinding struct {
	Position  Vector3
	Color     Color
	Intensity float32
	Range     float32
}

// bindingFor resolves the light's scene-space binding. ok is false for
// non-point kinds (not bound at draw time) and detached lights.
func (l *Light) bindingFor() (LightBinding, bool) {
	if l.Kind != LightPoint || l.node == nil {
		return LightBinding{}, false
	}
	return LightBinding{
		Position:  l.node.ScenePosition(),
		Color:     l.Color,
		Intensity: l.Intensity,
		Range:     l.Range,
	}, true
}
