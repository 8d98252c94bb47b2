package model

import "strings"

// MapSet records which texture maps a material carries.
type MapSet uint8

// Texture map kinds.
const (
	MapDiffuse MapSet = 1 << iota
	MapNormal
	MapSpecular
	MapEmissive
	MapOpacity
)

// Has reports whether every map in m is present.
func (s MapSet) Has(m MapSet) bool { return s&m == m }

func (s MapSet) String() string {
	if s == 0 {
		return "none"
	}
	names := []string{"diffuse", "normal", "specular", "emissive", "opacity"}
	var parts []string
	for i, n := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// Textures holds texture paths. An empty path means the map is absent.
type Textures struct {
	Diffuse  string `yaml:"diffuse,omitempty"`
	Normal   string `yaml:"normal,omitempty"`
	Specular string `yaml:"specular,omitempty"`
	Emissive string `yaml:"emissive,omitempty"`
	Opacity  string `yaml:"opacity,omitempty"`
}

// Material describes surface shading for a submesh.
type Material struct {
	Name      string
	BaseColor [4]float32
	Emissive  [3]float32
	Textures  Textures
}

// DefaultMaterial is used by meshes that reference no material.
func DefaultMaterial() Material {
	return Material{Name: "default", BaseColor: [4]float32{0.8, 0.8, 0.8, 1}}
}

// Maps derives the map set from the assigned texture paths.
func (m *Material) Maps() MapSet {
	var s MapSet
	if m.Textures.Diffuse != "" {
		s |= MapDiffuse
	}
	if m.Textures.Normal != "" {
		s |= MapNormal
	}
	if m.Textures.Specular != "" {
		s |= MapSpecular
	}
	if m.Textures.Emissive != "" {
		s |= MapEmissive
	}
	if m.Textures.Opacity != "" {
		s |= MapOpacity
	}
	return s
}

// HasOpacity reports whether an opacity map is assigned.
func (m *Material) HasOpacity() bool { return m.Textures.Opacity != "" }

// Pass identifies a draw bucket.
type Pass int

// Draw passes in submission order.
const (
	PassDepth Pass = iota
	PassOpaque
	PassAlphaTest
	PassTransparent
)

func (p Pass) String() string {
	switch p {
	case PassDepth:
		return "depth"
	case PassOpaque:
		return "opaque"
	case PassAlphaTest:
		return "alpha-test"
	case PassTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// Accepts reports whether submeshes using m are drawn in pass p. Any opacity
// map routes a material out of the opaque pass, whatever its alpha values.
func (p Pass) Accepts(m *Material) bool {
	switch p {
	case PassDepth:
		return true
	case PassOpaque:
		return !m.HasOpacity()
	case PassAlphaTest, PassTransparent:
		return m.HasOpacity()
	default:
		return false
	}
}

// FramePasses returns the passes drawn each frame. Opacity materials are
// drawn once, either cut out in the alpha-test pass or blended in the
// transparent pass.
func FramePasses(alphaTest bool) []Pass {
	if alphaTest {
		return []Pass{PassOpaque, PassAlphaTest}
	}
	return []Pass{PassOpaque, PassTransparent}
}
