package model

import (
	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// Source is importer output: everything needed to build either model kind.
type Source struct {
	Name      string
	Nodes     []skeleton.RawNode
	Clips     []*anim.Clip
	Meshes    []SourceMesh
	Materials []Material

	// Images holds texture data stored inside the model file, keyed by the
	// texture path materials use to refer to it.
	Images map[string]Image
}

// Image is encoded texture data carried by a model file.
type Image struct {
	Data []byte
	Ext  string // decoder hint such as ".png"
}

// SourceMesh is one mesh owned by a hierarchy node.
type SourceMesh struct {
	Name     string
	Node     int // owning node index
	Material int // index into Source.Materials, -1 for default
	Vertices []Vertex
	Indices  []uint32

	// Bones is empty for meshes that move rigidly with Node.
	Bones []skin.RawBone
}

// Skinned reports whether any mesh carries bone weights.
func (s *Source) Skinned() bool {
	for i := range s.Meshes {
		if len(s.Meshes[i].Bones) > 0 {
			return true
		}
	}
	return false
}

// materials returns the material table with a trailing default material.
// Meshes with Material < 0 resolve to that default.
func (s *Source) materials() []Material {
	out := make([]Material, 0, len(s.Materials)+1)
	out = append(out, s.Materials...)
	return append(out, DefaultMaterial())
}

func (s *Source) materialIndex(m int) (int, bool) {
	if m < 0 {
		return len(s.Materials), true
	}
	return m, m < len(s.Materials)
}
