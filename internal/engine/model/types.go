// Package model builds renderable skeletal models from importer output.
//
// Two strategies are supported. RigidModel attaches independently built
// static meshes to hierarchy nodes. SkinnedModel merges all meshes into one
// vertex-weighted mesh and drives it with a bone palette.
package model

import (
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// Vertex is a static mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// SkinnedVertex carries up to four bone influences.
type SkinnedVertex struct {
	Vertex
	Joints  [skin.MaxInfluences]uint8
	Weights [skin.MaxInfluences]float32
}

// Submesh is a contiguous index range drawn with one material.
type Submesh struct {
	Name       string
	Material   int
	StartIndex int32
	IndexCount int32
}

// MeshData is a static mesh ready for upload.
type MeshData struct {
	Vertices  []Vertex
	Indices   []uint32
	Submeshes []Submesh
	Bounds    Bounds
}

// SkinnedMeshData is a skinned mesh ready for upload.
type SkinnedMeshData struct {
	Vertices  []SkinnedVertex
	Indices   []uint32
	Submeshes []Submesh
	Bounds    Bounds
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns inverted bounds that grow on the first Extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Valid reports whether at least one point was added.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the box extent along each axis.
func (b Bounds) Size() math.Vec3 {
	return math.Vec3{X: b.Max[0] - b.Min[0], Y: b.Max[1] - b.Min[1], Z: b.Max[2] - b.Min[2]}
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if !o.Valid() {
		return b
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
	return b
}

// Transform returns the bounds of b's eight corners under m.
func (b Bounds) Transform(m math.Mat4) Bounds {
	if !b.Valid() {
		return b
	}
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		c := [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out.Extend(m.TransformPoint(c))
	}
	return out
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
