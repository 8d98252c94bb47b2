// Package skin resolves per-vertex bone influences and computes the bone
// palette consumed by GPU skinning.
package skin

import (
	"sort"
)

// MaxInfluences is the number of bone slots per vertex.
const MaxInfluences = 4

// Influence is one raw (bone, weight) pair.
type Influence struct {
	Bone   int
	Weight float32
}

// VertexWeights is the fixed four-slot encoding uploaded with each vertex.
type VertexWeights struct {
	Indices [MaxInfluences]uint8
	Weights [MaxInfluences]float32
}

// Rigid binds a vertex fully to bone 0.
var Rigid = VertexWeights{Weights: [MaxInfluences]float32{1, 0, 0, 0}}

// ResolveVertex keeps the four heaviest positive influences and normalizes
// them. Equal weights keep their input order. A vertex without usable
// influences is bound to bone 0.
func ResolveVertex(in []Influence) VertexWeights {
	kept := make([]Influence, 0, len(in))
	for _, inf := range in {
		if inf.Weight > 0 {
			kept = append(kept, inf)
		}
	}
	sort.SliceStable(kept, func(a, b int) bool { return kept[a].Weight > kept[b].Weight })
	if len(kept) > MaxInfluences {
		kept = kept[:MaxInfluences]
	}

	var total float32
	for _, inf := range kept {
		total += inf.Weight
	}
	if total <= 0 {
		return Rigid
	}

	var out VertexWeights
	for i, inf := range kept {
		out.Indices[i] = uint8(inf.Bone)
		out.Weights[i] = inf.Weight / total
	}
	return out
}

// Resolve applies ResolveVertex to every vertex.
func Resolve(perVertex [][]Influence) []VertexWeights {
	out := make([]VertexWeights, len(perVertex))
	for i, in := range perVertex {
		out[i] = ResolveVertex(in)
	}
	return out
}

// BoneWeights pairs a palette index with that bone's raw weight list.
type BoneWeights struct {
	Bone    int
	Weights []VertexWeight
}

// Collect turns per-bone weight lists into per-vertex influence lists.
// Vertex ids outside [0, vertexCount) and non-positive weights are skipped.
func Collect(vertexCount int, bones []BoneWeights) [][]Influence {
	out := make([][]Influence, vertexCount)
	for _, b := range bones {
		for _, w := range b.Weights {
			if w.Vertex < 0 || w.Vertex >= vertexCount || w.Weight <= 0 {
				continue
			}
			out[w.Vertex] = append(out[w.Vertex], Influence{Bone: b.Bone, Weight: w.Weight})
		}
	}
	return out
}
