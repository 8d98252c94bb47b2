package model

import (
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// ComputeNormals assigns area-weighted vertex normals from the triangle list.
// Degenerate triangles are skipped.
func ComputeNormals(vertices []Vertex, indices []uint32) {
	acc := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		p0 := vec(vertices[a].Position)
		e1 := vec(vertices[b].Position).Sub(p0)
		e2 := vec(vertices[c].Position).Sub(p0)
		n := e1.Cross(e2)
		if n.Length() < 1e-10 {
			continue
		}
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = acc[i].Normalize().Array()
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This hides seams where a mesh duplicates vertices for UVs.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vec(vertices[idx].Normal))
		}
		avg := sum.Normalize().Array()
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// MeshBounds returns the bounds of the given vertices.
func MeshBounds(vertices []Vertex) Bounds {
	b := EmptyBounds()
	for i := range vertices {
		b.Extend(vertices[i].Position)
	}
	return b
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
