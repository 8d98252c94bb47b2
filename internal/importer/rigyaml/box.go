package rigyaml

import (
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// boxFaces lists each face normal with its in-plane axes.
var boxFaces = [6]struct{ n, u, v math.Vec3 }{
	{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
	{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
	{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
	{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
	{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
}

// Box builds a box with four vertices per face and counter-clockwise
// outward-facing triangles.
func Box(center, size math.Vec3) ([]model.Vertex, []uint32) {
	half := size.Scale(0.5)
	vertices := make([]model.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(len(vertices))
		for _, c := range corners {
			p := center.
				Add(f.n.Mul(half)).
				Add(f.u.Mul(half).Scale(c[0])).
				Add(f.v.Mul(half).Scale(c[1]))
			vertices = append(vertices, model.Vertex{
				Position: p.Array(),
				Normal:   f.n.Array(),
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
