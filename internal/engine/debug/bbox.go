// Package debug builds overlay geometry and captures screenshots.
package debug

import (
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

// BoundsLineVertexCount is the number of vertices in a bounds wireframe (12 edges × 2).
const BoundsLineVertexCount = 24

// BoundsLines returns line-list vertices, [x, y, z] each, for the edges of b.
func BoundsLines(b model.Bounds) []float32 {
	lo, hi := b.Min, b.Max
	return []float32{
		// bottom
		lo[0], lo[1], lo[2], hi[0], lo[1], lo[2],
		hi[0], lo[1], lo[2], hi[0], lo[1], hi[2],
		hi[0], lo[1], hi[2], lo[0], lo[1], hi[2],
		lo[0], lo[1], hi[2], lo[0], lo[1], lo[2],
		// top
		lo[0], hi[1], lo[2], hi[0], hi[1], lo[2],
		hi[0], hi[1], lo[2], hi[0], hi[1], hi[2],
		hi[0], hi[1], hi[2], lo[0], hi[1], hi[2],
		lo[0], hi[1], hi[2], lo[0], hi[1], lo[2],
		// verticals
		lo[0], lo[1], lo[2], lo[0], hi[1], lo[2],
		hi[0], lo[1], lo[2], hi[0], hi[1], lo[2],
		hi[0], lo[1], hi[2], hi[0], hi[1], hi[2],
		lo[0], lo[1], hi[2], lo[0], hi[1], hi[2],
	}
}

// SkeletonLines returns one segment per non-root node, from its parent's
// origin to its own, in the current pose.
func SkeletonLines(sk *skeleton.Skeleton) []float32 {
	if sk == nil || sk.Len() < 2 {
		return nil
	}
	out := make([]float32, 0, (sk.Len()-1)*6)
	for _, i := range sk.Order() {
		p := sk.Node(i).Parent
		if p < 0 {
			continue
		}
		a := sk.Global(p).Translation()
		b := sk.Global(i).Translation()
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}
