package skeleton

import (
	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Evaluate poses the skeleton from clip at the given time in seconds.
// A nil clip or one without a positive duration yields the bind pose.
// Evaluation is a pure function of its arguments and the bind data.
func (s *Skeleton) Evaluate(clip *anim.Clip, seconds float64, loop bool) {
	if !clip.Animated() {
		s.ResetToBind()
		return
	}

	t := clip.MapTime(seconds, loop)
	for i := range s.nodes {
		n := &s.nodes[i]
		if ch, ok := clip.Channel(n.Name); ok {
			n.Local = ch.LocalTransform(t, n.BindLocal)
		} else {
			n.Local = n.BindLocal
		}
	}
	s.compose()
}

// ResetToBind poses every node at its bind-local transform.
func (s *Skeleton) ResetToBind() {
	for i := range s.nodes {
		s.nodes[i].Local = s.nodes[i].BindLocal
	}
	s.compose()
}

// compose propagates local poses down the hierarchy in a single pass.
func (s *Skeleton) compose() {
	for _, i := range s.order {
		n := &s.nodes[i]
		if n.Parent < 0 {
			n.Global = n.Local
			continue
		}
		n.Global = s.nodes[n.Parent].Global.Mul(n.Local)
	}
}

// BindGlobal returns the model-space bind pose of node i without touching
// the current pose.
func (s *Skeleton) BindGlobal(i int) math.Mat4 {
	m := s.nodes[i].BindLocal
	for p := s.nodes[i].Parent; p >= 0; p = s.nodes[p].Parent {
		m = s.nodes[p].BindLocal.Mul(m)
	}
	return m
}
