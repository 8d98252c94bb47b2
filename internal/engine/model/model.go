package model

import (
	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

// Model is the surface shared by RigidModel and SkinnedModel.
type Model interface {
	Evaluate(seconds float64, loop bool)
	Draw(d Drawer, world math.Mat4, pass Pass)
	Bounds() Bounds
	Release()

	Clip() *anim.Clip
	Clips() []string
	SetClip(name string) error
	ClipName() string
	DurationTicks() float64
	DurationSeconds() float64
	TicksPerSecond() float64
}

var (
	_ Model = (*RigidModel)(nil)
	_ Model = (*SkinnedModel)(nil)
)

// Load builds a SkinnedModel when the source carries bone weights and a
// RigidModel otherwise. forceRigid always selects the rigid strategy.
func Load(ctx LoadContext, src *Source, forceRigid bool) (Model, error) {
	if !forceRigid && src.Skinned() {
		return LoadSkinned(ctx, src)
	}
	return LoadRigid(ctx, src)
}

// SkeletonOf returns the skeleton behind m.
func SkeletonOf(m Model) *skeleton.Skeleton {
	switch v := m.(type) {
	case *RigidModel:
		return v.Skeleton
	case *SkinnedModel:
		return v.Skeleton
	default:
		return nil
	}
}
