package model

import "github.com/Faultbox/midgard-rig/pkg/math"

// Placement puts a model into the world. Rotate is Euler degrees.
type Placement struct {
	Translate [3]float32 `yaml:"translate"`
	Rotate    [3]float32 `yaml:"rotate"`
	Scale     [3]float32 `yaml:"scale"`
}

// DefaultPlacement leaves the model at the origin, unrotated and unscaled.
func DefaultPlacement() Placement {
	return Placement{Scale: [3]float32{1, 1, 1}}
}

// World returns the model placement matrix.
func (p Placement) World() math.Mat4 {
	return math.TRS(vec(p.Translate), math.QuatFromEuler(vec(p.Rotate)), vec(p.Scale))
}

// Degenerate reports whether any scale axis is zero.
func (p Placement) Degenerate() bool {
	return p.Scale[0] == 0 || p.Scale[1] == 0 || p.Scale[2] == 0
}
