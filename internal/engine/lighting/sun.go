// Package lighting describes the directional light used to shade models.
package lighting

import (
	"math"

	vmath "github.com/Faultbox/midgard-rig/pkg/math"
)

// Sun is a directional light placed by longitude and latitude in degrees.
// Longitude rotates around Y, latitude is the elevation above the horizon.
type Sun struct {
	Longitude float32    `yaml:"longitude"`
	Latitude  float32    `yaml:"latitude"`
	Color     [3]float32 `yaml:"color"`
	Ambient   float32    `yaml:"ambient"` // fraction of Color applied to unlit faces
}

// DefaultSun is a white light from the upper front right.
func DefaultSun() Sun {
	return Sun{Longitude: 35, Latitude: 55, Color: [3]float32{1, 1, 1}, Ambient: 0.25}
}

// ToSun returns the normalized vector from the origin towards the sun.
func (s Sun) ToSun() vmath.Vec3 {
	lon := float64(s.Longitude) * math.Pi / 180
	lat := float64(s.Latitude) * math.Pi / 180
	return vmath.Vec3{
		X: float32(math.Cos(lat) * math.Sin(lon)),
		Y: float32(math.Sin(lat)),
		Z: float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// Direction is the direction light travels, pointing away from the sun.
func (s Sun) Direction() vmath.Vec3 {
	return s.ToSun().Scale(-1)
}

// Clamped returns s with color channels and ambient limited to [0, 1].
func (s Sun) Clamped() Sun {
	for i := range s.Color {
		s.Color[i] = clamp01(s.Color[i])
	}
	s.Ambient = clamp01(s.Ambient)
	return s
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
