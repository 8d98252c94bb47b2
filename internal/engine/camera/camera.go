// Package camera provides the viewer's orbit camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	FOV       float32 // vertical, radians
	Near, Far float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        4,
		Pitch:           0.3,
		FOV:             float32(gomath.Pi / 4),
		Near:            0.01,
		Far:             1000,
		MinDistance:     0.05,
		MaxDistance:     5000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * float32(gomath.Sin(float64(c.Yaw))),
		Y: c.Distance * float32(gomath.Sin(float64(c.Pitch))),
		Z: c.Distance * cp * float32(gomath.Cos(float64(c.Yaw))),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns a perspective projection for the given aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// Orbit rotates by yaw and pitch deltas in radians.
func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Orbit(-deltaX*c.DragSensitivity, deltaY*c.DragSensitivity)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers on b and backs off until the bounding sphere fits
// the vertical field of view. Invalid bounds leave the camera unchanged.
func (c *OrbitCamera) FitToBounds(b model.Bounds) {
	if !b.Valid() {
		return
	}
	c.Center = b.Center()
	radius := b.Size().Length() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = radius / float32(gomath.Sin(float64(c.FOV/2)))
	c.MinDistance = radius * 0.05
	c.MaxDistance = radius * 100
	c.Near = radius * 0.01
	c.Far = c.Distance + radius*100
	c.Pitch = 0.3
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
