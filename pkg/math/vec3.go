// Package math provides the vector, quaternion and matrix types used for
// skeletal posing and rendering. The heavy lifting is done by mgl32; these
// types add the named fields and conventions the rest of the module uses.
package math

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

func vec3(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

func (v Vec3) mgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.mgl().Dot(other.mgl())
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return vec3(v.mgl().Cross(other.mgl()))
}

func (v Vec3) Length() float32 {
	return v.mgl().Len()
}

// Normalize returns a unit vector. The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	if v == (Vec3{}) {
		return v
	}
	return vec3(v.mgl().Normalize())
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates linearly from v to other by t.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Scale(t))
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// Array returns the vector as a plain array.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
