package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quat is a rotation quaternion. W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

func quat(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

func (q Quat) mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle rotates angle radians around a normalized axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return quat(mgl32.QuatRotate(angle, axis.mgl()))
}

// QuatFromEuler builds a rotation from Euler angles in degrees, applied
// about X, then Y, then Z.
func QuatFromEuler(deg Vec3) Quat {
	const toRad = math.Pi / 180
	qx := QuatFromAxisAngle(Vec3{X: 1}, deg.X*toRad)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, deg.Y*toRad)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, deg.Z*toRad)
	return qz.Mul(qy).Mul(qx).Normalize()
}

// Normalize returns a unit quaternion, or identity for a degenerate one.
func (q Quat) Normalize() Quat {
	if q.mgl().Len() < 0.0001 {
		return QuatIdentity()
	}
	return quat(q.mgl().Normalize())
}

// Dot returns the 4D dot product.
func (q Quat) Dot(other Quat) float32 {
	return q.mgl().Dot(other.mgl())
}

// Slerp interpolates along the shortest arc from q to other, t in [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	return quat(mgl32.QuatSlerp(q.mgl(), other.mgl(), t)).Normalize()
}

// ToMat4 converts the quaternion to a rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return Mat4(q.Normalize().mgl().Mat4())
}

// Mul composes rotations: the result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return quat(q.mgl().Mul(other.mgl()))
}
