package math

import "github.com/go-gl/mathgl/mgl32"

// Mat4 is a column-major 4x4 matrix laid out like mgl32.Mat4, so it can be
// uploaded to OpenGL as is. Points are column vectors: a.Mul(b) applies b
// first and then a.
type Mat4 mgl32.Mat4

func (m Mat4) mgl() mgl32.Mat4 {
	return mgl32.Mat4(m)
}

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4(mgl32.Ident4())
}

// FromFloat64 converts a column-major float64 matrix, as stored by
// interchange formats, to a Mat4.
func FromFloat64(src [16]float64) Mat4 {
	var m Mat4
	for i, v := range src {
		m[i] = float32(v)
	}
	return m
}

// Perspective returns a projection matrix. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(fovY, aspect, near, far))
}

// LookAt returns a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(eye.mgl(), center.mgl(), up.mgl()))
}

func Translate(x, y, z float32) Mat4 {
	return Mat4(mgl32.Translate3D(x, y, z))
}

func TranslateVec(v Vec3) Mat4 {
	return Translate(v.X, v.Y, v.Z)
}

func Scale(x, y, z float32) Mat4 {
	return Mat4(mgl32.Scale3D(x, y, z))
}

func ScaleVec(v Vec3) Mat4 {
	return Scale(v.X, v.Y, v.Z)
}

// TRS composes translation, rotation and scale: scale applies first, then
// rotation, then translation.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	return TranslateVec(t).Mul(r.ToMat4()).Mul(ScaleVec(s))
}

// RotateY rotates angle radians around +Y.
func RotateY(angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3DY(angle))
}

// RotateAxis rotates angle radians around a normalized axis.
func RotateAxis(axis [3]float32, angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3D(angle, mgl32.Vec3(axis)))
}

// Mul returns m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4(m.mgl().Mul4(other.mgl()))
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		if d := m[i] - other[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

// TransformPoint transforms p with w=1, dividing by the resulting w for
// projective matrices.
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	r := m.mgl().Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	if w := r[3]; w != 0 && w != 1 {
		return [3]float32{r[0] / w, r[1] / w, r[2] / w}
	}
	return [3]float32{r[0], r[1], r[2]}
}

// TransformVec3 is TransformPoint for a Vec3.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	p := m.TransformPoint(v.Array())
	return Vec3{p[0], p[1], p[2]}
}

// TransformDirection transforms d ignoring translation.
func (m Mat4) TransformDirection(d [3]float32) [3]float32 {
	return [3]float32(mgl32.TransformNormal(mgl32.Vec3(d), m.mgl()))
}

// Ptr returns a pointer to the first element for OpenGL uniform calls.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns the inverse, or identity for a singular matrix.
func (m Mat4) Inverse() Mat4 {
	inv := m.mgl().Inv()
	if inv == (mgl32.Mat4{}) {
		return Identity()
	}
	return Mat4(inv)
}

// TransformNormal transforms a surface normal by the inverse transpose of
// the upper 3x3 and renormalizes it, so normals stay perpendicular to
// surfaces under non-uniform scale.
func (m Mat4) TransformNormal(n [3]float32) [3]float32 {
	nm := m.mgl().Mat3().Inv().Transpose()
	if nm == (mgl32.Mat3{}) {
		return n
	}
	return vec3(nm.Mul3x1(mgl32.Vec3(n))).Normalize().Array()
}
