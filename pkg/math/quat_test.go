package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}

	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))

	if r := q1.Slerp(q2, 0); math.Abs(float64(r.W-q1.W)) > 0.001 {
		t.Errorf("Slerp at t=0 should equal q1, got %v", r)
	}
	if r := q1.Slerp(q2, 1); math.Abs(float64(r.W-q2.W)) > 0.001 || math.Abs(float64(r.Y-q2.Y)) > 0.001 {
		t.Errorf("Slerp at t=1 should equal q2, got %v", r)
	}

	// Halfway through 90 degrees is 45 degrees.
	r := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(math.Pi / 8))
	if math.Abs(float64(r.W-expectedW)) > 0.001 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, r.W)
	}
}

func TestQuatSlerpShortestPath(t *testing.T) {
	q1 := QuatIdentity()
	// Same rotation with opposite sign.
	q2 := Quat{W: -1}

	r := q1.Slerp(q2, 0.5)
	if math.Abs(float64(r.W-1)) > 0.001 {
		t.Errorf("Slerp between q and -q should stay at q, got %v", r)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromEuler(t *testing.T) {
	tests := []struct {
		name string
		deg  Vec3
		want Quat
	}{
		{"zero", Vec3{}, QuatIdentity()},
		{"yaw 90", Vec3{Y: 90}, QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)},
		{"pitch 45", Vec3{X: 45}, QuatFromAxisAngle(Vec3{X: 1}, math.Pi/4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromEuler(tt.deg)
			if math.Abs(float64(got.Dot(tt.want))) < 0.9999 {
				t.Errorf("QuatFromEuler(%v) = %v, want %v", tt.deg, got, tt.want)
			}
		})
	}
}

func TestQuatMul(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/4)
	got := a.Mul(a)
	want := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)
	if math.Abs(float64(got.Dot(want))) < 0.9999 {
		t.Errorf("two 45 degree turns = %v, want %v", got, want)
	}
}
