package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint([3]float32{1, 0, 0})
	if got != [3]float32{12, 0, 0} {
		t.Errorf("T*S applied to (1,0,0) = %v, want (12,0,0)", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)
	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection([3]float32{1, 0, 0})
	if got != [3]float32{2, 0, 0} {
		t.Errorf("TransformDirection: got %v, want (2,0,0)", got)
	}
}

func TestTransformNormalNonUniformScale(t *testing.T) {
	m := Translate(3, 0, 0).Mul(Scale(1, 4, 1))
	s := float32(1 / math.Sqrt2)
	n := m.TransformNormal([3]float32{s, s, 0})

	// The surface tangent (1,-1,0) scales to (1,-4,0); the normal must stay
	// perpendicular to it.
	tangent := Vec3{X: 1, Y: -4}
	got := Vec3{n[0], n[1], n[2]}
	if d := got.Dot(tangent); d > 1e-5 || d < -1e-5 {
		t.Errorf("normal %v not perpendicular to scaled tangent, dot = %v", n, d)
	}
	if l := got.Length(); l < 0.9999 || l > 1.0001 {
		t.Errorf("normal length = %v, want 1", l)
	}
	if n[0] <= n[1] {
		t.Errorf("normal %v should lean towards +X", n)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint([3]float32{1, 0, 0})

	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestTRS(t *testing.T) {
	tests := []struct {
		name string
		t    Vec3
		r    Quat
		s    Vec3
		in   Vec3
		want Vec3
	}{
		{"identity", Vec3{}, QuatIdentity(), Vec3{1, 1, 1}, Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"scale then translate", Vec3{1, 2, 3}, QuatIdentity(), Vec3{2, 2, 2}, Vec3{1, 0, 0}, Vec3{3, 2, 3}},
		{"rotate y", Vec3{}, QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2), Vec3{1, 1, 1}, Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"full", Vec3{0, 5, 0}, QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2), Vec3{3, 3, 3}, Vec3{1, 0, 0}, Vec3{0, 5, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TRS(tt.t, tt.r, tt.s).TransformVec3(tt.in)
			if got.Distance(tt.want) > 0.001 {
				t.Errorf("TRS(...).TransformVec3(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTRSMatchesRotateY(t *testing.T) {
	a := TRS(Vec3{}, QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2), Vec3{1, 1, 1})
	b := RotateY(math.Pi / 2)
	if !a.ApproxEqual(b, 1e-5) {
		t.Errorf("TRS rotation %v differs from RotateY %v", a, b)
	}
}

func TestInverse(t *testing.T) {
	m := TRS(Vec3{1, -2, 3}, QuatFromAxisAngle(Vec3{X: 1}, 0.7), Vec3{2, 0.5, 1})
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-4) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}

	var singular Mat4
	if singular.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should be identity")
	}
}

func TestApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	b[5] += 0.01
	if !a.ApproxEqual(b, 0.1) {
		t.Error("matrices within eps should compare equal")
	}
	if a.ApproxEqual(b, 0.001) {
		t.Error("matrices outside eps should not compare equal")
	}
}

func TestFromFloat64(t *testing.T) {
	src := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 4, 5, 6, 1}
	m := FromFloat64(src)
	if m.Translation() != (Vec3{4, 5, 6}) {
		t.Errorf("FromFloat64 translation = %v, want (4,5,6)", m.Translation())
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
	// The eye maps to the view-space origin.
	p := m.TransformPoint([3]float32{0, 0, 5})
	if abs(p[0]) > 0.001 || abs(p[1]) > 0.001 || abs(p[2]) > 0.001 {
		t.Errorf("LookAt eye in view space = %v, want origin", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
