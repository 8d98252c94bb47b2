package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	if got := (Vec3{3, 4, 0}).Length(); got != 5 {
		t.Errorf("Vec3.Length() = %v, want 5", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	l := Vec3{3, 4, 12}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector should normalize to zero, got %v", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	tests := []struct {
		t    float32
		want Vec3
	}{
		{0, Vec3{0, 0, 0}},
		{0.5, Vec3{5, 10, 15}},
		{1, Vec3{10, 20, 30}},
	}
	a, b := Vec3{}, Vec3{10, 20, 30}
	for _, tt := range tests {
		if got := a.Lerp(b, tt.t); got.Distance(tt.want) > 0.001 {
			t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestVec3MinMax(t *testing.T) {
	a, b := Vec3{1, 5, -2}, Vec3{3, 0, -1}
	if got := a.Min(b); got != (Vec3{1, 0, -2}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, -1}) {
		t.Errorf("Max = %v", got)
	}
}
