package lighting

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestToSun(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     [3]float32
	}{
		{"overhead", 0, 90, [3]float32{0, 1, 0}},
		{"front horizon", 0, 0, [3]float32{0, 0, 1}},
		{"right horizon", 90, 0, [3]float32{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sun{Longitude: tt.lon, Latitude: tt.lat}.ToSun()
			if !near(got.X, tt.want[0]) || !near(got.Y, tt.want[1]) || !near(got.Z, tt.want[2]) {
				t.Errorf("ToSun() = %+v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionPointsDown(t *testing.T) {
	d := DefaultSun().Direction()
	if d.Y >= 0 {
		t.Errorf("default light should travel downwards, got %+v", d)
	}
	if !near(d.Length(), 1) {
		t.Errorf("direction length = %v", d.Length())
	}
}

func TestClamped(t *testing.T) {
	s := Sun{Color: [3]float32{2, -1, 0.5}, Ambient: 1.5}.Clamped()
	if s.Color != [3]float32{1, 0, 0.5} || s.Ambient != 1 {
		t.Errorf("Clamped() = %+v", s)
	}
}
