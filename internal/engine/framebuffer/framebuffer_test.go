package framebuffer

import "testing"

func TestClampSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{640, 480, 640, 480},
		{0, 480, 1, 480},
		{-5, 0, 1, 1},
	}
	for _, tt := range tests {
		if w, h := ClampSize(tt.w, tt.h); w != tt.wantW || h != tt.wantH {
			t.Errorf("ClampSize(%d, %d) = %d, %d, want %d, %d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
