package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

func TestBoundsLines(t *testing.T) {
	b := model.Bounds{Min: [3]float32{-1, 0, -2}, Max: [3]float32{1, 3, 2}}
	v := BoundsLines(b)
	if len(v) != BoundsLineVertexCount*3 {
		t.Fatalf("got %d floats, want %d", len(v), BoundsLineVertexCount*3)
	}
	for i := 0; i < len(v); i += 3 {
		x, y, z := v[i], v[i+1], v[i+2]
		if (x != -1 && x != 1) || (y != 0 && y != 3) || (z != -2 && z != 2) {
			t.Errorf("vertex %d = (%v, %v, %v) is not a corner", i/3, x, y, z)
		}
	}
}

func TestSkeletonLines(t *testing.T) {
	sk, err := skeleton.New([]skeleton.RawNode{
		{Name: "root", Parent: -1, BindLocal: math.Identity()},
		{Name: "spine", Parent: 0, BindLocal: math.Translate(0, 1, 0)},
		{Name: "head", Parent: 1, BindLocal: math.Translate(0, 1, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	sk.ResetToBind()

	got := SkeletonLines(sk)
	want := []float32{0, 0, 0, 0, 1, 0, 0, 1, 0, 0, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSkeletonLinesWithoutBones(t *testing.T) {
	if got := SkeletonLines(nil); got != nil {
		t.Errorf("nil skeleton: got %v", got)
	}
	sk, err := skeleton.New([]skeleton.RawNode{{Name: "root", Parent: -1, BindLocal: math.Identity()}})
	if err != nil {
		t.Fatal(err)
	}
	if got := SkeletonLines(sk); len(got) != 0 {
		t.Errorf("single node: got %v", got)
	}
}

func TestScreenshotFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "rig")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	// 1x2: bottom row red, top row blue.
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	path, err := s.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "rig_2024-05-01_12-00-00.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Errorf("top pixel should be blue, got r=%d b=%d", r, b)
	}

	if _, err := s.SavePixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
