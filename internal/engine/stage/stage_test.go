package stage

import (
	"testing"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/headless"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

type lineLog struct {
	worlds []math.Mat4
}

func (l *lineLog) DrawLines(_ []float32, _ [4]float32, world math.Mat4) {
	l.worlds = append(l.worlds, world)
}

func loaded(t *testing.T, cfg *config.Config) (*Stage, *headless.Device) {
	t.Helper()
	dev := headless.NewDevice()
	s := New(cfg, dev, nil)
	if err := s.Load(""); err != nil {
		t.Fatal(err)
	}
	return s, dev
}

func TestPlacementMovesDraws(t *testing.T) {
	s, _ := loaded(t, config.Default())
	defer s.Release()

	base := &headless.Recorder{}
	s.Draw(base)

	s.Placement.Translate = [3]float32{10, 0, 0}
	moved := &headless.Recorder{}
	s.Draw(moved)

	if len(base.Draws) == 0 || len(base.Draws) != len(moved.Draws) {
		t.Fatalf("draw counts %d and %d", len(base.Draws), len(moved.Draws))
	}
	for i := range base.Draws {
		got := moved.Draws[i].World.Translation().Sub(base.Draws[i].World.Translation())
		if got.Distance(math.Vec3{X: 10}) > 1e-4 {
			t.Errorf("draw %d moved by %v, want (10,0,0)", i, got)
		}
	}

	if b := s.Bounds(); b.Min[0] < 5 {
		t.Errorf("world bounds %+v ignore placement", b)
	}
}

func TestAlphaModeSelectsPass(t *testing.T) {
	tests := []struct {
		alphaTest bool
		used      model.Pass
		unused    model.Pass
	}{
		{true, model.PassAlphaTest, model.PassTransparent},
		{false, model.PassTransparent, model.PassAlphaTest},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Render.AlphaTest = tt.alphaTest
		s, _ := loaded(t, cfg)

		rec := &headless.Recorder{}
		s.Draw(rec)
		if rec.Count(tt.used) == 0 {
			t.Errorf("alpha test %v: no %v draws", tt.alphaTest, tt.used)
		}
		if n := rec.Count(tt.unused); n != 0 {
			t.Errorf("alpha test %v: %d %v draws, want none", tt.alphaTest, n, tt.unused)
		}
		s.Release()
	}
}

func TestOverlayUsesPlacement(t *testing.T) {
	s, _ := loaded(t, config.Default())
	defer s.Release()

	lines := &lineLog{}
	s.Overlay(lines)
	if len(lines.worlds) != 0 {
		t.Fatal("overlay drawn while hidden")
	}

	s.ShowSkeleton = true
	s.Placement.Scale = [3]float32{2, 2, 2}
	s.Overlay(lines)
	if len(lines.worlds) != 2 {
		t.Fatalf("overlay drew %d line lists, want 2", len(lines.worlds))
	}
	for _, w := range lines.worlds {
		if !w.ApproxEqual(s.World(), 1e-6) {
			t.Errorf("overlay world = %v, want placement", w)
		}
	}
}

func TestLoadFailureKeepsModel(t *testing.T) {
	s, dev := loaded(t, config.Default())
	defer s.Release()
	before := s.Model

	if err := s.Load("missing.fbx"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if s.Model != before || s.Path != "" {
		t.Error("failed load replaced the model")
	}
	if dev.Live() == 0 {
		t.Error("current model meshes were released")
	}
}

func TestCycleClipWraps(t *testing.T) {
	s, _ := loaded(t, config.Default())
	defer s.Release()

	clips := s.Model.Clips()
	if len(clips) < 2 {
		t.Fatalf("built-in rig has %d clips", len(clips))
	}
	first := s.Model.ClipName()
	s.CycleClip(-1)
	if got := s.Model.ClipName(); got != clips[len(clips)-1] {
		t.Errorf("step back from %q = %q, want %q", first, got, clips[len(clips)-1])
	}
	s.CycleClip(1)
	if got := s.Model.ClipName(); got != first {
		t.Errorf("step forward = %q, want %q", got, first)
	}
	if s.Player.Time() != 0 {
		t.Errorf("clip switch left time at %v", s.Player.Time())
	}
}

func TestReleaseFreesMeshes(t *testing.T) {
	s, dev := loaded(t, config.Default())
	s.Release()
	if dev.Live() != 0 {
		t.Errorf("%d meshes alive after release", dev.Live())
	}
	// Nothing loaded: drawing is a no-op.
	s.Draw(&headless.Recorder{})
	if b := s.Bounds(); b.Valid() {
		t.Errorf("empty stage bounds = %+v", b)
	}
}
