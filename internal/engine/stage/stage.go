// Package stage holds the scene both viewers drive: one model with its
// player, the orbit camera, the model placement and the overlay switches.
package stage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/debug"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/engine/playback"
	"github.com/Faultbox/midgard-rig/internal/importer"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

var (
	boneColor   = [4]float32{1, 0.85, 0.1, 1}
	boundsColor = [4]float32{0.3, 1, 0.4, 1}
)

// LineDrawer draws overlay line lists.
type LineDrawer interface {
	DrawLines(vertices []float32, color [4]float32, world math.Mat4)
}

// Stage is the viewer scene.
type Stage struct {
	cfg *config.Config
	dev model.Device
	log *zap.Logger

	Model     model.Model
	Player    *playback.Player
	Camera    *camera.OrbitCamera
	Placement model.Placement
	Path      string // last loaded model, empty for the built-in rig

	AlphaTest    bool
	ShowSkeleton bool
}

// New returns an empty stage that builds meshes on dev.
func New(cfg *config.Config, dev model.Device, log *zap.Logger) *Stage {
	return &Stage{
		cfg:       cfg,
		dev:       dev,
		log:       logger.Or(log),
		Camera:    camera.NewOrbitCamera(),
		Placement: cfg.Render.Placement,
		AlphaTest: cfg.Render.AlphaTest,
	}
}

// Load imports path and replaces the current model. On failure the current
// model stays.
func (s *Stage) Load(path string) error {
	src, err := importer.Load(path, importer.Options{
		TicksPerSecond: s.cfg.Animation.DefaultTicksPerSecond,
		TextureDir:     s.cfg.Assets.TextureDir,
		Logger:         s.log,
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	m, err := model.Load(model.LoadContext{Device: s.dev, Logger: s.log}, src, !s.cfg.Assets.Skinned)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if name := s.cfg.Animation.Clip; name != "" {
		if err := m.SetClip(name); err != nil {
			s.log.Warn("initial clip not found", zap.String("clip", name), zap.Strings("clips", m.Clips()))
		}
	}

	if s.Model != nil {
		s.Model.Release()
	}
	s.Model = m
	s.Path = path
	s.Player = playback.New(m)
	s.Player.SetLoop(s.cfg.Animation.Loop)
	s.Player.SetSpeed(s.cfg.Animation.Speed)
	if !s.cfg.Animation.Autoplay {
		s.Player.Pause()
	}
	s.Player.Rewind()
	s.Frame()

	s.log.Info("model ready",
		zap.String("clip", m.ClipName()),
		zap.Float64("duration_sec", m.DurationSeconds()),
		zap.Float64("ticks_per_sec", m.TicksPerSecond()),
	)
	return nil
}

// Update advances playback by dt seconds.
func (s *Stage) Update(dt float64) {
	if s.Player != nil {
		s.Player.Advance(dt)
	}
}

// World returns the model placement matrix.
func (s *Stage) World() math.Mat4 {
	return s.Placement.World()
}

// Passes returns the draw passes for the current alpha mode.
func (s *Stage) Passes() []model.Pass {
	return model.FramePasses(s.AlphaTest)
}

// Draw submits the model in every frame pass at its placement.
func (s *Stage) Draw(d model.Drawer) {
	if s.Model == nil {
		return
	}
	world := s.World()
	for _, pass := range s.Passes() {
		d.BeginPass(pass)
		s.Model.Draw(d, world, pass)
	}
}

// Overlay draws the bounds box and bone lines when the skeleton is shown.
func (s *Stage) Overlay(l LineDrawer) {
	if !s.ShowSkeleton || s.Model == nil {
		return
	}
	world := s.World()
	l.DrawLines(debug.BoundsLines(s.Model.Bounds()), boundsColor, world)
	l.DrawLines(debug.SkeletonLines(model.SkeletonOf(s.Model)), boneColor, world)
}

// Bounds returns the posed model bounds in world space.
func (s *Stage) Bounds() model.Bounds {
	if s.Model == nil {
		return model.EmptyBounds()
	}
	return s.Model.Bounds().Transform(s.World())
}

// Frame points the camera at the placed model.
func (s *Stage) Frame() {
	s.Camera.FitToBounds(s.Bounds())
}

// SelectClip switches to the named clip and rewinds.
func (s *Stage) SelectClip(name string) error {
	if err := s.Model.SetClip(name); err != nil {
		return err
	}
	s.Player.Rewind()
	s.log.Info("clip selected", zap.String("clip", name), zap.Float64("duration_sec", s.Model.DurationSeconds()))
	return nil
}

// CycleClip steps through the clip list, wrapping at either end.
func (s *Stage) CycleClip(step int) {
	clips := s.Model.Clips()
	if len(clips) < 2 {
		return
	}
	cur := 0
	for i, name := range clips {
		if name == s.Model.ClipName() {
			cur = i
		}
	}
	next := clips[((cur+step)%len(clips)+len(clips))%len(clips)]
	if err := s.SelectClip(next); err != nil {
		s.log.Warn("clip switch failed", zap.Error(err))
	}
}

// Release frees the model meshes.
func (s *Stage) Release() {
	if s.Model != nil {
		s.Model.Release()
		s.Model = nil
	}
}
