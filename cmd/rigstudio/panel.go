package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/engine/playback"
)

var axes = [3]string{"X", "Y", "Z"}

// controls draws the control panel.
func (s *studio) controls() {
	m := s.stage.Model
	imgui.Text(m.ClipName())
	imgui.TextDisabled(s.status)
	imgui.Separator()

	if imgui.CollapsingHeaderTreeNodeFlagsV("Playback", imgui.TreeNodeFlagsDefaultOpen) {
		s.playbackControls()
	}
	if imgui.CollapsingHeaderTreeNodeFlagsV("Clips", imgui.TreeNodeFlagsDefaultOpen) {
		s.clipControls()
	}
	if imgui.CollapsingHeaderTreeNodeFlagsV("Placement", imgui.TreeNodeFlagsDefaultOpen) {
		s.placementControls()
	}
	if imgui.CollapsingHeaderTreeNodeFlagsV("Lighting", 0) {
		s.sunControls()
	}
	if imgui.CollapsingHeaderTreeNodeFlagsV("Display", 0) {
		s.displayControls()
	}
}

func (s *studio) playbackControls() {
	p := s.stage.Player
	if p.Playing() {
		if imgui.ButtonV("Pause", imgui.NewVec2(-1, 0)) {
			p.Pause()
		}
	} else if imgui.ButtonV("Play", imgui.NewVec2(-1, 0)) {
		p.Play()
	}
	if imgui.Button("|<") {
		p.Rewind()
	}
	imgui.SameLine()
	if imgui.Button(">|") {
		p.GoEnd()
	}
	imgui.SameLine()
	loop := p.Looping()
	if imgui.Checkbox("Loop", &loop) {
		p.SetLoop(loop)
	}

	duration := float32(s.stage.Model.DurationSeconds())
	t := float32(p.Time())
	imgui.Text("Time:")
	imgui.SetNextItemWidth(-1)
	imgui.BeginDisabledV(duration <= 0)
	if imgui.SliderFloatV("##Time", &t, 0, duration, "%.2fs", imgui.SliderFlagsNone) {
		p.Seek(float64(t))
	}
	imgui.EndDisabled()

	speed := float32(p.Speed())
	imgui.Text("Speed:")
	imgui.SetNextItemWidth(-1)
	if imgui.SliderFloatV("##Speed", &speed, -playback.MaxSpeed, playback.MaxSpeed, "%.2fx", imgui.SliderFlagsNone) {
		p.SetSpeed(float64(speed))
	}
}

func (s *studio) clipControls() {
	m := s.stage.Model
	clips := m.Clips()
	if len(clips) == 0 {
		imgui.TextDisabled("No clips (bind pose)")
		return
	}
	imgui.SetNextItemWidth(-1)
	if imgui.BeginCombo("##Clip", m.ClipName()) {
		for _, name := range clips {
			if imgui.SelectableBoolV(name, name == m.ClipName(), 0, imgui.NewVec2(0, 0)) {
				if err := s.stage.SelectClip(name); err != nil {
					s.status = err.Error()
				}
			}
		}
		imgui.EndCombo()
	}
	imgui.Text(fmt.Sprintf("%.1f ticks at %.1f/s", m.DurationTicks(), m.TicksPerSecond()))
}

func (s *studio) placementControls() {
	p := &s.stage.Placement
	reach := placementReach(s.stage.Model.Bounds())
	for i, axis := range axes {
		imgui.SetNextItemWidth(-1)
		imgui.SliderFloatV("##T"+axis, &p.Translate[i], -reach, reach, "T"+axis+" %.2f", imgui.SliderFlagsNone)
	}
	for i, axis := range axes {
		imgui.SetNextItemWidth(-1)
		imgui.SliderFloatV("##R"+axis, &p.Rotate[i], -180, 180, "R"+axis+" %.0f deg", imgui.SliderFlagsNone)
	}
	for i, axis := range axes {
		imgui.SetNextItemWidth(-1)
		imgui.SliderFloatV("##S"+axis, &p.Scale[i], 0.05, 4, "S"+axis+" %.2f", imgui.SliderFlagsNone)
	}
	if imgui.ButtonV("Reset Placement", imgui.NewVec2(-1, 0)) {
		*p = model.DefaultPlacement()
	}
	if imgui.ButtonV("Frame Model", imgui.NewVec2(-1, 0)) {
		s.stage.Frame()
	}
}

func (s *studio) sunControls() {
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##Longitude", &s.sun.Longitude, -180, 180, "Longitude %.0f", imgui.SliderFlagsNone)
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##Latitude", &s.sun.Latitude, 0, 90, "Latitude %.0f", imgui.SliderFlagsNone)
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##Ambient", &s.sun.Ambient, 0, 1, "Ambient %.2f", imgui.SliderFlagsNone)
}

func (s *studio) displayControls() {
	imgui.Checkbox("Alpha test (cutout)", &s.stage.AlphaTest)
	imgui.Checkbox("Skeleton overlay", &s.stage.ShowSkeleton)
	wire := s.renderer.Wireframe()
	if imgui.Checkbox("Wireframe", &wire) {
		s.renderer.SetWireframe(wire)
	}
	if imgui.ButtonV("Open Model...", imgui.NewVec2(-1, 0)) {
		s.openFileDialog()
	}
	if imgui.ButtonV("Screenshot (F12)", imgui.NewVec2(-1, 0)) {
		s.shotQueued = true
	}
}

// placementReach is the translate slider range: a few model sizes.
func placementReach(b model.Bounds) float32 {
	if !b.Valid() {
		return 10
	}
	return max(b.Size().Length()*2, 1)
}
