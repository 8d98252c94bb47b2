package playback

import (
	stdmath "math"
	"testing"
)

type fakeTarget struct {
	duration float64
	lastT    float64
	lastLoop bool
	calls    int
}

func (f *fakeTarget) Evaluate(seconds float64, loop bool) {
	f.lastT = seconds
	f.lastLoop = loop
	f.calls++
}

func (f *fakeTarget) DurationSeconds() float64 { return f.duration }

func near(a, b float64) bool { return stdmath.Abs(a-b) < 1e-9 }

func TestAdvance(t *testing.T) {
	tests := []struct {
		name        string
		start       float64
		speed       float64
		loop        bool
		dt          float64
		wantTime    float64
		wantPlaying bool
	}{
		{"forward", 0, 1, true, 0.5, 0.5, true},
		{"double speed", 0, 2, true, 0.5, 1, true},
		{"loop wraps", 1.5, 1, true, 1, 0.5, true},
		{"loop wraps backwards", 0.25, -1, true, 0.5, 1.75, true},
		{"clamp at end", 1.5, 1, false, 1, 2, false},
		{"clamp at start", 0.25, -1, false, 0.5, 0, false},
		{"exact end stops", 1, 1, false, 1, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{duration: 2}
			p := New(target)
			p.SetLoop(tt.loop)
			p.SetSpeed(tt.speed)
			p.Seek(tt.start)

			p.Advance(tt.dt)
			if !near(p.Time(), tt.wantTime) {
				t.Errorf("time = %v, want %v", p.Time(), tt.wantTime)
			}
			if p.Playing() != tt.wantPlaying {
				t.Errorf("playing = %v, want %v", p.Playing(), tt.wantPlaying)
			}
			if !near(target.lastT, p.Time()) || target.lastLoop != tt.loop {
				t.Errorf("target evaluated at %v loop %v", target.lastT, target.lastLoop)
			}
		})
	}
}

func TestPausedHoldsTime(t *testing.T) {
	target := &fakeTarget{duration: 2}
	p := New(target)
	p.Advance(0.5)
	p.Pause()
	p.Advance(1)
	if !near(p.Time(), 0.5) {
		t.Errorf("time = %v, want 0.5", p.Time())
	}
	if target.calls != 2 {
		t.Errorf("evaluated %d times, want 2", target.calls)
	}
	p.Toggle()
	if !p.Playing() {
		t.Error("toggle should resume")
	}
}

func TestPlayAfterEndRestarts(t *testing.T) {
	p := New(&fakeTarget{duration: 2})
	p.SetLoop(false)
	p.Advance(3)
	if p.Playing() || !near(p.Time(), 2) {
		t.Fatalf("time %v playing %v", p.Time(), p.Playing())
	}
	p.Play()
	if !near(p.Time(), 0) {
		t.Errorf("play from end should restart, time = %v", p.Time())
	}
}

func TestSeekClamps(t *testing.T) {
	p := New(&fakeTarget{duration: 2})
	p.Seek(5)
	if !near(p.Time(), 2) {
		t.Errorf("seek past end = %v", p.Time())
	}
	p.Seek(-1)
	if !near(p.Time(), 0) {
		t.Errorf("seek before start = %v", p.Time())
	}
	p.GoEnd()
	if !near(p.Progress(), 1) {
		t.Errorf("progress at end = %v", p.Progress())
	}
	p.Rewind()
	if !near(p.Progress(), 0) {
		t.Errorf("progress at start = %v", p.Progress())
	}
}

func TestSpeedLimits(t *testing.T) {
	p := New(&fakeTarget{duration: 1})
	p.SetSpeed(10)
	if p.Speed() != MaxSpeed {
		t.Errorf("speed = %v, want %v", p.Speed(), MaxSpeed)
	}
	p.SetSpeed(-10)
	if p.Speed() != -MaxSpeed {
		t.Errorf("speed = %v, want %v", p.Speed(), -MaxSpeed)
	}
	p.SetSpeed(1)
	p.Faster()
	p.Slower()
	p.Slower()
	if p.Speed() != 1-SpeedStep {
		t.Errorf("speed = %v, want %v", p.Speed(), 1-SpeedStep)
	}
}

func TestZeroDurationTarget(t *testing.T) {
	target := &fakeTarget{}
	p := New(target)
	p.SetLoop(false)
	p.Advance(1)
	if !p.Playing() {
		t.Error("zero-duration target should not stop playback")
	}
	if target.calls != 1 {
		t.Errorf("evaluated %d times, want 1", target.calls)
	}
	if p.Progress() != 0 {
		t.Errorf("progress = %v", p.Progress())
	}
	if p.ToggleLoop() != true {
		t.Error("toggle loop should enable looping")
	}
}

func TestNilTarget(t *testing.T) {
	p := New(nil)
	p.Advance(1)
	p.Seek(1)
	if p.Time() != 0 {
		t.Errorf("time = %v, want 0", p.Time())
	}
}
