// Package playback drives a model's clip time from frame deltas.
package playback

import stdmath "math"

// Speed limits and the step used by Faster/Slower.
const (
	MaxSpeed  = 4.0
	SpeedStep = 0.25
)

// Target is anything that can be posed at a clip time.
type Target interface {
	Evaluate(seconds float64, loop bool)
	DurationSeconds() float64
}

// Player owns the clip time of one target. Negative speeds play backwards.
type Player struct {
	target Target

	time    float64
	speed   float64
	playing bool
	loop    bool
}

// New returns a player that starts playing and looping at normal speed.
func New(target Target) *Player {
	return &Player{target: target, speed: 1, playing: true, loop: true}
}

// SetTarget switches to another target and rewinds.
func (p *Player) SetTarget(target Target) {
	p.target = target
	p.Rewind()
}

func (p *Player) Time() float64  { return p.time }
func (p *Player) Speed() float64 { return p.speed }
func (p *Player) Playing() bool  { return p.playing }
func (p *Player) Looping() bool  { return p.loop }

// Play resumes playback. A stopped, non-looping player at an end restarts
// from the opposite end.
func (p *Player) Play() {
	d := p.duration()
	if !p.loop && d > 0 {
		if p.speed >= 0 && p.time >= d {
			p.time = 0
		} else if p.speed < 0 && p.time <= 0 {
			p.time = d
		}
	}
	p.playing = true
}

func (p *Player) Pause() { p.playing = false }

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	if p.playing {
		p.Pause()
	} else {
		p.Play()
	}
}

func (p *Player) SetLoop(loop bool) { p.loop = loop }

// ToggleLoop flips looping and returns the new state.
func (p *Player) ToggleLoop() bool {
	p.loop = !p.loop
	return p.loop
}

// SetSpeed sets the playback multiplier, clamped to [-MaxSpeed, MaxSpeed].
func (p *Player) SetSpeed(s float64) {
	p.speed = stdmath.Max(-MaxSpeed, stdmath.Min(MaxSpeed, s))
}

func (p *Player) Faster() { p.SetSpeed(p.speed + SpeedStep) }
func (p *Player) Slower() { p.SetSpeed(p.speed - SpeedStep) }

// Advance moves time by dt scaled by speed and poses the target. Looping
// wraps into [0, duration); otherwise time clamps to the ends and playback
// stops there.
func (p *Player) Advance(dt float64) {
	if p.playing {
		p.time += dt * p.speed
	}
	if d := p.duration(); d > 0 {
		if p.loop {
			p.time = stdmath.Mod(p.time, d)
			if p.time < 0 {
				p.time += d
			}
		} else if p.time >= d {
			p.time = d
			p.playing = false
		} else if p.time < 0 {
			p.time = 0
			p.playing = false
		}
	}
	p.evaluate()
}

// Seek jumps to t clamped to [0, duration] and poses the target.
func (p *Player) Seek(t float64) {
	p.time = stdmath.Max(0, stdmath.Min(p.duration(), t))
	p.evaluate()
}

// Rewind seeks to the start.
func (p *Player) Rewind() { p.Seek(0) }

// GoEnd seeks to the end.
func (p *Player) GoEnd() { p.Seek(p.duration()) }

// Progress returns time as a fraction of the duration.
func (p *Player) Progress() float64 {
	d := p.duration()
	if d <= 0 {
		return 0
	}
	return p.time / d
}

func (p *Player) duration() float64 {
	if p.target == nil {
		return 0
	}
	return p.target.DurationSeconds()
}

func (p *Player) evaluate() {
	if p.target != nil {
		p.target.Evaluate(p.time, p.loop)
	}
}
