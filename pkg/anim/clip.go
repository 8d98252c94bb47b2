package anim

import (
	"errors"
	"fmt"
	stdmath "math"
)

// DefaultTicksPerSecond is used when a clip declares no positive rate.
const DefaultTicksPerSecond = 25.0

// ErrUnsortedKeys is returned when a track's key times decrease.
var ErrUnsortedKeys = errors.New("keyframe times are not sorted")

// Clip is a named set of channels with a duration in ticks.
// Clips are immutable once built.
type Clip struct {
	Name           string
	Duration       float64 // ticks
	TicksPerSecond float64
	Channels       []Channel

	index map[string]int
}

// NewClip validates the channels and indexes them by target name.
// When two channels target the same node the later one wins.
func NewClip(name string, duration, ticksPerSecond float64, channels []Channel) (*Clip, error) {
	for i := range channels {
		ch := &channels[i]
		if !sortedVector(ch.Translation) || !sortedQuat(ch.Rotation) || !sortedVector(ch.Scale) {
			return nil, fmt.Errorf("clip %q channel %q: %w", name, ch.Target, ErrUnsortedKeys)
		}
	}
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}

	c := &Clip{
		Name:           name,
		Duration:       duration,
		TicksPerSecond: ticksPerSecond,
		Channels:       channels,
		index:          make(map[string]int, len(channels)),
	}
	for i := range channels {
		c.index[channels[i].Target] = i
	}
	return c, nil
}

// Rate returns the effective ticks per second.
func (c *Clip) Rate() float64 {
	if c.TicksPerSecond <= 0 {
		return DefaultTicksPerSecond
	}
	return c.TicksPerSecond
}

// Animated reports whether the clip has a positive duration.
func (c *Clip) Animated() bool {
	return c != nil && c.Duration > 0
}

// DurationSeconds returns the clip length in seconds.
func (c *Clip) DurationSeconds() float64 {
	return c.Duration / c.Rate()
}

// Channel returns the channel targeting the named node.
func (c *Clip) Channel(target string) (*Channel, bool) {
	if c.index == nil {
		// Built as a literal; scan so the last match still wins.
		for i := len(c.Channels) - 1; i >= 0; i-- {
			if c.Channels[i].Target == target {
				return &c.Channels[i], true
			}
		}
		return nil, false
	}
	i, ok := c.index[target]
	if !ok {
		return nil, false
	}
	return &c.Channels[i], true
}

// MapTime converts seconds to ticks. Looping wraps into [0, Duration) with a
// positive modulo, otherwise the result is clamped to [0, Duration].
// Clips without a positive duration always map to 0.
func (c *Clip) MapTime(seconds float64, loop bool) float64 {
	if !c.Animated() {
		return 0
	}
	t := seconds * c.Rate()
	d := c.Duration
	if loop {
		t = stdmath.Mod(t, d)
		if t < 0 {
			t += d
		}
		if t >= d {
			t = 0
		}
		return t
	}
	return stdmath.Max(0, stdmath.Min(t, d))
}
