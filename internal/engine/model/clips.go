package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-rig/pkg/anim"
)

// ErrUnknownClip is returned by SetClip for a name the model lacks.
var ErrUnknownClip = errors.New("unknown clip")

// clipSet holds a model's clips and the active selection.
type clipSet struct {
	clips  []*anim.Clip
	active int // -1 when the model has no clips
}

func newClipSet(clips []*anim.Clip) clipSet {
	cs := clipSet{active: -1}
	for _, c := range clips {
		if c != nil {
			cs.clips = append(cs.clips, c)
		}
	}
	if len(cs.clips) > 0 {
		cs.active = 0
	}
	return cs
}

// Clip returns the active clip or nil.
func (cs *clipSet) Clip() *anim.Clip {
	if cs.active < 0 {
		return nil
	}
	return cs.clips[cs.active]
}

// SetClip selects the named clip.
func (cs *clipSet) SetClip(name string) error {
	for i, c := range cs.clips {
		if c.Name == name {
			cs.active = i
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrUnknownClip)
}

// Clips lists clip names in import order.
func (cs *clipSet) Clips() []string {
	names := make([]string, len(cs.clips))
	for i, c := range cs.clips {
		names[i] = c.Name
	}
	return names
}

// ClipName returns the active clip's name, or "" without one.
func (cs *clipSet) ClipName() string {
	if c := cs.Clip(); c != nil {
		return c.Name
	}
	return ""
}

// DurationTicks returns the active clip duration in ticks.
func (cs *clipSet) DurationTicks() float64 {
	if c := cs.Clip(); c != nil {
		return c.Duration
	}
	return 0
}

// DurationSeconds returns the active clip duration in seconds.
func (cs *clipSet) DurationSeconds() float64 {
	if c := cs.Clip(); c != nil {
		return c.DurationSeconds()
	}
	return 0
}

// TicksPerSecond returns the active clip rate, or the default without one.
func (cs *clipSet) TicksPerSecond() float64 {
	if c := cs.Clip(); c != nil {
		return c.Rate()
	}
	return anim.DefaultTicksPerSecond
}
