// Package anim stores keyframe tracks and clips and samples them in tick time.
package anim

import (
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// VectorKey is a translation or scale keyframe.
type VectorKey struct {
	Time  float64 // ticks
	Value math.Vec3
}

// QuatKey is a rotation keyframe.
type QuatKey struct {
	Time  float64 // ticks
	Value math.Quat
}

// UpperBound returns the first index whose key time is strictly greater than t.
// It returns n when no such key exists.
func UpperBound(n int, timeAt func(i int) float64, t float64) int {
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if timeAt(mid) > t {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// bracket locates the keys around t. When clamped is true only lo is valid.
func bracket(n int, timeAt func(i int) float64, t float64) (lo, hi int, u float32, clamped bool) {
	i := UpperBound(n, timeAt, t)
	switch {
	case i == 0:
		return 0, 0, 0, true
	case i >= n:
		return n - 1, n - 1, 0, true
	}
	a, b := timeAt(i-1), timeAt(i)
	span := b - a
	if span > 0 {
		u = float32((t - a) / span)
	}
	return i - 1, i, u, false
}

// SampleVector samples a translation or scale track at tick t.
// ok is false for an empty track.
func SampleVector(keys []VectorKey, t float64) (v math.Vec3, ok bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	lo, hi, u, clamped := bracket(len(keys), func(i int) float64 { return keys[i].Time }, t)
	if clamped {
		return keys[lo].Value, true
	}
	return keys[lo].Value.Lerp(keys[hi].Value, u), true
}

// SampleQuat samples a rotation track at tick t using shortest-path slerp.
// ok is false for an empty track.
func SampleQuat(keys []QuatKey, t float64) (q math.Quat, ok bool) {
	if len(keys) == 0 {
		return math.Quat{}, false
	}
	lo, hi, u, clamped := bracket(len(keys), func(i int) float64 { return keys[i].Time }, t)
	if clamped {
		return keys[lo].Value, true
	}
	return keys[lo].Value.Slerp(keys[hi].Value, u), true
}

// Channel holds the keyframe tracks driving one hierarchy node.
type Channel struct {
	Target      string
	Translation []VectorKey
	Rotation    []QuatKey
	Scale       []VectorKey
}

// LocalTransform samples the channel at tick t and composes scale, then
// rotation, then translation. An empty translation track keeps the
// translation of bind; empty rotation and scale tracks are identity.
func (c *Channel) LocalTransform(t float64, bind math.Mat4) math.Mat4 {
	pos, ok := SampleVector(c.Translation, t)
	if !ok {
		pos = bind.Translation()
	}
	rot, ok := SampleQuat(c.Rotation, t)
	if !ok {
		rot = math.QuatIdentity()
	}
	scale, ok := SampleVector(c.Scale, t)
	if !ok {
		scale = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.TRS(pos, rot, scale)
}

// KeyCount returns the total number of keys across all tracks.
func (c *Channel) KeyCount() int {
	return len(c.Translation) + len(c.Rotation) + len(c.Scale)
}

func sortedVector(keys []VectorKey) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i].Time < keys[i-1].Time {
			return false
		}
	}
	return true
}

func sortedQuat(keys []QuatKey) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i].Time < keys[i-1].Time {
			return false
		}
	}
	return true
}
