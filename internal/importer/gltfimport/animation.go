package gltfimport

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

func (c *converter) animation(i int, a *gltf.Animation) (*anim.Clip, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("anim%d", i)
	}

	var channels []anim.Channel
	byNode := make(map[int]int)
	var end float64

	for ci, ch := range a.Channels {
		if ch.Target.Node == nil || ch.Sampler == nil || int(*ch.Sampler) >= len(a.Samplers) {
			continue
		}
		node, ok := c.nodeOf[*ch.Target.Node]
		if !ok {
			continue
		}
		s := a.Samplers[*ch.Sampler]
		if s.Input == nil || s.Output == nil {
			continue
		}

		times, err := c.times(*s.Input)
		if err != nil {
			return nil, fmt.Errorf("gltf: animation %q channel %d: %w", name, ci, err)
		}
		if len(times) > 0 && times[len(times)-1] > end {
			end = times[len(times)-1]
		}

		k, ok := byNode[node]
		if !ok {
			k = len(channels)
			byNode[node] = k
			channels = append(channels, anim.Channel{Target: c.src.Nodes[node].Name})
		}
		target := &channels[k]

		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := c.vec3s(*s.Output, len(times), s.Interpolation)
			if err != nil {
				return nil, fmt.Errorf("gltf: animation %q channel %d: %w", name, ci, err)
			}
			keys := vectorKeys(times, values, s.Interpolation == gltf.InterpolationStep)
			if ch.Target.Path == gltf.TRSTranslation {
				target.Translation = keys
			} else {
				target.Scale = keys
			}
		case gltf.TRSRotation:
			values, err := c.quats(*s.Output, len(times), s.Interpolation)
			if err != nil {
				return nil, fmt.Errorf("gltf: animation %q channel %d: %w", name, ci, err)
			}
			target.Rotation = quatKeys(times, values, s.Interpolation == gltf.InterpolationStep)
		default:
			c.log.Debug("skipping morph weight channel")
		}
	}

	for i := range channels {
		scaleTimes(&channels[i], c.opts.TicksPerSecond)
	}
	return anim.NewClip(name, end*c.opts.TicksPerSecond, c.opts.TicksPerSecond, channels)
}

func (c *converter) times(idx uint32) ([]float64, error) {
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("key times are %T: %w", data, ErrUnsupportedAccessor)
	}
	out := make([]float64, len(raw))
	for i, t := range raw {
		out[i] = float64(t)
	}
	return out, nil
}

// keyValues picks the value element of each key. Cubic spline outputs
// store in-tangent, value, out-tangent per key.
func keyValues[T any](values []T, n int, interp gltf.Interpolation) []T {
	if interp != gltf.InterpolationCubicSpline {
		if len(values) > n {
			values = values[:n]
		}
		return values
	}
	out := make([]T, 0, n)
	for i := 0; i < n && 3*i+1 < len(values); i++ {
		out = append(out, values[3*i+1])
	}
	return out
}

func (c *converter) vec3s(idx uint32, n int, interp gltf.Interpolation) ([]math.Vec3, error) {
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("vector outputs are %T: %w", data, ErrUnsupportedAccessor)
	}
	raw = keyValues(raw, n, interp)
	out := make([]math.Vec3, len(raw))
	for i, v := range raw {
		out[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return out, nil
}

func (c *converter) quats(idx uint32, n int, interp gltf.Interpolation) ([]math.Quat, error) {
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("rotation outputs are %T: %w", data, ErrUnsupportedAccessor)
	}
	raw = keyValues(raw, n, interp)
	out := make([]math.Quat, len(raw))
	for i, v := range raw {
		out[i] = math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	}
	return out, nil
}

// vectorKeys pairs times with values. Step keys hold their value until the
// next key time; the repeated time resolves to the later key.
func vectorKeys(times []float64, values []math.Vec3, step bool) []anim.VectorKey {
	n := min(len(times), len(values))
	keys := make([]anim.VectorKey, 0, n)
	for i := 0; i < n; i++ {
		if step && i > 0 {
			keys = append(keys, anim.VectorKey{Time: times[i], Value: values[i-1]})
		}
		keys = append(keys, anim.VectorKey{Time: times[i], Value: values[i]})
	}
	return keys
}

func quatKeys(times []float64, values []math.Quat, step bool) []anim.QuatKey {
	n := min(len(times), len(values))
	keys := make([]anim.QuatKey, 0, n)
	for i := 0; i < n; i++ {
		if step && i > 0 {
			keys = append(keys, anim.QuatKey{Time: times[i], Value: values[i-1]})
		}
		keys = append(keys, anim.QuatKey{Time: times[i], Value: values[i]})
	}
	return keys
}

func scaleTimes(ch *anim.Channel, tps float64) {
	for i := range ch.Translation {
		ch.Translation[i].Time *= tps
	}
	for i := range ch.Rotation {
		ch.Rotation[i].Time *= tps
	}
	for i := range ch.Scale {
		ch.Scale[i].Time *= tps
	}
}
