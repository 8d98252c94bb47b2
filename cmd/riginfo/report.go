package main

import (
	"fmt"
	stdmath "math"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

type report struct {
	Model    string       `yaml:"model"`
	Strategy string       `yaml:"strategy"`
	Bones    int          `yaml:"bones,omitempty"`
	Bounds   boundsReport `yaml:"bounds"`
	Nodes    []nodeReport `yaml:"nodes"`
	Clips    []clipReport `yaml:"clips"`
	Poses    []poseReport `yaml:"poses,omitempty"`
}

type boundsReport struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

type nodeReport struct {
	Name     string   `yaml:"name"`
	Parent   string   `yaml:"parent,omitempty"`
	Depth    int      `yaml:"depth"`
	Parts    int      `yaml:"parts,omitempty"`
	Children []string `yaml:"children,omitempty,flow"`
}

type clipReport struct {
	Name            string  `yaml:"name"`
	DurationTicks   float64 `yaml:"duration_ticks"`
	TicksPerSecond  float64 `yaml:"ticks_per_second"`
	DurationSeconds float64 `yaml:"duration_seconds"`
	Channels        int     `yaml:"channels"`
	Keys            int     `yaml:"keys"`
}

type poseReport struct {
	Clip  string                `yaml:"clip"`
	Time  float64               `yaml:"time"`
	Nodes map[string][3]float32 `yaml:"nodes"` // global translation
}

type reportOptions struct {
	Clip    string // empty reports every clip
	Samples int
	Node    string
}

func buildReport(m model.Model, opts reportOptions) (*report, error) {
	sk := model.SkeletonOf(m)
	if sk == nil {
		return nil, fmt.Errorf("model has no skeleton")
	}

	rep := &report{Strategy: "rigid"}
	switch v := m.(type) {
	case *model.RigidModel:
		rep.Model = v.Name
	case *model.SkinnedModel:
		rep.Model = v.Name
		rep.Strategy = "skinned"
		rep.Bones = len(v.Bones)
	}

	for _, i := range sk.Order() {
		rep.Nodes = append(rep.Nodes, describeNode(sk, i))
	}

	clips := m.Clips()
	if opts.Clip != "" {
		clips = []string{opts.Clip}
	}
	for _, name := range clips {
		if err := m.SetClip(name); err != nil {
			return nil, err
		}
		c := m.Clip()
		keys := 0
		for i := range c.Channels {
			keys += c.Channels[i].KeyCount()
		}
		rep.Clips = append(rep.Clips, clipReport{
			Name:            c.Name,
			DurationTicks:   c.Duration,
			TicksPerSecond:  c.Rate(),
			DurationSeconds: round(c.DurationSeconds()),
			Channels:        len(c.Channels),
			Keys:            keys,
		})
		rep.Poses = append(rep.Poses, samplePoses(m, sk, name, opts)...)
	}

	// Bounds are reported in the bind pose.
	sk.ResetToBind()
	b := m.Bounds()
	rep.Bounds = boundsReport{Min: b.Min, Max: b.Max}
	return rep, nil
}

func describeNode(sk *skeleton.Skeleton, i int) nodeReport {
	n := sk.Node(i)
	out := nodeReport{Name: n.Name, Depth: sk.Depth(i), Parts: len(n.Parts)}
	if n.Parent >= 0 {
		out.Parent = sk.Node(n.Parent).Name
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, sk.Node(c).Name)
	}
	return out
}

// samplePoses evaluates the active clip at evenly spaced times including
// both ends.
func samplePoses(m model.Model, sk *skeleton.Skeleton, clip string, opts reportOptions) []poseReport {
	if opts.Samples <= 0 {
		return nil
	}
	dur := m.DurationSeconds()
	poses := make([]poseReport, 0, opts.Samples)
	for s := 0; s < opts.Samples; s++ {
		t := 0.0
		if opts.Samples > 1 {
			t = dur * float64(s) / float64(opts.Samples-1)
		}
		m.Evaluate(t, false)

		pose := poseReport{Clip: clip, Time: round(t), Nodes: make(map[string][3]float32)}
		for _, i := range sk.Order() {
			name := sk.Node(i).Name
			if opts.Node != "" && name != opts.Node {
				continue
			}
			pose.Nodes[name] = roundVec(sk.Global(i).Translation())
		}
		poses = append(poses, pose)
	}
	return poses
}

func round(f float64) float64 {
	return stdmath.Round(f*1e4) / 1e4
}

func roundVec(v math.Vec3) [3]float32 {
	return [3]float32{
		float32(round(float64(v.X))),
		float32(round(float64(v.Y))),
		float32(round(float64(v.Z))),
	}
}
