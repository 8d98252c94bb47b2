// Package rigyaml reads hand-authored rigs: a node hierarchy with box
// parts, materials and keyframed clips described in YAML.
package rigyaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

var (
	ErrUnknownParent   = errors.New("rigyaml: unknown parent")
	ErrUnknownMaterial = errors.New("rigyaml: unknown material")
	ErrUnknownNode     = errors.New("rigyaml: channel targets unknown node")
)

//go:embed boxman.yaml
var boxman []byte

// BoxMan returns the built-in sample rig.
func BoxMan() []byte { return boxman }

// Document is the YAML layout of a rig file.
type Document struct {
	Name           string        `yaml:"name"`
	Skinned        bool          `yaml:"skinned"`
	TicksPerSecond float64       `yaml:"ticks_per_second"`
	Materials      []MaterialDef `yaml:"materials"`
	Nodes          []NodeDef     `yaml:"nodes"`
	Clips          []ClipDef     `yaml:"clips"`
}

// MaterialDef describes one material.
type MaterialDef struct {
	Name     string         `yaml:"name"`
	Color    [4]float32     `yaml:"color"`
	Emissive [3]float32     `yaml:"emissive"`
	Textures model.Textures `yaml:"textures"`
}

// NodeDef describes one hierarchy node. Rotate is Euler degrees.
type NodeDef struct {
	Name      string      `yaml:"name"`
	Parent    string      `yaml:"parent"`
	Translate [3]float32  `yaml:"translate"`
	Rotate    [3]float32  `yaml:"rotate"`
	Scale     *[3]float32 `yaml:"scale"`
	Box       *BoxDef     `yaml:"box"`
}

// BoxDef is an axis-aligned box part in node space.
type BoxDef struct {
	Size     [3]float32 `yaml:"size"`
	Center   [3]float32 `yaml:"center"`
	Material string     `yaml:"material"`
}

// ClipDef describes one clip. Times are ticks.
type ClipDef struct {
	Name           string       `yaml:"name"`
	Duration       float64      `yaml:"duration"`
	TicksPerSecond float64      `yaml:"ticks_per_second"`
	Channels       []ChannelDef `yaml:"channels"`
}

// ChannelDef holds the keys for one node. Rotate values are Euler degrees.
type ChannelDef struct {
	Node      string   `yaml:"node"`
	Translate []VecKey `yaml:"translate"`
	Rotate    []VecKey `yaml:"rotate"`
	Scale     []VecKey `yaml:"scale"`
}

// VecKey is a time/value pair.
type VecKey struct {
	T float64    `yaml:"t"`
	V [3]float32 `yaml:"v"`
}

// Load reads a rig file.
func Load(path string) (*model.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rigyaml: %w", err)
	}
	return Parse(data)
}

// Parse decodes and converts a rig document. Unknown keys are rejected.
func Parse(data []byte) (*model.Source, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("rigyaml: decode: %w", err)
	}
	return doc.Source()
}

// Source converts the document into a model source.
func (d *Document) Source() (*model.Source, error) {
	src := &model.Source{Name: d.Name}

	matIndex := make(map[string]int, len(d.Materials))
	for i, m := range d.Materials {
		matIndex[m.Name] = i
		color := m.Color
		if color == ([4]float32{}) {
			color = [4]float32{1, 1, 1, 1}
		}
		src.Materials = append(src.Materials, model.Material{
			Name:      m.Name,
			BaseColor: color,
			Emissive:  m.Emissive,
			Textures:  m.Textures,
		})
	}

	nodeIndex := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		nodeIndex[n.Name] = i
	}
	for _, n := range d.Nodes {
		parent := -1
		if n.Parent != "" {
			p, ok := nodeIndex[n.Parent]
			if !ok {
				return nil, fmt.Errorf("node %q parent %q: %w", n.Name, n.Parent, ErrUnknownParent)
			}
			parent = p
		}
		scale := math.Vec3{X: 1, Y: 1, Z: 1}
		if n.Scale != nil {
			scale = vec(*n.Scale)
		}
		src.Nodes = append(src.Nodes, skeleton.RawNode{
			Name:      n.Name,
			Parent:    parent,
			BindLocal: math.TRS(vec(n.Translate), math.QuatFromEuler(vec(n.Rotate)), scale),
		})
	}

	// Bind poses are needed for skinned offsets.
	var sk *skeleton.Skeleton
	if d.Skinned {
		var err error
		if sk, err = skeleton.New(src.Nodes); err != nil {
			return nil, fmt.Errorf("rigyaml: %w", err)
		}
	}

	for i, n := range d.Nodes {
		if n.Box == nil {
			continue
		}
		mat := -1
		if n.Box.Material != "" {
			m, ok := matIndex[n.Box.Material]
			if !ok {
				return nil, fmt.Errorf("node %q material %q: %w", n.Name, n.Box.Material, ErrUnknownMaterial)
			}
			mat = m
		}
		vertices, indices := Box(vec(n.Box.Center), vec(n.Box.Size))
		sm := model.SourceMesh{Name: n.Name, Node: i, Material: mat, Vertices: vertices, Indices: indices}
		if sk != nil {
			bindBox(&sm, sk, i)
		}
		src.Meshes = append(src.Meshes, sm)
	}

	for _, c := range d.Clips {
		clip, err := d.clip(c, nodeIndex)
		if err != nil {
			return nil, err
		}
		src.Clips = append(src.Clips, clip)
	}
	return src, nil
}

// bindBox moves a box into model bind space and weights it fully to its
// owning node.
func bindBox(sm *model.SourceMesh, sk *skeleton.Skeleton, node int) {
	bind := sk.BindGlobal(node)
	weights := make([]skin.VertexWeight, len(sm.Vertices))
	for v := range sm.Vertices {
		sm.Vertices[v].Position = bind.TransformPoint(sm.Vertices[v].Position)
		sm.Vertices[v].Normal = bind.TransformNormal(sm.Vertices[v].Normal)
		weights[v] = skin.VertexWeight{Vertex: v, Weight: 1}
	}
	sm.Bones = []skin.RawBone{{
		Name:    sk.Node(node).Name,
		Offset:  bind.Inverse(),
		Weights: weights,
	}}
}

func (d *Document) clip(c ClipDef, nodeIndex map[string]int) (*anim.Clip, error) {
	tps := c.TicksPerSecond
	if tps <= 0 {
		tps = d.TicksPerSecond
	}
	channels := make([]anim.Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		if _, ok := nodeIndex[ch.Node]; !ok {
			return nil, fmt.Errorf("clip %q node %q: %w", c.Name, ch.Node, ErrUnknownNode)
		}
		out := anim.Channel{Target: ch.Node}
		for _, k := range ch.Translate {
			out.Translation = append(out.Translation, anim.VectorKey{Time: k.T, Value: vec(k.V)})
		}
		for _, k := range ch.Rotate {
			out.Rotation = append(out.Rotation, anim.QuatKey{Time: k.T, Value: math.QuatFromEuler(vec(k.V))})
		}
		for _, k := range ch.Scale {
			out.Scale = append(out.Scale, anim.VectorKey{Time: k.T, Value: vec(k.V)})
		}
		channels = append(channels, out)
	}
	clip, err := anim.NewClip(c.Name, c.Duration, tps, channels)
	if err != nil {
		return nil, fmt.Errorf("rigyaml: %w", err)
	}
	return clip, nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
