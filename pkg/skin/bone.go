package skin

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

// MaxBones is the fixed palette size.
const MaxBones = 256

var (
	// ErrBoneNodeNotFound means a bone names a node the skeleton lacks.
	ErrBoneNodeNotFound = errors.New("bone node not found")
	// ErrTooManyBones means a model needs more palette slots than MaxBones.
	ErrTooManyBones = errors.New("too many bones")
)

// VertexWeight is one entry of a bone's raw weight list.
type VertexWeight struct {
	Vertex int
	Weight float32
}

// RawBone is a bone as delivered by an importer.
type RawBone struct {
	Name    string
	Offset  math.Mat4 // mesh bind space to bone space
	Weights []VertexWeight
}

// Bone references a skeleton node by index.
type Bone struct {
	Name   string
	Node   int
	Offset math.Mat4
}

// BoneSet deduplicates bones by name while meshes are merged.
type BoneSet struct {
	sk    *skeleton.Skeleton
	bones []Bone
	index map[string]int
	nodes map[int]int // node bindings added by AddNode
}

// NewBoneSet returns an empty set bound to sk.
func NewBoneSet(sk *skeleton.Skeleton) *BoneSet {
	return &BoneSet{sk: sk, index: make(map[string]int), nodes: make(map[int]int)}
}

// AddNode returns a palette slot that moves vertices with node exactly as
// the node moves, for meshes authored in node-local space. It never merges
// with a named bone, whose offset maps from mesh bind space instead.
func (s *BoneSet) AddNode(node int) (int, error) {
	if i, ok := s.nodes[node]; ok {
		return i, nil
	}
	if node < 0 || node >= s.sk.Len() {
		return 0, fmt.Errorf("node %d: %w", node, ErrBoneNodeNotFound)
	}
	i, err := s.push(Bone{Name: s.sk.Node(node).Name, Node: node, Offset: math.Identity()})
	if err != nil {
		return 0, err
	}
	s.nodes[node] = i
	return i, nil
}

func (s *BoneSet) push(b Bone) (int, error) {
	if len(s.bones) >= MaxBones {
		return 0, fmt.Errorf("%q would be bone %d of max %d: %w", b.Name, len(s.bones)+1, MaxBones, ErrTooManyBones)
	}
	s.bones = append(s.bones, b)
	return len(s.bones) - 1, nil
}

// Add returns the palette index for raw, adding it on first sight.
// A name already present keeps its first offset.
func (s *BoneSet) Add(raw RawBone) (int, error) {
	if i, ok := s.index[raw.Name]; ok {
		return i, nil
	}
	node, ok := s.sk.Index(raw.Name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", raw.Name, ErrBoneNodeNotFound)
	}
	i, err := s.push(Bone{Name: raw.Name, Node: node, Offset: raw.Offset})
	if err != nil {
		return 0, err
	}
	s.index[raw.Name] = i
	return i, nil
}

// Bones returns the collected bones in palette order.
func (s *BoneSet) Bones() []Bone { return s.bones }

// BindBones maps raw bones onto sk and returns them in input order.
func BindBones(sk *skeleton.Skeleton, raw []RawBone) ([]Bone, error) {
	set := NewBoneSet(sk)
	for _, rb := range raw {
		if _, err := set.Add(rb); err != nil {
			return nil, err
		}
	}
	return set.Bones(), nil
}

// Palette holds one skinning matrix per bone slot.
type Palette [MaxBones]math.Mat4

// NewPalette returns a palette filled with identity.
func NewPalette() *Palette {
	p := new(Palette)
	p.Reset()
	return p
}

// Reset fills every slot with identity.
func (p *Palette) Reset() {
	id := math.Identity()
	for i := range p {
		p[i] = id
	}
}

// Update writes global(node) * offset for each bone and identity for the
// remaining slots.
func (p *Palette) Update(sk *skeleton.Skeleton, bones []Bone) {
	n := min(len(bones), MaxBones)
	for i := 0; i < n; i++ {
		p[i] = sk.Global(bones[i].Node).Mul(bones[i].Offset)
	}
	id := math.Identity()
	for i := n; i < MaxBones; i++ {
		p[i] = id
	}
}
