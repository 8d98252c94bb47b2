package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// Load errors.
var (
	ErrMeshBuild       = errors.New("mesh build failed")
	ErrNoSkinnedMesh   = errors.New("source has no skinned mesh")
	ErrBadOwner        = errors.New("mesh owner node out of range")
	ErrUnknownMaterial = errors.New("mesh material out of range")
)

// Part is a static mesh rigidly attached to one node.
type Part struct {
	Name      string
	Node      int
	Mesh      MeshHandle
	Submeshes []Submesh
	Bounds    Bounds // node-local
}

// RigidModel animates static parts by moving their owning nodes.
type RigidModel struct {
	clipSet

	Name      string
	Skeleton  *skeleton.Skeleton
	Parts     []Part
	Materials []Material
}

// LoadRigid builds one static mesh per source mesh. On failure every mesh
// already built is released and no model is returned.
func LoadRigid(ctx LoadContext, src *Source) (*RigidModel, error) {
	log := ctx.log().With(zap.String("model", src.Name))

	sk, err := skeleton.New(src.Nodes)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", src.Name, err)
	}

	m := &RigidModel{
		clipSet:   newClipSet(src.Clips),
		Name:      src.Name,
		Skeleton:  sk,
		Materials: src.materials(),
	}

	handles := make([]MeshHandle, 0, len(src.Meshes))
	for i := range src.Meshes {
		part, err := buildPart(ctx.Device, src, sk, &src.Meshes[i])
		if err != nil {
			releaseAll(handles)
			return nil, fmt.Errorf("model %q mesh %d (%q): %w", src.Name, i, src.Meshes[i].Name, err)
		}
		handles = append(handles, part.Mesh)
		sk.AttachPart(part.Node, len(m.Parts))
		m.Parts = append(m.Parts, part)
	}

	addImages(ctx.Device, src)
	m.Evaluate(0, false)

	log.Debug("rigid model loaded",
		zap.Int("nodes", sk.Len()),
		zap.Int("parts", len(m.Parts)),
		zap.Strings("clips", m.Clips()))
	return m, nil
}

func buildPart(dev Device, src *Source, sk *skeleton.Skeleton, sm *SourceMesh) (Part, error) {
	if sm.Node < 0 || sm.Node >= len(src.Nodes) {
		return Part{}, fmt.Errorf("node %d: %w", sm.Node, ErrBadOwner)
	}
	mat, ok := src.materialIndex(sm.Material)
	if !ok {
		return Part{}, fmt.Errorf("material %d: %w", sm.Material, ErrUnknownMaterial)
	}
	node, vertices, err := rigidVertices(sk, sm)
	if err != nil {
		return Part{}, err
	}

	data := &MeshData{
		Vertices: vertices,
		Indices:  sm.Indices,
		Submeshes: []Submesh{{
			Name:       sm.Name,
			Material:   mat,
			IndexCount: int32(len(sm.Indices)),
		}},
		Bounds: MeshBounds(vertices),
	}
	h, err := dev.BuildStaticMesh(data)
	if err != nil {
		return Part{}, fmt.Errorf("%w: %w", ErrMeshBuild, err)
	}
	return Part{
		Name:      sm.Name,
		Node:      node,
		Mesh:      h,
		Submeshes: data.Submeshes,
		Bounds:    data.Bounds,
	}, nil
}

// rigidVertices returns the node a mesh moves with and its vertices in that
// node's space. Unweighted meshes are already node-local. Weighted meshes
// are in bind space and follow their dominant bone, whose offset maps them
// back into the bone's space.
func rigidVertices(sk *skeleton.Skeleton, sm *SourceMesh) (int, []Vertex, error) {
	if len(sm.Bones) == 0 {
		return sm.Node, sm.Vertices, nil
	}
	bone := dominantBone(sm.Bones)
	node, ok := sk.Index(bone.Name)
	if !ok {
		return 0, nil, fmt.Errorf("bone %q: %w", bone.Name, skin.ErrBoneNodeNotFound)
	}
	out := make([]Vertex, len(sm.Vertices))
	for i, v := range sm.Vertices {
		v.Position = bone.Offset.TransformPoint(v.Position)
		v.Normal = bone.Offset.TransformNormal(v.Normal)
		out[i] = v
	}
	return node, out, nil
}

// dominantBone returns the bone with the largest total weight. Ties go to
// the first one.
func dominantBone(bones []skin.RawBone) *skin.RawBone {
	best, bestSum := 0, float32(-1)
	for i := range bones {
		var sum float32
		for _, w := range bones[i].Weights {
			sum += w.Weight
		}
		if sum > bestSum {
			best, bestSum = i, sum
		}
	}
	return &bones[best]
}

// Evaluate poses the skeleton from the active clip.
func (m *RigidModel) Evaluate(seconds float64, loop bool) {
	m.Skeleton.Evaluate(m.Clip(), seconds, loop)
}

// PartWorld returns the world matrix of part i: the node's pose applied in
// model space, followed by the model placement.
func (m *RigidModel) PartWorld(i int, world math.Mat4) math.Mat4 {
	return world.Mul(m.Skeleton.Global(m.Parts[i].Node))
}

// Draw submits every submesh whose material belongs to pass.
func (m *RigidModel) Draw(d Drawer, world math.Mat4, pass Pass) {
	for i := range m.Parts {
		p := &m.Parts[i]
		var pw math.Mat4
		computed := false
		for j := range p.Submeshes {
			mat := &m.Materials[p.Submeshes[j].Material]
			if !pass.Accepts(mat) {
				continue
			}
			if !computed {
				pw = m.PartWorld(i, world)
				computed = true
			}
			d.DrawSubmesh(p.Mesh, j, pw, mat)
		}
	}
}

// Bounds returns model-space bounds of all parts in the current pose.
func (m *RigidModel) Bounds() Bounds {
	b := EmptyBounds()
	for i := range m.Parts {
		p := &m.Parts[i]
		b = b.Union(p.Bounds.Transform(m.Skeleton.Global(p.Node)))
	}
	return b
}

// Release frees all device meshes.
func (m *RigidModel) Release() {
	for i := range m.Parts {
		m.Parts[i].Mesh.Release()
	}
	m.Parts = nil
}
