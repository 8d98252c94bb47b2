package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// SkinnedModel draws one shared vertex-weighted mesh with a bone palette.
type SkinnedModel struct {
	clipSet

	Name      string
	Skeleton  *skeleton.Skeleton
	Bones     []skin.Bone
	Mesh      MeshHandle
	Submeshes []Submesh
	Materials []Material

	bindBounds Bounds
	palette    skin.Palette
}

// LoadSkinned merges every source mesh into one skinned mesh. Bones are
// shared across meshes by name. A mesh without bone weights keeps its
// vertices in node-local space and is bound rigidly to its owning node.
// On failure no model is returned and nothing is left allocated on the
// device.
func LoadSkinned(ctx LoadContext, src *Source) (*SkinnedModel, error) {
	log := ctx.log().With(zap.String("model", src.Name))

	if !src.Skinned() {
		return nil, fmt.Errorf("model %q: %w", src.Name, ErrNoSkinnedMesh)
	}
	sk, err := skeleton.New(src.Nodes)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", src.Name, err)
	}

	bones := skin.NewBoneSet(sk)
	data := &SkinnedMeshData{Bounds: EmptyBounds()}
	truncated := 0

	for i := range src.Meshes {
		sm := &src.Meshes[i]
		n, err := appendSkinned(data, bones, sk, src, sm)
		if err != nil {
			return nil, fmt.Errorf("model %q mesh %d (%q): %w", src.Name, i, sm.Name, err)
		}
		truncated += n
	}

	h, err := ctx.Device.BuildSkinnedMesh(data)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w: %w", src.Name, ErrMeshBuild, err)
	}

	m := &SkinnedModel{
		clipSet:    newClipSet(src.Clips),
		Name:       src.Name,
		Skeleton:   sk,
		Bones:      bones.Bones(),
		Mesh:       h,
		Submeshes:  data.Submeshes,
		Materials:  src.materials(),
		bindBounds: data.Bounds,
	}

	addImages(ctx.Device, src)

	// Warm-up: the palette is valid before the first frame.
	m.Evaluate(0, false)

	log.Debug("skinned model loaded",
		zap.Int("nodes", sk.Len()),
		zap.Int("bones", len(m.Bones)),
		zap.Int("vertices", len(data.Vertices)),
		zap.Int("submeshes", len(m.Submeshes)),
		zap.Int("truncated_influences", truncated),
		zap.Strings("clips", m.Clips()))
	return m, nil
}

// appendSkinned adds one source mesh to data and returns how many vertices
// had influences dropped beyond the four-slot limit.
func appendSkinned(data *SkinnedMeshData, bones *skin.BoneSet, sk *skeleton.Skeleton, src *Source, sm *SourceMesh) (int, error) {
	if sm.Node < 0 || sm.Node >= sk.Len() {
		return 0, fmt.Errorf("node %d: %w", sm.Node, ErrBadOwner)
	}
	mat, ok := src.materialIndex(sm.Material)
	if !ok {
		return 0, fmt.Errorf("material %d: %w", sm.Material, ErrUnknownMaterial)
	}

	weights := make([]skin.BoneWeights, 0, len(sm.Bones))
	for _, rb := range sm.Bones {
		idx, err := bones.Add(rb)
		if err != nil {
			return 0, err
		}
		weights = append(weights, skin.BoneWeights{Bone: idx, Weights: rb.Weights})
	}
	// Unweighted meshes are node-local and follow their owner.
	bind := math.Identity()
	if len(sm.Bones) == 0 {
		idx, err := bones.AddNode(sm.Node)
		if err != nil {
			return 0, err
		}
		weights = append(weights, skin.BoneWeights{Bone: idx, Weights: allVertices(len(sm.Vertices))})
		bind = sk.BindGlobal(sm.Node)
	}

	influences := skin.Collect(len(sm.Vertices), weights)
	truncated := 0
	base := uint32(len(data.Vertices))
	for v := range sm.Vertices {
		if len(influences[v]) > skin.MaxInfluences {
			truncated++
		}
		vw := skin.ResolveVertex(influences[v])
		data.Vertices = append(data.Vertices, SkinnedVertex{
			Vertex:  sm.Vertices[v],
			Joints:  vw.Indices,
			Weights: vw.Weights,
		})
		data.Bounds.Extend(bind.TransformPoint(sm.Vertices[v].Position))
	}

	start := int32(len(data.Indices))
	for _, idx := range sm.Indices {
		data.Indices = append(data.Indices, base+idx)
	}
	data.Submeshes = append(data.Submeshes, Submesh{
		Name:       sm.Name,
		Material:   mat,
		StartIndex: start,
		IndexCount: int32(len(sm.Indices)),
	})
	return truncated, nil
}

func allVertices(n int) []skin.VertexWeight {
	w := make([]skin.VertexWeight, n)
	for i := range w {
		w[i] = skin.VertexWeight{Vertex: i, Weight: 1}
	}
	return w
}

// Evaluate poses the skeleton from the active clip and rebuilds the palette.
func (m *SkinnedModel) Evaluate(seconds float64, loop bool) {
	m.Skeleton.Evaluate(m.Clip(), seconds, loop)
	m.palette.Update(m.Skeleton, m.Bones)
}

// Palette returns the bone palette from the last evaluation. All MaxBones
// entries are populated.
func (m *SkinnedModel) Palette() *skin.Palette {
	return &m.palette
}

// Draw uploads the palette and submits every submesh whose material
// belongs to pass.
func (m *SkinnedModel) Draw(d Drawer, world math.Mat4, pass Pass) {
	paletteSet := false
	for i := range m.Submeshes {
		mat := &m.Materials[m.Submeshes[i].Material]
		if !pass.Accepts(mat) {
			continue
		}
		if !paletteSet {
			d.SetPalette(&m.palette)
			paletteSet = true
		}
		d.DrawSubmesh(m.Mesh, i, world, mat)
	}
}

// Bounds returns the bind-pose bounds of the merged mesh.
func (m *SkinnedModel) Bounds() Bounds {
	return m.bindBounds
}

// Release frees the device mesh.
func (m *SkinnedModel) Release() {
	if m.Mesh != nil {
		m.Mesh.Release()
		m.Mesh = nil
	}
}
