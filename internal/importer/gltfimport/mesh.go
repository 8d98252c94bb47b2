package gltfimport

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// meshes emits one source mesh per triangle primitive of every reachable
// mesh node.
func (c *converter) meshes() error {
	for gi, n := range c.doc.Nodes {
		owner, ok := c.nodeOf[uint32(gi)]
		if !ok || n.Mesh == nil {
			continue
		}
		if int(*n.Mesh) >= len(c.doc.Meshes) {
			return fmt.Errorf("gltf: node %d mesh %d out of range", gi, *n.Mesh)
		}
		mesh := c.doc.Meshes[*n.Mesh]

		var sk *gltf.Skin
		var ibm []math.Mat4
		if n.Skin != nil && int(*n.Skin) < len(c.doc.Skins) {
			sk = c.doc.Skins[*n.Skin]
			var err error
			if ibm, err = c.inverseBinds(sk); err != nil {
				return fmt.Errorf("gltf: skin %d: %w", *n.Skin, err)
			}
		}

		for pi, p := range mesh.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				c.log.Debug("skipping non-triangle primitive")
				continue
			}
			sm, err := c.primitive(p, sk, ibm)
			if err != nil {
				return fmt.Errorf("gltf: mesh %q primitive %d: %w", mesh.Name, pi, err)
			}
			sm.Name = mesh.Name
			if sm.Name == "" {
				sm.Name = fmt.Sprintf("mesh%d", *n.Mesh)
			}
			if len(mesh.Primitives) > 1 {
				sm.Name = fmt.Sprintf("%s.%d", sm.Name, pi)
			}
			sm.Node = owner
			c.src.Meshes = append(c.src.Meshes, sm)
		}
	}
	return nil
}

func (c *converter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range: %w", idx, ErrUnsupportedAccessor)
	}
	return c.doc.Accessors[idx], nil
}

func (c *converter) primitive(p *gltf.Primitive, sk *gltf.Skin, ibm []math.Mat4) (model.SourceMesh, error) {
	sm := model.SourceMesh{Material: -1}
	if p.Material != nil && int(*p.Material) < len(c.src.Materials) {
		sm.Material = int(*p.Material)
	}

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return sm, fmt.Errorf("no POSITION attribute: %w", ErrUnsupportedAccessor)
	}
	acc, err := c.accessor(posIdx)
	if err != nil {
		return sm, err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return sm, err
	}

	var normals [][3]float32
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acc, err := c.accessor(idx); err == nil {
			normals, _ = modeler.ReadNormal(c.doc, acc, nil)
		}
	}
	var uvs [][2]float32
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err := c.accessor(idx); err == nil {
			uvs, _ = modeler.ReadTextureCoord(c.doc, acc, nil)
		}
	}

	sm.Vertices = make([]model.Vertex, len(positions))
	for i, pos := range positions {
		sm.Vertices[i].Position = pos
		if i < len(normals) {
			sm.Vertices[i].Normal = normals[i]
		}
		if i < len(uvs) {
			sm.Vertices[i].TexCoord = uvs[i]
		}
	}

	if p.Indices != nil {
		acc, err := c.accessor(*p.Indices)
		if err != nil {
			return sm, err
		}
		if sm.Indices, err = modeler.ReadIndices(c.doc, acc, nil); err != nil {
			return sm, err
		}
	} else {
		sm.Indices = make([]uint32, len(positions))
		for i := range sm.Indices {
			sm.Indices[i] = uint32(i)
		}
	}
	if len(normals) < len(positions) {
		model.ComputeNormals(sm.Vertices, sm.Indices)
	}

	if sk != nil {
		if sm.Bones, err = c.bones(p, sk, ibm, len(positions)); err != nil {
			return sm, err
		}
	}
	return sm, nil
}

// inverseBinds reads a skin's inverse bind matrices, identity when absent.
func (c *converter) inverseBinds(sk *gltf.Skin) ([]math.Mat4, error) {
	out := make([]math.Mat4, len(sk.Joints))
	for i := range out {
		out[i] = math.Identity()
	}
	if sk.InverseBindMatrices == nil {
		return out, nil
	}
	acc, err := c.accessor(*sk.InverseBindMatrices)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("inverse bind matrices are %T: %w", data, ErrUnsupportedAccessor)
	}
	for i := 0; i < len(mats) && i < len(out); i++ {
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				out[i][col*4+row] = mats[i][col][row]
			}
		}
	}
	return out, nil
}

// bones turns JOINTS_n/WEIGHTS_n pairs into per-joint weight lists. Joints
// that influence no vertex are dropped.
func (c *converter) bones(p *gltf.Primitive, sk *gltf.Skin, ibm []math.Mat4, vertexCount int) ([]skin.RawBone, error) {
	lists := make([][]skin.VertexWeight, len(sk.Joints))

	for set := 0; ; set++ {
		jIdx, okJ := p.Attributes[fmt.Sprintf("JOINTS_%d", set)]
		wIdx, okW := p.Attributes[fmt.Sprintf("WEIGHTS_%d", set)]
		if !okJ || !okW {
			break
		}
		jAcc, err := c.accessor(jIdx)
		if err != nil {
			return nil, err
		}
		wAcc, err := c.accessor(wIdx)
		if err != nil {
			return nil, err
		}
		joints, err := modeler.ReadJoints(c.doc, jAcc, nil)
		if err != nil {
			return nil, err
		}
		weights, err := modeler.ReadWeights(c.doc, wAcc, nil)
		if err != nil {
			return nil, err
		}

		for v := 0; v < vertexCount && v < len(joints) && v < len(weights); v++ {
			for k := 0; k < 4; k++ {
				j, w := int(joints[v][k]), weights[v][k]
				if w <= 0 || j >= len(lists) {
					continue
				}
				lists[j] = append(lists[j], skin.VertexWeight{Vertex: v, Weight: w})
			}
		}
	}

	var out []skin.RawBone
	for j, list := range lists {
		if len(list) == 0 {
			continue
		}
		node, ok := c.nodeOf[sk.Joints[j]]
		if !ok {
			return nil, fmt.Errorf("joint %d (node %d) is outside the scene: %w", j, sk.Joints[j], skin.ErrBoneNodeNotFound)
		}
		out = append(out, skin.RawBone{
			Name:    c.src.Nodes[node].Name,
			Offset:  ibm[j],
			Weights: list,
		})
	}
	return out, nil
}
