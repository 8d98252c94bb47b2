package glrender

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
)

// ErrEmptyMesh is returned for meshes without vertices or indices.
var ErrEmptyMesh = errors.New("glrender: empty mesh")

// Mesh is a vertex array with its buffers.
type Mesh struct {
	r         *Renderer
	vao       uint32
	vbo       uint32
	ebo       uint32
	skinned   bool
	submeshes []model.Submesh
}

// Release deletes the GL objects. Safe to call twice.
func (m *Mesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
	m.r.live--
}

// BuildStaticMesh uploads a static mesh.
func (r *Renderer) BuildStaticMesh(data *model.MeshData) (model.MeshHandle, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, ErrEmptyMesh
	}
	var v model.Vertex
	stride := int32(unsafe.Sizeof(v))
	m := r.upload(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*int(stride), data.Indices)
	vertexAttribs(stride)
	gl.BindVertexArray(0)

	m.submeshes = data.Submeshes
	r.log.Debug("static mesh uploaded", zap.Int("vertices", len(data.Vertices)), zap.Int("indices", len(data.Indices)))
	return m, nil
}

// BuildSkinnedMesh uploads a skinned mesh. Joint indices stay integers on
// the GPU.
func (r *Renderer) BuildSkinnedMesh(data *model.SkinnedMeshData) (model.MeshHandle, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, ErrEmptyMesh
	}
	var v model.SkinnedVertex
	stride := int32(unsafe.Sizeof(v))
	m := r.upload(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*int(stride), data.Indices)
	vertexAttribs(stride)

	gl.VertexAttribIPointer(3, 4, gl.UNSIGNED_BYTE, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Joints))))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(4, 4, gl.FLOAT, false, stride, unsafe.Offsetof(v.Weights))
	gl.EnableVertexAttribArray(4)
	gl.BindVertexArray(0)

	m.skinned = true
	m.submeshes = data.Submeshes
	r.log.Debug("skinned mesh uploaded", zap.Int("vertices", len(data.Vertices)), zap.Int("indices", len(data.Indices)))
	return m, nil
}

// upload creates the VAO and buffers and leaves the VAO bound.
func (r *Renderer) upload(vertices unsafe.Pointer, size int, indices []uint32) *Mesh {
	m := &Mesh{r: r}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, vertices, gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	r.live++
	return m
}

// vertexAttribs describes the shared position/normal/uv prefix.
func vertexAttribs(stride int32) {
	var v model.Vertex
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(v.Position))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(v.Normal))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, unsafe.Offsetof(v.TexCoord))
	gl.EnableVertexAttribArray(2)
}
