package glrender

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/engine/shader"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// BeginPass sets depth, color and blend state for pass.
func (r *Renderer) BeginPass(pass model.Pass) {
	r.pass = pass
	switch pass {
	case model.PassDepth:
		gl.ColorMask(false, false, false, false)
		gl.DepthMask(true)
		gl.DepthFunc(gl.LESS)
		gl.Disable(gl.BLEND)
	case model.PassOpaque, model.PassAlphaTest:
		gl.ColorMask(true, true, true, true)
		gl.DepthMask(true)
		gl.DepthFunc(gl.LEQUAL)
		gl.Disable(gl.BLEND)
	case model.PassTransparent:
		gl.ColorMask(true, true, true, true)
		gl.DepthMask(false)
		gl.DepthFunc(gl.LEQUAL)
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// SetPalette uploads the bone palette to the uniform buffer.
func (r *Renderer) SetPalette(p *skin.Palette) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.palette)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, paletteBytes, unsafe.Pointer(&p[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// DrawSubmesh draws one index range of a mesh built by this renderer.
func (r *Renderer) DrawSubmesh(handle model.MeshHandle, submesh int, world math.Mat4, mat *model.Material) {
	m, ok := handle.(*Mesh)
	if !ok || m.vao == 0 || submesh < 0 || submesh >= len(m.submeshes) {
		return
	}
	prog := r.static
	if m.skinned {
		prog = r.skinned
	}
	prog.Use()
	prog.SetMat4("uModel", world)
	prog.SetMat4("uViewProj", r.viewProj)
	prog.SetVec3("uLightDir", r.sun.Direction().Array())
	prog.SetVec3("uLightColor", r.sun.Color)
	prog.SetFloat("uAmbient", r.sun.Ambient)
	r.setMaterial(prog, mat)

	sm := m.submeshes[submesh]
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, sm.IndexCount, gl.UNSIGNED_INT, uintptr(sm.StartIndex)*4)
}

func (r *Renderer) setMaterial(prog *shader.Program, mat *model.Material) {
	prog.SetVec4("uBaseColor", mat.BaseColor)
	prog.SetVec3("uEmissive", mat.Emissive)
	prog.SetFloat("uHasDiffuse", flag(r.bindMap(unitDiffuse, mat.Textures.Diffuse)))
	prog.SetFloat("uHasOpacity", flag(r.bindMap(unitOpacity, mat.Textures.Opacity)))

	cut := float32(0)
	if r.pass == model.PassAlphaTest {
		cut = r.config.AlphaCut
	}
	prog.SetFloat("uAlphaCut", cut)
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

var (
	_ model.Device     = (*Renderer)(nil)
	_ model.ImageSink  = (*Renderer)(nil)
	_ model.Drawer     = (*Renderer)(nil)
	_ model.MeshHandle = (*Mesh)(nil)
)
