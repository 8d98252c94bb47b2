package glrender

import (
	_ "embed"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-rig/internal/engine/shader"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

var (
	//go:embed shaders/line.vert
	lineVert string
	//go:embed shaders/line.frag
	lineFrag string
)

// lineBatch streams overlay line lists through one dynamic buffer.
type lineBatch struct {
	prog     *shader.Program
	vao, vbo uint32
	capacity int // bytes
}

func newLineBatch() (*lineBatch, error) {
	prog, err := shader.New("line", lineVert, lineFrag)
	if err != nil {
		return nil, err
	}
	lb := &lineBatch{prog: prog}
	gl.GenVertexArrays(1, &lb.vao)
	gl.BindVertexArray(lb.vao)
	gl.GenBuffers(1, &lb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, lb.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 12, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return lb, nil
}

func (lb *lineBatch) delete() {
	gl.DeleteVertexArrays(1, &lb.vao)
	gl.DeleteBuffers(1, &lb.vbo)
	lb.prog.Delete()
}

// DrawLines draws a line list ([x, y, z] per vertex) on top of the scene.
func (r *Renderer) DrawLines(vertices []float32, color [4]float32, world math.Mat4) {
	if len(vertices) < 6 || r.lines == nil {
		return
	}
	lb := r.lines
	size := len(vertices) * 4

	gl.BindBuffer(gl.ARRAY_BUFFER, lb.vbo)
	if size > lb.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
		lb.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.ColorMask(true, true, true, true)
	lb.prog.Use()
	lb.prog.SetMat4("uModel", world)
	lb.prog.SetMat4("uViewProj", r.viewProj)
	lb.prog.SetVec4("uColor", color)
	gl.BindVertexArray(lb.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
