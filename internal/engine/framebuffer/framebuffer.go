// Package framebuffer renders the viewport offscreen so a UI can show it as
// a texture.
package framebuffer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncomplete is returned when the driver rejects the attachments.
var ErrIncomplete = errors.New("framebuffer incomplete")

// Framebuffer is a color texture plus depth renderbuffer target.
type Framebuffer struct {
	fbo   uint32
	color uint32
	depth uint32

	width, height int
}

// New creates a target of at least 1x1 pixels.
func New(width, height int) (*Framebuffer, error) {
	fb := &Framebuffer{}
	fb.width, fb.height = ClampSize(width, height)

	gl.GenFramebuffers(1, &fb.fbo)
	gl.GenTextures(1, &fb.color)
	gl.GenRenderbuffers(1, &fb.depth)
	fb.allocate()

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depth)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return nil, fmt.Errorf("%w: status 0x%x", ErrIncomplete, status)
	}
	return fb, nil
}

// allocate sizes both attachments to the current dimensions.
func (fb *Framebuffer) allocate() {
	w, h := int32(fb.width), int32(fb.height)

	gl.BindTexture(gl.TEXTURE_2D, fb.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, w, h)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// Bind makes the framebuffer the render target and returns a function that
// restores the previous target and viewport.
func (fb *Framebuffer) Bind() (restore func()) {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, int32(fb.width), int32(fb.height))

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Texture returns the color attachment for display.
func (fb *Framebuffer) Texture() uint32 { return fb.color }

// Size returns the target dimensions in pixels.
func (fb *Framebuffer) Size() (width, height int) { return fb.width, fb.height }

// Resize reallocates the attachments when the size changes. It reports
// whether anything changed.
func (fb *Framebuffer) Resize(width, height int) bool {
	width, height = ClampSize(width, height)
	if width == fb.width && height == fb.height {
		return false
	}
	fb.width, fb.height = width, height
	fb.allocate()
	return true
}

// ReadPixels returns the color attachment as bottom-up RGBA rows.
func (fb *Framebuffer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, fb.width*fb.height*4)
	restore := fb.Bind()
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(fb.width), int32(fb.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	restore()
	return pixels, fb.width, fb.height
}

// Destroy releases the GL objects.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.color != 0 {
		gl.DeleteTextures(1, &fb.color)
		fb.color = 0
	}
	if fb.depth != 0 {
		gl.DeleteRenderbuffers(1, &fb.depth)
		fb.depth = 0
	}
}

// ClampSize keeps both dimensions at least one pixel.
func ClampSize(width, height int) (int, int) {
	return max(width, 1), max(height, 1)
}
