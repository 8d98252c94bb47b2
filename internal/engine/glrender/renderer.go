// Package glrender is the OpenGL implementation of model.Device and
// model.Drawer.
package glrender

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/lighting"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/engine/shader"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

var (
	//go:embed shaders/static.vert
	staticVert string
	//go:embed shaders/skinned.vert
	skinnedVert string
	//go:embed shaders/material.frag
	materialFrag string
)

// paletteBinding is the uniform buffer binding point of the bone palette.
const paletteBinding = 0

// paletteBytes is the size of the std140 mat4[256] block.
const paletteBytes = skin.MaxBones * int(unsafe.Sizeof(math.Mat4{}))

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	AlphaCut   float32
	ClearColor [4]float32
	Wireframe  bool
	Sun        lighting.Sun
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	static  *shader.Program
	skinned *shader.Program
	palette uint32 // UBO

	viewProj math.Mat4
	sun      lighting.Sun
	pass     model.Pass
	live     int

	textures map[string]uint32
	embedded map[string]model.Image
	lines    *lineBatch
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("glrender"),
		viewProj: math.Identity(),
		sun:      cfg.Sun.Clamped(),
		textures: make(map[string]uint32),
		embedded: make(map[string]model.Image),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.CullFace(gl.BACK)

	var err error
	if r.static, err = shader.New("static", staticVert, materialFrag); err != nil {
		return nil, err
	}
	if r.skinned, err = shader.New("skinned", skinnedVert, materialFrag); err != nil {
		r.static.Delete()
		return nil, err
	}
	if err := r.skinned.BindBlock("Palette", paletteBinding); err != nil {
		r.Close()
		return nil, err
	}

	for _, p := range []*shader.Program{r.static, r.skinned} {
		p.Use()
		p.SetInt("uDiffuseMap", unitDiffuse)
		p.SetInt("uOpacityMap", unitOpacity)
	}
	gl.UseProgram(0)

	if r.lines, err = newLineBatch(); err != nil {
		r.Close()
		return nil, err
	}

	gl.GenBuffers(1, &r.palette)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.palette)
	gl.BufferData(gl.UNIFORM_BUFFER, paletteBytes, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, paletteBinding, r.palette)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources. Meshes are released by their models.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("live_meshes", r.live), zap.Int("textures", len(r.textures)))
	r.deleteTextures()
	if r.lines != nil {
		r.lines.delete()
		r.lines = nil
	}
	if r.palette != 0 {
		gl.DeleteBuffers(1, &r.palette)
		r.palette = 0
	}
	if r.static != nil {
		r.static.Delete()
	}
	if r.skinned != nil {
		r.skinned.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetWireframe toggles line rasterization.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Wireframe reports whether line rasterization is on.
func (r *Renderer) Wireframe() bool { return r.config.Wireframe }

// SetSun replaces the directional light, clamping color and ambient.
func (r *Renderer) SetSun(s lighting.Sun) { r.sun = s.Clamped() }

// Sun returns the directional light in use.
func (r *Renderer) Sun() lighting.Sun { return r.sun }

// Begin starts a new frame with the given view and projection.
func (r *Renderer) Begin(view, projection math.Mat4) {
	r.viewProj = projection.Mul(view)
	mode := uint32(gl.FILL)
	if r.config.Wireframe {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.DepthMask(true)
	gl.ColorMask(true, true, true, true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End restores default state after the last pass. A UI drawn afterwards
// into the same context sees fill mode and no depth test.
func (r *Renderer) End() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	gl.BindVertexArray(0)
}
