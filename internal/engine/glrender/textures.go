package glrender

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/engine/texture"
)

// Texture units used by the material shader.
const (
	unitDiffuse = 0
	unitOpacity = 1
)

// AddImage registers embedded texture data under key. A texture already
// uploaded for key is dropped so the next draw decodes the new data.
func (r *Renderer) AddImage(key string, img model.Image) {
	r.embedded[key] = img
	if id, ok := r.textures[key]; ok {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
		delete(r.textures, key)
	}
}

// decode reads path from the embedded images or from disk.
func (r *Renderer) decode(path string) (*image.RGBA, error) {
	if img, ok := r.embedded[path]; ok {
		return texture.Decode(img.Data, img.Ext)
	}
	return texture.Load(path)
}

// texture returns the GL texture for path, loading it on first use. A path
// that failed to load maps to 0 and is not retried.
func (r *Renderer) texture(path string) uint32 {
	if path == "" {
		return 0
	}
	if id, ok := r.textures[path]; ok {
		return id
	}

	img, err := r.decode(path)
	if err != nil {
		r.log.Warn("texture unavailable", zap.String("path", path), zap.Error(err))
		r.textures[path] = 0
		return 0
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures[path] = id
	r.log.Debug("texture loaded", zap.String("path", path),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()),
		zap.Bool("translucent", texture.Translucent(img)))
	return id
}

// bindMap binds path to unit and reports whether a texture was bound.
func (r *Renderer) bindMap(unit uint32, path string) bool {
	id := r.texture(path)
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
	return id != 0
}

func (r *Renderer) deleteTextures() {
	for path, id := range r.textures {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
		delete(r.textures, path)
	}
}
