package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// MeshHandle is a device-side mesh.
type MeshHandle interface {
	Release()
}

// Device creates mesh resources.
type Device interface {
	BuildStaticMesh(data *MeshData) (MeshHandle, error)
	BuildSkinnedMesh(data *SkinnedMeshData) (MeshHandle, error)
}

// ImageSink is implemented by devices that take embedded texture data.
// Materials then refer to an image by its key.
type ImageSink interface {
	AddImage(key string, img Image)
}

// addImages hands embedded textures to dev when it accepts them.
func addImages(dev Device, src *Source) {
	sink, ok := dev.(ImageSink)
	if !ok {
		return
	}
	for key, img := range src.Images {
		sink.AddImage(key, img)
	}
}

// Drawer consumes model output. Callers select the pass with BeginPass and
// then let each model draw its matching submeshes.
type Drawer interface {
	BeginPass(pass Pass)
	SetPalette(p *skin.Palette)
	DrawSubmesh(mesh MeshHandle, submesh int, world math.Mat4, mat *Material)
}

// LoadContext carries the collaborators a load needs.
type LoadContext struct {
	Device Device
	Logger *zap.Logger
}

func (c LoadContext) log() *zap.Logger {
	return logger.Or(c.Logger)
}

// releaseAll frees handles built before a failed load.
func releaseAll(handles []MeshHandle) {
	for _, h := range handles {
		if h != nil {
			h.Release()
		}
	}
}
