// Package headless implements the model device and drawer without a GPU.
// It records what would have been uploaded and drawn, which the riginfo
// command and the tests inspect.
package headless

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skin"
)

// ErrInjected is returned by builds selected with FailAt.
var ErrInjected = errors.New("injected build failure")

// Mesh is a recorded mesh upload.
type Mesh struct {
	ID      int
	Static  *model.MeshData
	Skinned *model.SkinnedMeshData

	released bool
}

// Release marks the mesh freed.
func (m *Mesh) Release() { m.released = true }

// Released reports whether Release was called.
func (m *Mesh) Released() bool { return m.released }

// Device records mesh builds and embedded images.
type Device struct {
	Meshes []*Mesh
	Images map[string]model.Image

	failAt int
	builds int
}

// NewDevice returns a device that never fails.
func NewDevice() *Device {
	return &Device{failAt: -1}
}

// FailAt makes the n-th build (0-based) fail.
func (d *Device) FailAt(n int) { d.failAt = n }

func (d *Device) next() error {
	n := d.builds
	d.builds++
	if n == d.failAt {
		return fmt.Errorf("build %d: %w", n, ErrInjected)
	}
	return nil
}

// BuildStaticMesh records a static mesh.
func (d *Device) BuildStaticMesh(data *model.MeshData) (model.MeshHandle, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	m := &Mesh{ID: len(d.Meshes), Static: data}
	d.Meshes = append(d.Meshes, m)
	return m, nil
}

// BuildSkinnedMesh records a skinned mesh.
func (d *Device) BuildSkinnedMesh(data *model.SkinnedMeshData) (model.MeshHandle, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	m := &Mesh{ID: len(d.Meshes), Skinned: data}
	d.Meshes = append(d.Meshes, m)
	return m, nil
}

// AddImage records an embedded image.
func (d *Device) AddImage(key string, img model.Image) {
	if d.Images == nil {
		d.Images = make(map[string]model.Image)
	}
	d.Images[key] = img
}

// Live returns the number of meshes not yet released.
func (d *Device) Live() int {
	n := 0
	for _, m := range d.Meshes {
		if !m.released {
			n++
		}
	}
	return n
}

// Draw is one recorded submesh draw.
type Draw struct {
	Pass     model.Pass
	Mesh     *Mesh
	Submesh  int
	World    math.Mat4
	Material string
	Palette  *skin.Palette
}

// Recorder is a model.Drawer that keeps every call.
type Recorder struct {
	Draws          []Draw
	PaletteUploads int

	pass    model.Pass
	palette *skin.Palette
}

// BeginPass selects the pass for following draws.
func (r *Recorder) BeginPass(pass model.Pass) { r.pass = pass }

// SetPalette records a palette upload.
func (r *Recorder) SetPalette(p *skin.Palette) {
	r.palette = p
	r.PaletteUploads++
}

// DrawSubmesh records a draw.
func (r *Recorder) DrawSubmesh(mesh model.MeshHandle, submesh int, world math.Mat4, mat *model.Material) {
	m, _ := mesh.(*Mesh)
	r.Draws = append(r.Draws, Draw{
		Pass:     r.pass,
		Mesh:     m,
		Submesh:  submesh,
		World:    world,
		Material: mat.Name,
		Palette:  r.palette,
	})
}

// Count returns the number of draws recorded in pass.
func (r *Recorder) Count(pass model.Pass) int {
	n := 0
	for _, d := range r.Draws {
		if d.Pass == pass {
			n++
		}
	}
	return n
}

// Reset clears recorded draws.
func (r *Recorder) Reset() {
	r.Draws = r.Draws[:0]
	r.PaletteUploads = 0
	r.palette = nil
}

var (
	_ model.Device    = (*Device)(nil)
	_ model.ImageSink = (*Device)(nil)
	_ model.Drawer    = (*Recorder)(nil)
)
