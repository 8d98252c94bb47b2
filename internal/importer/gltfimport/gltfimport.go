// Package gltfimport converts glTF 2.0 documents into model sources.
package gltfimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

var (
	// ErrNoScene means the document holds no nodes to build a hierarchy from.
	ErrNoScene = errors.New("gltf: no scene nodes")
	// ErrUnsupportedAccessor means an accessor has a layout the importer cannot read.
	ErrUnsupportedAccessor = errors.New("gltf: unsupported accessor")
)

// Options controls conversion.
type Options struct {
	// TicksPerSecond converts glTF seconds to clip ticks. Zero selects
	// anim.DefaultTicksPerSecond.
	TicksPerSecond float64
	Logger         *zap.Logger
}

// Open reads a .gltf or .glb file.
func Open(path string, opts Options) (*model.Source, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: open %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Convert(doc, name, opts)
}

// converter holds per-document state.
type converter struct {
	doc  *gltf.Document
	opts Options
	log  *zap.Logger

	src    *model.Source
	nodeOf map[uint32]int // glTF node -> hierarchy index
	names  map[string]bool
	images map[uint32]string // glTF image -> texture path
	warned map[int]bool      // textures already reported unresolvable
}

// Convert builds a model source from a decoded document.
func Convert(doc *gltf.Document, name string, opts Options) (*model.Source, error) {
	if opts.TicksPerSecond <= 0 {
		opts.TicksPerSecond = anim.DefaultTicksPerSecond
	}
	c := &converter{
		doc:    doc,
		opts:   opts,
		log:    logger.Or(opts.Logger).Named("gltf"),
		src:    &model.Source{Name: name},
		nodeOf: make(map[uint32]int),
		names:  make(map[string]bool),
		images: make(map[uint32]string),
		warned: make(map[int]bool),
	}

	if err := c.hierarchy(); err != nil {
		return nil, err
	}
	for i, m := range doc.Materials {
		c.src.Materials = append(c.src.Materials, c.material(i, m))
	}
	if err := c.meshes(); err != nil {
		return nil, err
	}
	for i, a := range doc.Animations {
		clip, err := c.animation(i, a)
		if err != nil {
			return nil, err
		}
		c.src.Clips = append(c.src.Clips, clip)
	}

	c.log.Debug("document converted",
		zap.String("name", name),
		zap.Int("nodes", len(c.src.Nodes)),
		zap.Int("meshes", len(c.src.Meshes)),
		zap.Int("materials", len(c.src.Materials)),
		zap.Int("clips", len(c.src.Clips)),
		zap.Bool("skinned", c.src.Skinned()))
	return c.src, nil
}

// sceneRoots returns the root nodes of the default scene, or every
// parentless node when the document declares no scene.
func (c *converter) sceneRoots() []uint32 {
	doc := c.doc
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		return doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		return doc.Scenes[0].Nodes
	}
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, ch := range n.Children {
			if int(ch) < len(isChild) {
				isChild[ch] = true
			}
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (c *converter) hierarchy() error {
	roots := c.sceneRoots()
	if len(roots) == 0 {
		return ErrNoScene
	}

	parent := -1
	if len(roots) > 1 {
		parent = c.addNode("root", -1, math.Identity())
	}
	for _, r := range roots {
		if err := c.walk(r, parent); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) walk(idx uint32, parent int) error {
	if int(idx) >= len(c.doc.Nodes) {
		return fmt.Errorf("gltf: node %d out of range", idx)
	}
	if _, seen := c.nodeOf[idx]; seen {
		return fmt.Errorf("gltf: node %d reached twice", idx)
	}
	n := c.doc.Nodes[idx]
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	i := c.addNode(name, parent, bindLocal(n))
	c.nodeOf[idx] = i
	for _, ch := range n.Children {
		if err := c.walk(ch, i); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) addNode(name string, parent int, bind math.Mat4) int {
	unique := name
	for k := 1; c.names[unique]; k++ {
		unique = fmt.Sprintf("%s_%d", name, k)
	}
	c.names[unique] = true
	c.src.Nodes = append(c.src.Nodes, skeleton.RawNode{Name: unique, Parent: parent, BindLocal: bind})
	return len(c.src.Nodes) - 1
}

// bindLocal uses the node matrix when one is given and TRS otherwise.
func bindLocal(n *gltf.Node) math.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var out math.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math.TRS(
		math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	)
}

func (c *converter) material(i int, m *gltf.Material) model.Material {
	out := model.Material{Name: m.Name, BaseColor: [4]float32{1, 1, 1, 1}}
	if out.Name == "" {
		out.Name = fmt.Sprintf("material%d", i)
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		f := pbr.BaseColorFactorOrDefault()
		out.BaseColor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		if pbr.BaseColorTexture != nil {
			out.Textures.Diffuse = c.texturePath(int(pbr.BaseColorTexture.Index))
		}
		if pbr.MetallicRoughnessTexture != nil {
			out.Textures.Specular = c.texturePath(int(pbr.MetallicRoughnessTexture.Index))
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		out.Textures.Normal = c.texturePath(int(*m.NormalTexture.Index))
	}
	if m.EmissiveTexture != nil {
		out.Textures.Emissive = c.texturePath(int(m.EmissiveTexture.Index))
	}
	e := m.EmissiveFactor
	out.Emissive = [3]float32{float32(e[0]), float32(e[1]), float32(e[2])}

	// glTF keeps coverage in the base color alpha channel.
	if m.AlphaMode != gltf.AlphaOpaque {
		out.Textures.Opacity = out.Textures.Diffuse
	}
	return out
}

// texturePath returns the path a material uses for texture tex. External
// images keep their URI. Images stored in a buffer view or a data URI are
// copied into the source under an "embedded:" key.
func (c *converter) texturePath(tex int) string {
	if tex < 0 || tex >= len(c.doc.Textures) {
		c.warnTexture(tex, "texture index out of range", nil)
		return ""
	}
	t := c.doc.Textures[tex]
	if t.Source == nil || int(*t.Source) >= len(c.doc.Images) {
		c.warnTexture(tex, "texture has no image source", nil)
		return ""
	}
	idx := *t.Source
	if key, ok := c.images[idx]; ok {
		return key
	}

	img := c.doc.Images[idx]
	if img.URI != "" && !img.IsEmbeddedResource() {
		c.images[idx] = img.URI
		return img.URI
	}
	data, err := c.imageData(img)
	if err != nil {
		c.warnTexture(tex, "embedded image unreadable", err)
		return ""
	}

	key := fmt.Sprintf("embedded:%s/image%d", c.src.Name, idx)
	if c.src.Images == nil {
		c.src.Images = make(map[string]model.Image)
	}
	c.src.Images[key] = model.Image{Data: data, Ext: imageExt(img)}
	c.images[idx] = key
	return key
}

// imageData returns the encoded bytes of an image held in a buffer view or
// a data URI.
func (c *converter) imageData(img *gltf.Image) ([]byte, error) {
	if img.BufferView == nil {
		data, err := img.MarshalData()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("image has no data")
		}
		return data, nil
	}

	if int(*img.BufferView) >= len(c.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
	}
	bv := c.doc.BufferViews[*img.BufferView]
	if int(bv.Buffer) >= len(c.doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	buf := c.doc.Buffers[bv.Buffer].Data
	start, end := int(bv.ByteOffset), int(bv.ByteOffset)+int(bv.ByteLength)
	if end > len(buf) || bv.ByteLength == 0 {
		return nil, fmt.Errorf("buffer view %d spans [%d,%d) of %d bytes", *img.BufferView, start, end, len(buf))
	}
	return buf[start:end], nil
}

// warnTexture reports an unresolvable texture once per document.
func (c *converter) warnTexture(tex int, msg string, err error) {
	if c.warned[tex] {
		return
	}
	c.warned[tex] = true
	fields := []zap.Field{zap.Int("texture", tex)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.log.Warn(msg, fields...)
}

// imageExt picks the decoder for an embedded image from its MIME type.
func imageExt(img *gltf.Image) string {
	switch img.MimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/bmp":
		return ".bmp"
	}
	if strings.HasPrefix(img.URI, "data:image/jpeg") {
		return ".jpg"
	}
	return ".png"
}
