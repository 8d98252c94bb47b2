// Package importer picks a model importer by file extension.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/importer/gltfimport"
	"github.com/Faultbox/midgard-rig/internal/importer/rigyaml"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// ErrUnknownFormat is returned for unsupported file extensions.
var ErrUnknownFormat = errors.New("importer: unknown model format")

// Options configures Load.
type Options struct {
	TicksPerSecond float64
	TextureDir     string // prefix for relative texture paths
	Logger         *zap.Logger
}

// Load reads path with the importer matching its extension. An empty path
// loads the built-in rig.
func Load(path string, opts Options) (*model.Source, error) {
	log := logger.Or(opts.Logger)

	var (
		src *model.Source
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		src, err = rigyaml.Parse(rigyaml.BoxMan())
	case ext == ".gltf" || ext == ".glb":
		src, err = gltfimport.Open(path, gltfimport.Options{TicksPerSecond: opts.TicksPerSecond, Logger: log})
	case ext == ".yaml" || ext == ".yml":
		src, err = rigyaml.Load(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}

	if opts.TextureDir != "" {
		for i := range src.Materials {
			resolveTextures(&src.Materials[i].Textures, opts.TextureDir, src.Images)
		}
	}
	log.Info("model imported",
		zap.String("name", src.Name),
		zap.Int("nodes", len(src.Nodes)),
		zap.Int("meshes", len(src.Meshes)),
		zap.Int("clips", len(src.Clips)),
		zap.Int("embedded_images", len(src.Images)),
		zap.Bool("skinned", src.Skinned()),
	)
	return src, nil
}

// resolveTextures prefixes relative texture files with dir. Embedded image
// keys are left alone.
func resolveTextures(t *model.Textures, dir string, embedded map[string]model.Image) {
	for _, p := range []*string{&t.Diffuse, &t.Normal, &t.Specular, &t.Emissive, &t.Opacity} {
		if _, ok := embedded[*p]; ok {
			continue
		}
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
