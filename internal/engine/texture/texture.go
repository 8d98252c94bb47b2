// Package texture decodes material images into RGBA pixels.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnsupported is returned for image formats without a decoder.
var ErrUnsupported = errors.New("texture: unsupported format")

// Load reads and decodes an image file by extension.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes data using the format implied by ext (".png", ".tga", ...).
func Decode(data []byte, ext string) (*image.RGBA, error) {
	switch strings.ToLower(ext) {
	case ".tga":
		return DecodeTGA(data)
	case ".bmp":
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return ToRGBA(img), nil
	case ".png", ".jpg", ".jpeg":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return ToRGBA(img), nil
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupported)
	}
}

// ToRGBA converts img to a zero-origin *image.RGBA, reusing it when possible.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Translucent reports whether any pixel has alpha below 255.
func Translucent(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			return true
		}
	}
	return false
}
