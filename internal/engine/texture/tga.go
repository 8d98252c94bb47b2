package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes uncompressed or RLE true-color TGA data with 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}
	idLength := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	kind := data[2]
	if kind != TGATypeUncompressed && kind != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	d := &tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[18+idLength:],
		bytesPer:    bpp / 8,
		width:       width,
		height:      height,
		topToBottom: data[17]&0x20 != 0,
	}
	if kind == TGATypeUncompressed {
		if len(d.src) < width*height*d.bytesPer {
			return nil, errTGATruncated
		}
		for n := 0; n < width*height; n++ {
			d.put(n, d.read())
		}
	} else {
		d.decodeRLE()
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bytesPer    int
	width       int
	height      int
	topToBottom bool
}

// read returns the next BGR(A) pixel as RGBA.
func (d *tgaDecoder) read() [4]uint8 {
	p := d.src[d.pos : d.pos+d.bytesPer]
	d.pos += d.bytesPer
	a := uint8(255)
	if d.bytesPer == 4 {
		a = p[3]
	}
	return [4]uint8{p[2], p[1], p[0], a}
}

func (d *tgaDecoder) put(n int, px [4]uint8) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], px[:])
}

// decodeRLE stops quietly at the end of the data, leaving remaining pixels
// transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.width * d.height
	for n := 0; n < total && d.pos < len(d.src); {
		header := d.src[d.pos]
		d.pos++
		count := int(header&0x7f) + 1

		if header&0x80 != 0 {
			if d.pos+d.bytesPer > len(d.src) {
				return
			}
			px := d.read()
			for i := 0; i < count && n < total; i++ {
				d.put(n, px)
				n++
			}
			continue
		}
		for i := 0; i < count && n < total; i++ {
			if d.pos+d.bytesPer > len(d.src) {
				return
			}
			d.put(n, d.read())
			n++
		}
	}
}
