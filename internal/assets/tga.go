package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types the decoder handles.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// decodeTGA decodes uncompressed or RLE true-color TGA data at 24 or 32 bpp.
// TGA has no magic number, so image.Decode cannot sniff it.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.New("tga: header too short")
	}
	kind := data[2]
	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported depth %d", bpp)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	start := tgaHeaderSize + int(data[0])
	if start > len(data) {
		return nil, errTGATruncated
	}

	w := tgaWriter{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		width:   width,
		height:  height,
		flip:    data[17]&0x20 == 0,
		pixel:   bpp / 8,
		pending: width * height,
	}
	src := data[start:]
	if kind == tgaTrueColor {
		if len(src) < w.pending*w.pixel {
			return nil, errTGATruncated
		}
		for w.pending > 0 {
			w.put(w.read(src))
			src = src[w.pixel:]
		}
		return w.img, nil
	}

	for w.pending > 0 {
		if len(src) < 1 {
			return nil, errTGATruncated
		}
		header := src[0]
		src = src[1:]
		n := int(header&0x7F) + 1
		if header&0x80 != 0 {
			if len(src) < w.pixel {
				return nil, errTGATruncated
			}
			c := w.read(src)
			src = src[w.pixel:]
			for ; n > 0 && w.pending > 0; n-- {
				w.put(c)
			}
			continue
		}
		for ; n > 0 && w.pending > 0; n-- {
			if len(src) < w.pixel {
				return nil, errTGATruncated
			}
			w.put(w.read(src))
			src = src[w.pixel:]
		}
	}
	return w.img, nil
}

// tgaWriter places pixels in file order. Files are bottom-up unless the
// descriptor's top-left bit is set.
type tgaWriter struct {
	img           *image.RGBA
	width, height int
	flip          bool
	pixel         int
	next          int
	pending       int
}

func (w *tgaWriter) read(b []byte) color.RGBA {
	c := color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
	if w.pixel == 4 {
		c.A = b[3]
	}
	return c
}

func (w *tgaWriter) put(c color.RGBA) {
	x, y := w.next%w.width, w.next/w.width
	if w.flip {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.next++
	w.pending--
}
