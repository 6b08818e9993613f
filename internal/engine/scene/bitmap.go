package scene

import (
	"image"
	"image/color"
	gomath "math"

	"golang.org/x/image/draw"
)

// Synthesized material bitmaps are this many pixels on a side.
const BitmapSize = 500

// Opaque blue used when a primitive has no material color.
var fallbackColor = [4]float32{0, 0, 1, 1}

// SolidBitmap returns a w×h image filled with rgba, where each channel in
// [0,1] is scaled by 255.
func SolidBitmap(w, h int, rgba [4]float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{
		R: channel(rgba[0]),
		G: channel(rgba[1]),
		B: channel(rgba[2]),
		A: channel(rgba[3]),
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// channel clamps v·255 to a byte, rounding half to even.
func channel(v float32) uint8 {
	f := float64(v) * 255
	if f <= 0 || gomath.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(gomath.RoundToEven(f))
}

// toRGBA copies img into a fresh *image.RGBA with origin (0,0).
func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
