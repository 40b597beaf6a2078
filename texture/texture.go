// Package texture holds decoded image assets in the pixel layout the
// renderer uploads. png, jpeg and bmp sources are supported.
package texture

import (
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Texture is a decoded image, arranged as RGBA pixels.
type Texture struct {
	Pix    []uint8
	Width  int
	Height int
	Stride int
}

// FromImage transforms a decoded image into the right arrangement of
// pixels by drawing it onto a controlled RGBA canvas. A non-zero
// rowPitch is applied when the image supports it, as only optimal
// texture layouts are used.
func FromImage(img image.Image, rowPitch int) *Texture {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	if rowPitch > 4*bounds.Dx() {
		canvas = &image.RGBA{
			Pix:    make([]uint8, rowPitch*bounds.Dy()),
			Stride: rowPitch,
			Rect:   bounds,
		}
	}
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	return &Texture{
		Pix:    canvas.Pix,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Stride: canvas.Stride,
	}
}
