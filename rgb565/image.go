package rgb565

import (
	"image"
	"image/color"
)

// Image is an in-memory image whose At method returns Color values
type Image struct {
	// Pix holds the image's pixels in raster order. The pixel at (x, y)
	// is at Pix[(y-Rect.Min.Y)*Stride+(x-Rect.Min.X)].
	Pix []uint16
	// Stride is the Pix stride in pixels between vertically adjacent
	// pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewImage returns a new Image with the given bounds
func NewImage(r image.Rectangle) *Image {
	return &Image{
		Pix:    make([]uint16, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

// ColorModel returns Model
func (p *Image) ColorModel() color.Model { return Model }

// Bounds returns the image bounds
func (p *Image) Bounds() image.Rectangle { return p.Rect }

// At returns the colour of the pixel at (x, y)
func (p *Image) At(x, y int) color.Color {
	return p.Color565At(x, y)
}

// Color565At is like At but returns a Color directly
func (p *Image) Color565At(x, y int) Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	return Color(p.Pix[p.PixOffset(x, y)])
}

// PixOffset returns the index of the element of Pix that corresponds to the
// pixel at (x, y)
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Set converts c with Model and stores it at (x, y)
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(Model.Convert(c).(Color))
}

// SetColor565 stores c at (x, y)
func (p *Image) SetColor565(x, y int, c Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(c)
}

// Opaque returns true, RGB565 has no alpha channel
func (p *Image) Opaque() bool {
	return true
}

// Flatten converts m to an Image with its top-left corner at (0, 0), blending
// any transparency over background
func Flatten(m image.Image, background color.Color) *Image {
	b := m.Bounds()
	dst := NewImage(image.Rect(0, 0, b.Dx(), b.Dy()))
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Pix[i] = uint16(Blend(m.At(x, y), background))
			i++
		}
	}
	return dst
}
