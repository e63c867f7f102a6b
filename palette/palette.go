/*
Package palette builds the colour palettes used by PHC images.

A paletted image stores each pixel as an index into a table of RGB565
colours. The index width is the smallest number of bits that can address
every entry, and paletting is only used when it makes the image smaller.
*/
package palette

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/phc/rgb565"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MaxColors is the largest palette that will be used
	MaxColors = 256

	// Unpaletted is the bit depth used when pixels hold RGB565 colours
	Unpaletted = 16
)

// Palette maps pixel codes to RGB565 colours
type Palette []uint16

// Index maps RGB565 colours back to their pixel code
type Index map[uint16]uint16

// Index returns the reverse mapping of p
func (p Palette) Index() Index {
	idx := make(Index, len(p))
	for i, c := range p {
		if _, ok := idx[c]; !ok {
			idx[c] = uint16(i)
		}
	}
	return idx
}

// Build returns the distinct colours in the order they are first seen along
// with the code for each pixel
func Build(colors []uint16) (Palette, []uint16) {
	var p Palette
	idx := make(Index)
	codes := make([]uint16, len(colors))
	for i, c := range colors {
		code, ok := idx[c]
		if !ok {
			code = uint16(len(p))
			idx[c] = code
			p = append(p, c)
		}
		codes[i] = code
	}
	return p, codes
}

// Count returns the number of distinct colours
func Count(colors []uint16) int {
	seen := make(map[uint16]struct{})
	for _, c := range colors {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// BitDepth returns the number of bits needed to address n palette entries,
// never less than one
func BitDepth(n int) int {
	w := 1
	for 1<<uint(w) < n {
		w++
	}
	return w
}

// Choose decides how colors are stored. If a palette of at most MaxColors
// entries saves at least one whole byte over storing every colour at 16 bits
// then the palette, the codes and the index width are returned. Otherwise the
// palette is nil, the codes are the colours themselves and the depth is 16.
func Choose(colors []uint16) ([]uint16, Palette, int) {
	p, codes := Build(colors)
	n, w := len(p), BitDepth(len(p))

	// Sizes in bits: 16 per colour unpaletted, against 16 per entry plus
	// w per pixel paletted
	pixels := len(colors)
	saved := 16*pixels - 16*n - w*pixels

	if n > MaxColors || saved < 8 {
		return colors, nil, Unpaletted
	}
	return codes, p, w
}

// Quantize reduces m to at most n colours using median cut
func Quantize(m image.Image, n int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	b := m.Bounds()
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Reduce returns the colours of m, quantized first if it has more than n
// distinct colours. A limit of zero or less disables quantizing. m must have
// its Pix in raster order with no gaps, as returned by rgb565.Flatten.
func Reduce(m *rgb565.Image, n int) []uint16 {
	if n <= 0 || Count(m.Pix) <= n {
		return m.Pix
	}

	pm := Quantize(m, n)
	colors := make([]rgb565.Color, len(pm.Palette))
	for i, c := range pm.Palette {
		colors[i] = rgb565.Model.Convert(c).(rgb565.Color)
	}

	b := pm.Bounds()
	out := make([]uint16, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, uint16(colors[pm.ColorIndexAt(x, y)]))
		}
	}
	return out
}
