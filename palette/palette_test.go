package palette_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/phc/palette"
	"github.com/bodgit/phc/rgb565"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	p, codes := palette.Build([]uint16{0xf800, 0x001f, 0xf800, 0x07e0, 0x001f})
	assert.Equal(t, palette.Palette{0xf800, 0x001f, 0x07e0}, p)
	assert.Equal(t, []uint16{0, 1, 0, 2, 1}, codes)
	assert.Equal(t, palette.Index{0xf800: 0, 0x001f: 1, 0x07e0: 2}, p.Index())

	p, codes = palette.Build(nil)
	assert.Empty(t, p)
	assert.Empty(t, codes)
}

func TestBitDepth(t *testing.T) {
	for n, w := range map[int]int{
		0:   1,
		1:   1,
		2:   1,
		3:   2,
		4:   2,
		5:   3,
		16:  4,
		17:  5,
		128: 7,
		129: 8,
		256: 8,
	} {
		assert.Equal(t, w, palette.BitDepth(n), "%d colours", n)
	}
}

func repeat(pattern []uint16, n int) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		s[i] = pattern[i%len(pattern)]
	}
	return s
}

func TestChoose(t *testing.T) {
	t.Run("SingleColour", func(t *testing.T) {
		colors := repeat([]uint16{0x1234}, 100)
		codes, p, depth := palette.Choose(colors)
		assert.Equal(t, 1, depth)
		assert.Equal(t, palette.Palette{0x1234}, p)
		assert.Equal(t, make([]uint16, 100), codes)
	})

	t.Run("SinglePixel", func(t *testing.T) {
		codes, p, depth := palette.Choose([]uint16{0x1234})
		assert.Equal(t, palette.Unpaletted, depth)
		assert.Nil(t, p)
		assert.Equal(t, []uint16{0x1234}, codes)
	})

	t.Run("FractionalByteSaving", func(t *testing.T) {
		// 10 bytes unpaletted against 8 bytes of palette and 10 bits
		// of codes
		_, p, depth := palette.Choose([]uint16{1, 2, 3, 4, 1})
		assert.Equal(t, palette.Unpaletted, depth)
		assert.Nil(t, p)

		_, p, depth = palette.Choose([]uint16{1, 2, 3, 4, 1, 2})
		assert.Equal(t, 2, depth)
		assert.Len(t, p, 4)
	})

	t.Run("TooManyColours", func(t *testing.T) {
		colors := make([]uint16, 257*10)
		for i := range colors {
			colors[i] = uint16(i % 257)
		}
		_, p, depth := palette.Choose(colors)
		assert.Equal(t, palette.Unpaletted, depth)
		assert.Nil(t, p)

		for i := range colors {
			colors[i] = uint16(i % 256)
		}
		_, p, depth = palette.Choose(colors)
		assert.Equal(t, 8, depth)
		assert.Len(t, p, 256)
	})

	t.Run("Empty", func(t *testing.T) {
		codes, p, depth := palette.Choose(nil)
		assert.Equal(t, palette.Unpaletted, depth)
		assert.Nil(t, p)
		assert.Empty(t, codes)
	})
}

func gradient() *rgb565.Image {
	m := rgb565.NewImage(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m.SetColor565(x, y, rgb565.FromRGB(uint8(x*8), uint8(y*8), 0x80))
		}
	}
	return m
}

func TestQuantize(t *testing.T) {
	m := gradient()
	pm := palette.Quantize(m, 8)
	assert.Equal(t, m.Bounds(), pm.Bounds())
	assert.LessOrEqual(t, len(pm.Palette), 8)
	assert.NotEmpty(t, pm.Palette)
}

func TestReduce(t *testing.T) {
	m := gradient()
	require.Equal(t, 1024, palette.Count(m.Pix))

	colors := palette.Reduce(m, 16)
	assert.Len(t, colors, 1024)
	assert.LessOrEqual(t, palette.Count(colors), 16)

	assert.Equal(t, m.Pix, palette.Reduce(m, 0))
	assert.Equal(t, m.Pix, palette.Reduce(m, 1024))

	single := image.NewGray(image.Rect(0, 0, 3, 2))
	assert.Equal(t, make([]uint16, 6), palette.Reduce(rgb565.Flatten(single, color.White), 1))
}
