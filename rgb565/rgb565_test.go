package rgb565_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/phc/rgb565"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	for _, tc := range []struct {
		c          rgb565.Color
		r, g, b, a uint32
	}{
		{0x0000, 0, 0, 0, 0xffff},
		{0xffff, 0xffff, 0xffff, 0xffff, 0xffff},
		{0xf800, 0xffff, 0, 0, 0xffff},
		{0x07e0, 0, 0xffff, 0, 0xffff},
		{0x001f, 0, 0, 0xffff, 0xffff},
		{0x8410, 0x8484, 0x8282, 0x8484, 0xffff},
	} {
		r, g, b, a := tc.c.RGBA()
		assert.Equal(t, []uint32{tc.r, tc.g, tc.b, tc.a}, []uint32{r, g, b, a}, "%#04x", uint16(tc.c))
	}
}

func TestModel(t *testing.T) {
	assert.Equal(t, rgb565.Color(0xf800), rgb565.Model.Convert(color.RGBA{0xff, 0x00, 0x00, 0xff}))
	assert.Equal(t, rgb565.Color(0x07e0), rgb565.Model.Convert(color.RGBA{0x00, 0xff, 0x00, 0xff}))
	assert.Equal(t, rgb565.Color(0x8410), rgb565.Model.Convert(color.Gray{0x80}))
	assert.Equal(t, rgb565.Color(0x1234), rgb565.Model.Convert(rgb565.Color(0x1234)))

	// Conversion round trips for every colour
	for i := 0; i <= 0xffff; i++ {
		c := rgb565.Color(i)
		require.Equal(t, c, rgb565.Model.Convert(color.RGBA64Model.Convert(c)))
	}
}

func TestFromRGB(t *testing.T) {
	assert.Equal(t, rgb565.Color(0xffff), rgb565.FromRGB(0xff, 0xff, 0xff))
	assert.Equal(t, rgb565.Color(0x0000), rgb565.FromRGB(0x07, 0x03, 0x07))
	assert.Equal(t, rgb565.Color(0x0821), rgb565.FromRGB(0x08, 0x04, 0x08))
}

func TestBlend(t *testing.T) {
	white := rgb565.White
	black := color.NRGBA{0, 0, 0, 0xff}

	assert.Equal(t, rgb565.Color(0xf800), rgb565.Blend(color.NRGBA{0xff, 0, 0, 0xff}, black))
	assert.Equal(t, rgb565.Color(0xffff), rgb565.Blend(color.NRGBA{0xff, 0, 0, 0x00}, white))
	assert.Equal(t, rgb565.Color(0x001f), rgb565.Blend(color.Transparent, color.NRGBA{0, 0, 0xff, 0xff}))

	// Half transparent red over white is a pale red
	c := rgb565.Blend(color.NRGBA{0xff, 0, 0, 0x80}, white)
	assert.Equal(t, rgb565.Color(0xfbef), c)

	// Over black it matches plain conversion of the premultiplied colour
	c = rgb565.Blend(color.NRGBA{0xff, 0, 0, 0x80}, black)
	assert.Equal(t, rgb565.Model.Convert(color.NRGBA{0xff, 0, 0, 0x80}), c)
}

func TestParseHex(t *testing.T) {
	c, err := rgb565.ParseHex("#102030")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 0xff}, c)

	c, err = rgb565.ParseHex("ffFFff")
	require.NoError(t, err)
	assert.Equal(t, rgb565.White, c)

	for _, s := range []string{"", "#fff", "#1020304", "#zz0000", "-10203"} {
		_, err = rgb565.ParseHex(s)
		assert.ErrorIs(t, err, rgb565.ErrBadHex, s)
	}
}

func TestFlatten(t *testing.T) {
	m := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	m.SetNRGBA(5, 5, color.NRGBA{0xff, 0, 0, 0xff})
	m.SetNRGBA(6, 5, color.NRGBA{0, 0xff, 0, 0x00})

	f := rgb565.Flatten(m, color.NRGBA{0, 0, 0xff, 0xff})
	assert.Equal(t, image.Rect(0, 0, 2, 1), f.Bounds())
	assert.Equal(t, []uint16{0xf800, 0x001f}, f.Pix)
	assert.Equal(t, rgb565.Color(0x001f), f.At(1, 0))
	assert.Equal(t, rgb565.Color(0), f.Color565At(2, 0))

	f.Set(0, 0, color.White)
	f.SetColor565(1, 0, 0x07e0)
	f.Set(9, 9, color.White)
	assert.Equal(t, []uint16{0xffff, 0x07e0}, f.Pix)
	assert.True(t, f.Opaque())
}
