package format_test

import (
	"testing"

	"github.com/bodgit/phc/codec"
	"github.com/bodgit/phc/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBinary(t *testing.T) {
	palette := make([]uint16, 10)
	for i := range palette {
		palette[i] = uint16(0x1000 + i)
	}

	f := &format.File{
		Header: format.Header{
			Width:      12,
			Height:     8,
			BitDepth:   4,
			Compressed: true,
			Parameters: codec.Parameters{BitsRepeats: 3, BitsOffset: 2},
		},
		Palette: palette,
		Payload: []byte{0xde, 0xad},
	}

	b, err := f.MarshalBinary()
	require.NoError(t, err)

	want := []byte{
		'P', 'H', 'C', '1', '.', '0', 0, 0, 0, 0,
		0x00, 0x0c, // width
		0x00, 0x08, // height
		0x04,       // bit depth
		0x00, 0x00, // reserved
		0x27,       // 1 | 3<<1 | 2<<4
		0x00, 0x28, // palette offset 40
		0x10, 0x00, 0x10, 0x01, 0x10, 0x02, 0x10, 0x03, 0x10, 0x04,
		0x10, 0x05, 0x10, 0x06, 0x10, 0x07, 0x10, 0x08, 0x10, 0x09,
		0xde, 0xad,
	}
	assert.Equal(t, want, b)
	assert.Equal(t, uint16(40), f.PaletteOffset)

	g := new(format.File)
	require.NoError(t, g.UnmarshalBinary(b))
	assert.Equal(t, f, g)
	assert.Equal(t, 96, g.Pixels())
	assert.Equal(t, 10, g.Entries())
	assert.Equal(t, codec.Encoding{Compressed: true, Parameters: codec.Parameters{BitsRepeats: 3, BitsOffset: 2}}, g.Encoding())
}

func TestMarshalBinaryUnpaletted(t *testing.T) {
	f := &format.File{
		Header: format.Header{
			Width:    1,
			Height:   1,
			BitDepth: 16,
		},
		Palette: []uint16{0xffff},
		Payload: []byte{0xf8, 0x00},
	}

	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, format.HeaderSize+2)
	assert.Equal(t, []byte{0x00, 0x00, 0x14}, b[17:20])

	g := new(format.File)
	require.NoError(t, g.UnmarshalBinary(b))
	assert.Nil(t, g.Palette)
	assert.False(t, g.Paletted())
	assert.Equal(t, []byte{0xf8, 0x00}, g.Payload)
}

func TestMarshalBinaryErrors(t *testing.T) {
	_, err := (&format.File{Header: format.Header{BitDepth: 17}}).MarshalBinary()
	assert.ErrorIs(t, err, format.ErrBadBitDepth)

	_, err = (&format.File{Header: format.Header{BitDepth: 1}, Palette: []uint16{1, 2, 3}}).MarshalBinary()
	assert.ErrorIs(t, err, format.ErrPaletteTooLarge)
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	valid := func() []byte {
		b, err := (&format.File{
			Header:  format.Header{Width: 2, Height: 1, BitDepth: 1},
			Palette: []uint16{0x0000, 0xffff},
			Payload: []byte{0x40, 0x00},
		}).MarshalBinary()
		require.NoError(t, err)
		return b
	}

	for _, tc := range []struct {
		name   string
		mangle func([]byte) []byte
		err    error
	}{
		{"Empty", func([]byte) []byte { return nil }, format.ErrBadMagic},
		{"Magic", func(b []byte) []byte { b[0] = 'X'; return b }, format.ErrBadMagic},
		{"MagicPadding", func(b []byte) []byte { b[9] = 1; return b }, format.ErrBadMagic},
		{"ShortHeader", func(b []byte) []byte { return b[:12] }, format.ErrTooShort},
		{"ShortPalette", func(b []byte) []byte { return b[:22] }, format.ErrTooShort},
		{"BitDepthZero", func(b []byte) []byte { b[14] = 0; return b }, format.ErrBadBitDepth},
		{"BitDepthLarge", func(b []byte) []byte { b[14] = 17; return b }, format.ErrBadBitDepth},
		{"Flags", func(b []byte) []byte { b[17] = 0x80; return b }, format.ErrBadFlags},
		{"OddOffset", func(b []byte) []byte { b[19] = 23; return b }, format.ErrBadPaletteOffset},
		{"OffsetInsideHeader", func(b []byte) []byte { b[19] = 18; return b }, format.ErrBadPaletteOffset},
		{"PaletteAtDepth16", func(b []byte) []byte { b[14] = 16; return b }, format.ErrBadPaletteOffset},
		{"PaletteTooLarge", func(b []byte) []byte { b[19] = 26; return append(b, 0, 0) }, format.ErrPaletteTooLarge},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := new(format.File).UnmarshalBinary(tc.mangle(valid()))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUnmarshalBinaryPayloadIsCopied(t *testing.T) {
	b, err := (&format.File{
		Header:  format.Header{Width: 1, Height: 1, BitDepth: 16},
		Payload: []byte{0x12, 0x34},
	}).MarshalBinary()
	require.NoError(t, err)

	f := new(format.File)
	require.NoError(t, f.UnmarshalBinary(b))
	b[format.HeaderSize] = 0
	assert.Equal(t, []byte{0x12, 0x34}, f.Payload)
}
