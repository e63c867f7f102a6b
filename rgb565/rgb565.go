/*
Package rgb565 implements the 16-bit RGB565 colour model used by small TFT
displays. A colour is packed as RRRRRGGG GGGBBBBB.
*/
package rgb565

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

// ErrBadHex is returned by ParseHex for anything other than #rrggbb or rrggbb
var ErrBadHex = errors.New("rgb565: bad hex colour")

// White is the default background used when blending
var White = color.NRGBA{0xff, 0xff, 0xff, 0xff}

// Color is an opaque RGB565 colour
type Color uint16

// RGBA implements the color.Color interface. Each channel is widened by
// replicating its high bits so that 0x1f and 0x3f map to full intensity.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f

	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2

	return r * 0x101, g * 0x101, b * 0x101, 0xffff
}

// FromRGB packs 8-bit channels by truncating the low bits
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// Model converts any colour to RGB565. Alpha is ignored, so a translucent
// colour converts as if composited over black; use Blend for anything else.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	return convert(c)
}

func convert(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Blend composites c over background and converts the result. Opaque colours
// are unaffected by the background and fully transparent ones take its
// colour.
func Blend(c, background color.Color) Color {
	r, g, b, a := c.RGBA()
	switch a {
	case 0xffff:
		return convert(c)
	case 0:
		return convert(background)
	}

	br, bg, bb, _ := background.RGBA()
	t := 0xffff - a

	// c is alpha-premultiplied so only the background needs scaling
	r += br * t / 0xffff
	g += bg * t / 0xffff
	b += bb * t / 0xffff

	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseHex parses a colour written as #rrggbb, with or without the hash
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, ErrBadHex
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, ErrBadHex
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
