package image

import (
	"image"
	"image/color"
	"io"

	"github.com/bodgit/phc/codec"
	"github.com/bodgit/phc/format"
	"github.com/bodgit/phc/palette"
	"github.com/bodgit/phc/rgb565"
)

// Options are the encoding parameters
type Options struct {
	// Background is blended behind transparent pixels, white if nil
	Background color.Color

	// DisableCompression always writes packed pixel codes
	DisableCompression bool

	// MaxColors quantizes images with more distinct colours down to
	// this many. Zero leaves the colours alone.
	MaxColors int
}

func (o *Options) background() color.Color {
	if o == nil || o.Background == nil {
		return rgb565.White
	}
	return o.Background
}

// Conversion holds the intermediate results of encoding an image
type Conversion struct {
	// Colors is every pixel as RGB565 in raster order
	Colors []uint16

	// Codes is every pixel as stored, palette indices unless BitDepth
	// is 16
	Codes    []uint16
	Palette  palette.Palette
	BitDepth int

	// Analysis is the parameter search, nil if compression was disabled
	Analysis *codec.Analysis

	File *format.File
}

// Convert runs the encoding steps for m and returns every intermediate result
func Convert(m image.Image, o *Options) (*Conversion, error) {
	b := m.Bounds()
	if b.Dx() > maxDimension || b.Dy() > maxDimension {
		return nil, ErrImageTooLarge
	}

	maxColors := 0
	if o != nil {
		maxColors = o.MaxColors
	}

	c := new(Conversion)
	c.Colors = palette.Reduce(rgb565.Flatten(m, o.background()), maxColors)
	c.Codes, c.Palette, c.BitDepth = palette.Choose(c.Colors)

	var (
		payload []byte
		e       codec.Encoding
		err     error
	)

	if o != nil && o.DisableCompression {
		if payload, err = codec.Pack(c.Codes, c.BitDepth); err != nil {
			return nil, err
		}
	} else {
		if c.Analysis, err = codec.Analyze(c.Codes, c.BitDepth); err != nil {
			return nil, err
		}
		if payload, e, err = codec.Encode(c.Codes, c.BitDepth, c.Analysis.Parameters); err != nil {
			return nil, err
		}
	}

	c.File = &format.File{
		Header: format.Header{
			Width:      uint16(b.Dx()),
			Height:     uint16(b.Dy()),
			BitDepth:   uint8(c.BitDepth),
			Compressed: e.Compressed,
			Parameters: e.Parameters,
		},
		Palette: []uint16(c.Palette),
		Payload: payload,
	}

	return c, nil
}

// NewFile returns the PHC file for m without serializing it
func NewFile(m image.Image, o *Options) (*format.File, error) {
	c, err := Convert(m, o)
	if err != nil {
		return nil, err
	}
	return c.File, nil
}

// Encode writes the Image m to w in PHC format. A nil Options uses the
// defaults.
func Encode(w io.Writer, m image.Image, o *Options) error {
	f, err := NewFile(m, o)
	if err != nil {
		return err
	}

	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
