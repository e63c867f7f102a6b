package image

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/phc/codec"
	"github.com/bodgit/phc/format"
	"github.com/bodgit/phc/rgb565"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	header  format.Header
	palette []uint16
	payload []byte
}

func (d *decoder) readHeader() error {
	b := make([]byte, format.HeaderSize)
	if err := readFull(d.r, b); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}
	if err := d.header.UnmarshalBinary(b); err != nil {
		return err
	}

	// Read the palette and re-use the format parsing for it
	b = append(b, make([]byte, int(d.header.PaletteOffset)-format.HeaderSize)...)
	if err := readFull(d.r, b[format.HeaderSize:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	var err error
	d.palette, err = format.ReadPalette(b, d.header)
	return err
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	var err error
	if d.payload, err = io.ReadAll(r); err != nil {
		return err
	}

	if n := d.header.Pixels(); n > codec.MaxPixels(len(d.payload), int(d.header.BitDepth), d.header.Encoding()) {
		return fmt.Errorf("%w: %d bytes for %d pixels", codec.ErrStreamTruncated, len(d.payload), n)
	}

	return nil
}

func (d *decoder) config() codec.Config {
	return codec.Config{
		Pixels:   d.header.Pixels(),
		BitDepth: int(d.header.BitDepth),
		Encoding: d.header.Encoding(),
		Palette:  d.palette,
	}
}

func (d *decoder) colorModel() color.Model {
	if !d.header.Paletted() {
		return rgb565.Model
	}
	p := make(color.Palette, len(d.palette))
	for i, c := range d.palette {
		p[i] = rgb565.Color(c)
	}
	return p
}

// raster fills an image with pixels as they are decoded
type raster struct {
	m *rgb565.Image
	i int
}

func (s *raster) PushColors(colors []uint16) error {
	s.i += copy(s.m.Pix[s.i:], colors)
	return nil
}

// Decode reads a PHC image from r and returns it as an image.Image. The
// concrete type is *rgb565.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}

	m := rgb565.NewImage(image.Rect(0, 0, int(d.header.Width), int(d.header.Height)))
	if err := codec.Decode(d.payload, d.config(), &raster{m: m}); err != nil {
		return nil, err
	}

	return m, nil
}

// DecodeConfig returns the color model and dimensions of a PHC image without
// decoding the entire image. Paletted images report their palette as the
// color model.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.colorModel(),
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}

// DecodeTo reads a PHC image from r and pushes its colours to sink in raster
// order, batch pixels at a time or codec.DefaultBatchSize if batch is zero.
// The sink wraps rows using the returned header's width.
func DecodeTo(r io.Reader, sink codec.FrameSink, batch int) (format.Header, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return format.Header{}, err
	}

	cfg := d.config()
	cfg.BatchSize = batch

	return d.header, codec.Decode(d.payload, cfg, sink)
}
