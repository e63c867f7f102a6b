//go:generate mockgen -destination=mock_sink_test.go -package=codec_test github.com/bodgit/phc/codec FrameSink

package codec

import (
	"fmt"

	"github.com/bodgit/phc/bitstream"
)

// DefaultBatchSize is the number of pixels buffered before they are pushed to
// a FrameSink.
const DefaultBatchSize = 128

// FrameSink consumes decoded RGB565 colours in raster order. The slice passed
// to PushColors is reused by the decoder and must not be retained.
type FrameSink interface {
	PushColors(colors []uint16) error
}

// FrameSinkFunc adapts a function to the FrameSink interface.
type FrameSinkFunc func(colors []uint16) error

// PushColors calls f(colors).
func (f FrameSinkFunc) PushColors(colors []uint16) error {
	return f(colors)
}

// Config describes the payload a Decoder reads.
type Config struct {
	// Pixels is the number of pixels in the image, width * height.
	Pixels int

	// BitDepth is the width of each pixel code.
	BitDepth int

	Encoding Encoding

	// Palette resolves pixel codes to colours. It is ignored when BitDepth
	// is 16 as the codes are the colours.
	Palette []uint16

	// BatchSize is the capacity of the output buffer, DefaultBatchSize if
	// zero.
	BatchSize int
}

// Decoder reconstructs pixels from a payload. Apart from the payload itself
// it only holds one batch of pixels and a few counters.
type Decoder struct {
	r       *bitstream.Reader
	pixels  int
	depth   int
	params  Parameters
	packed  bool
	palette []uint16
	sink    FrameSink

	buf     []uint16
	last    uint16
	emitted int
}

// NewDecoder returns a Decoder reading payload as described by cfg and
// pushing colours to sink.
func NewDecoder(payload []byte, cfg Config, sink FrameSink) (*Decoder, error) {
	if !validBitDepth(cfg.BitDepth) {
		return nil, ErrBitDepth
	}
	if !cfg.Encoding.Parameters.Valid() {
		return nil, ErrParameters
	}
	if cfg.Pixels < 0 || cfg.BatchSize < 0 {
		return nil, fmt.Errorf("codec: invalid decoder configuration")
	}

	size := cfg.BatchSize
	if size == 0 {
		size = DefaultBatchSize
	}

	d := &Decoder{
		r:      bitstream.NewReader(payload),
		pixels: cfg.Pixels,
		depth:  cfg.BitDepth,
		params: cfg.Encoding.Parameters,
		packed: !cfg.Encoding.Compressed,
		sink:   sink,
		buf:    make([]uint16, 0, size),
	}
	if cfg.BitDepth != MaxBitDepth {
		d.palette = cfg.Palette
	}
	return d, nil
}

// Decode reads every pixel and pushes them to the sink. Bits left over after
// the last pixel are ignored.
func (d *Decoder) Decode() error {
	var err error
	if d.packed {
		err = d.decodePacked()
	} else {
		err = d.decodeCompressed()
	}
	if err != nil {
		return err
	}
	return d.flush()
}

func (d *Decoder) decodePacked() error {
	for d.emitted < d.pixels {
		if err := d.readPixel(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeCompressed() error {
	// A control bit is only read while pixels remain, so the padding at
	// the end of the stream is never mistaken for another block.
	for d.emitted < d.pixels {
		control, err := d.r.ReadBit()
		if err != nil {
			return d.truncated()
		}
		if control == 1 {
			err = d.literal()
		} else {
			err = d.repeat()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) count(width uint8) (int, error) {
	field, err := d.r.ReadBits(int(width))
	if err != nil {
		return 0, d.truncated()
	}
	n := int(field) + 1
	if n > d.pixels-d.emitted {
		return 0, fmt.Errorf("%w: %d pixels at pixel %d of %d", ErrPixelOverflow, n, d.emitted, d.pixels)
	}
	return n, nil
}

func (d *Decoder) literal() error {
	n, err := d.count(d.params.BitsOffset)
	if err != nil {
		return err
	}
	for ; n > 0; n-- {
		if err := d.readPixel(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) repeat() error {
	n, err := d.count(d.params.BitsRepeats)
	if err != nil {
		return err
	}
	for ; n > 0; n-- {
		if err := d.emit(d.last); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readPixel() error {
	code, err := d.r.ReadBits(d.depth)
	if err != nil {
		return d.truncated()
	}
	c := uint16(code)
	if d.depth != MaxBitDepth {
		if int(code) >= len(d.palette) {
			return fmt.Errorf("%w: index %d, %d entries", ErrPaletteIndexOutOfRange, code, len(d.palette))
		}
		c = d.palette[code]
	}
	d.last = c
	return d.emit(c)
}

func (d *Decoder) emit(c uint16) error {
	d.buf = append(d.buf, c)
	d.emitted++
	if len(d.buf) == cap(d.buf) {
		return d.flush()
	}
	return nil
}

func (d *Decoder) flush() error {
	if len(d.buf) == 0 {
		return nil
	}
	err := d.sink.PushColors(d.buf)
	d.buf = d.buf[:0]
	return err
}

func (d *Decoder) truncated() error {
	return fmt.Errorf("%w: %d of %d pixels decoded at bit %d", ErrStreamTruncated, d.emitted, d.pixels, d.r.Offset())
}

// Decode is a convenience wrapper around NewDecoder and Decoder.Decode.
func Decode(payload []byte, cfg Config, sink FrameSink) error {
	d, err := NewDecoder(payload, cfg, sink)
	if err != nil {
		return err
	}
	return d.Decode()
}

// MaxPixels returns an upper bound on the number of pixels a payload of n
// bytes can hold. Header fields claiming more can be rejected before any
// buffers are sized from them.
func MaxPixels(n, depth int, e Encoding) int {
	bits := n * 8
	if !e.Compressed {
		return bits / depth
	}
	// The densest stream is nothing but maximum length repeat blocks
	width := int(e.Parameters.BitsRepeats)
	return bits * (1 << uint(width)) / (1 + width)
}
