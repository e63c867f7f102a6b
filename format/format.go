/*
Package format implements reading and writing the PHC v1.0 container.

A file starts with a fixed 20 byte header, all multi-byte values big-endian:

	offset  size  field
	0       10    magic "PHC1.0", zero padded
	10      2     width
	12      2     height
	14      1     bit depth, 1 to 16
	15      2     reserved, zero
	17      1     flags
	18      2     palette offset, start of the pixel payload

The flags byte holds the compressed flag in bit 0, the repeat field width in
bits 1 to 3 and the literal offset field width in bits 4 to 6. Bit 7 is
unused.

When the bit depth is less than 16 the palette follows the header, one 16-bit
RGB565 colour per entry, and the palette offset is 20 plus twice the number of
entries. At bit depth 16 there is no palette and the offset is 20. The pixel
payload runs from the palette offset to the end of the file.
*/
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/phc/codec"
)

const (
	// Magic identifies a PHC v1.0 file
	Magic = "PHC1.0"

	// HeaderSize is the length of the fixed header
	HeaderSize = 20

	magicSize = 10
)

const (
	flagCompressed   = 1 << 0
	shiftBitsRepeats = 1
	shiftBitsOffset  = 4
	fieldMask        = 0x07
	flagUnused       = 1 << 7
)

var (
	// ErrBadMagic is returned when the data does not start with the PHC magic
	ErrBadMagic = errors.New("format: bad magic")
	// ErrTooShort is returned when the data ends inside the header or palette
	ErrTooShort = errors.New("format: data too short")
	// ErrBadBitDepth is returned for a bit depth outside 1 to 16
	ErrBadBitDepth = errors.New("format: bad bit depth")
	// ErrBadFlags is returned when the unused flag bit is set
	ErrBadFlags = errors.New("format: bad flags")
	// ErrBadPaletteOffset is returned when the palette offset is inconsistent
	// with the header or the data length
	ErrBadPaletteOffset = errors.New("format: bad palette offset")
	// ErrPaletteTooLarge is returned when the palette has more entries than
	// the bit depth can address
	ErrPaletteTooLarge = errors.New("format: palette too large")
)

// Header is the fixed part of a PHC file
type Header struct {
	Width      uint16
	Height     uint16
	BitDepth   uint8
	Compressed bool
	Parameters codec.Parameters

	// PaletteOffset is filled in by File.MarshalBinary and
	// File.UnmarshalBinary
	PaletteOffset uint16
}

// Pixels returns the number of pixels in the image
func (h Header) Pixels() int {
	return int(h.Width) * int(h.Height)
}

// Paletted reports whether pixel codes are palette indices
func (h Header) Paletted() bool {
	return h.BitDepth != codec.MaxBitDepth
}

// Encoding returns the payload encoding described by the flags
func (h Header) Encoding() codec.Encoding {
	return codec.Encoding{
		Compressed: h.Compressed,
		Parameters: h.Parameters,
	}
}

func (h Header) flags() uint8 {
	if !h.Compressed {
		return 0
	}
	return flagCompressed | h.Parameters.BitsRepeats<<shiftBitsRepeats | h.Parameters.BitsOffset<<shiftBitsOffset
}

func (h *Header) setFlags(f uint8) error {
	if f&flagUnused != 0 {
		return ErrBadFlags
	}
	h.Compressed = f&flagCompressed != 0
	h.Parameters = codec.Parameters{
		BitsRepeats: f>>shiftBitsRepeats&fieldMask,
		BitsOffset:  f>>shiftBitsOffset&fieldMask,
	}
	return nil
}

type rawHeader struct {
	Magic         [magicSize]byte
	Width         uint16
	Height        uint16
	BitDepth      uint8
	Reserved      [2]byte
	Flags         uint8
	PaletteOffset uint16
}

// File is a complete PHC file. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type File struct {
	Header
	Palette []uint16
	Payload []byte
}

func paletteOffset(depth uint8, entries int) int {
	if depth == codec.MaxBitDepth {
		return HeaderSize
	}
	return HeaderSize + 2*entries
}

// MarshalBinary encodes the file into binary form and returns the result
func (f *File) MarshalBinary() ([]byte, error) {
	if f.BitDepth < 1 || f.BitDepth > codec.MaxBitDepth {
		return nil, ErrBadBitDepth
	}
	if f.Compressed && !f.Parameters.Valid() {
		return nil, codec.ErrParameters
	}

	palette := f.Palette
	if !f.Paletted() {
		palette = nil
	}
	if len(palette) > 1<<f.BitDepth {
		return nil, fmt.Errorf("%w: %d entries at bit depth %d", ErrPaletteTooLarge, len(palette), f.BitDepth)
	}

	offset := paletteOffset(f.BitDepth, len(palette))
	if offset > 0xffff {
		return nil, ErrBadPaletteOffset
	}
	f.PaletteOffset = uint16(offset)

	h := rawHeader{
		Width:         f.Width,
		Height:        f.Height,
		BitDepth:      f.BitDepth,
		Flags:         f.flags(),
		PaletteOffset: f.PaletteOffset,
	}
	copy(h.Magic[:], Magic)

	b := bytes.NewBuffer(make([]byte, 0, offset+len(f.Payload)))

	if err := binary.Write(b, binary.BigEndian, &h); err != nil {
		return nil, err
	}
	if len(palette) > 0 {
		if err := binary.Write(b, binary.BigEndian, palette); err != nil {
			return nil, err
		}
	}
	if _, err := b.Write(f.Payload); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the file from binary form. The payload and palette
// are copied out of b.
func (f *File) UnmarshalBinary(b []byte) error {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return err
	}

	palette, err := ReadPalette(b, h)
	if err != nil {
		return err
	}

	f.Header = h
	f.Palette = palette
	f.Payload = append([]byte(nil), b[h.PaletteOffset:]...)

	return nil
}

// UnmarshalBinary decodes and validates just the header from the start of b.
// The palette offset is only checked for consistency with the bit depth.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		if len(b) < len(Magic) || !bytes.Equal(b[:len(Magic)], []byte(Magic)) {
			return ErrBadMagic
		}
		return ErrTooShort
	}

	var raw rawHeader
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.BigEndian, &raw); err != nil {
		return err
	}

	var magic [magicSize]byte
	copy(magic[:], Magic)
	if raw.Magic != magic {
		return ErrBadMagic
	}

	if raw.BitDepth < 1 || raw.BitDepth > codec.MaxBitDepth {
		return fmt.Errorf("%w: %d", ErrBadBitDepth, raw.BitDepth)
	}

	switch {
	case raw.PaletteOffset < HeaderSize, raw.PaletteOffset%2 != 0:
		return fmt.Errorf("%w: %d", ErrBadPaletteOffset, raw.PaletteOffset)
	case raw.BitDepth == codec.MaxBitDepth && raw.PaletteOffset != HeaderSize:
		return fmt.Errorf("%w: %d at bit depth 16", ErrBadPaletteOffset, raw.PaletteOffset)
	}

	*h = Header{
		Width:         raw.Width,
		Height:        raw.Height,
		BitDepth:      raw.BitDepth,
		PaletteOffset: raw.PaletteOffset,
	}

	return h.setFlags(raw.Flags)
}

// Entries returns the number of palette entries implied by the header
func (h Header) Entries() int {
	return (int(h.PaletteOffset) - HeaderSize) / 2
}

// ReadPalette decodes the palette that follows the header h at the start of b
func ReadPalette(b []byte, h Header) ([]uint16, error) {
	if int(h.PaletteOffset) > len(b) {
		return nil, fmt.Errorf("%w: palette ends at %d of %d bytes", ErrTooShort, h.PaletteOffset, len(b))
	}

	n := h.Entries()
	if n > 1<<h.BitDepth {
		return nil, fmt.Errorf("%w: %d entries at bit depth %d", ErrPaletteTooLarge, n, h.BitDepth)
	}
	if n == 0 {
		return nil, nil
	}

	palette := make([]uint16, n)
	if err := binary.Read(bytes.NewReader(b[HeaderSize:h.PaletteOffset]), binary.BigEndian, palette); err != nil {
		return nil, err
	}

	return palette, nil
}
