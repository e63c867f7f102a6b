/*
Package codec implements the PHC adaptive run-length codec.

A pixel sequence is a slice of fixed width codes, either direct RGB565 colours
(16 bits) or palette indices (1 to 15 bits, in practice 1 to 8). The compressed
payload is a sequence of control blocks:

	Repeat:  0 + BitsRepeats-bit field          repeat the last pixel field+1 times
	Literal: 1 + BitsOffset-bit field + pixels  read field+1 codes verbatim

Both field widths are between 0 and 7 bits and are chosen per image by Optimize.
The stream is padded with zero bits to a multiple of 16 bits. If compression
would produce a longer payload than tightly packing the codes, the codes are
packed instead and the stream is flagged as uncompressed.

Decoding uses a fixed size batch buffer regardless of the image size so that it
can run on small microcontrollers.
*/
package codec

import (
	"errors"
	"fmt"
)

const (
	// MaxBitDepth is the widest supported pixel code.
	MaxBitDepth = 16

	// MaxFieldBits is the widest repeat or offset field.
	MaxFieldBits = 7

	numWidths = MaxFieldBits + 1
)

var (
	// ErrStreamTruncated is returned when the payload ends before every
	// pixel has been decoded.
	ErrStreamTruncated = errors.New("codec: stream truncated")

	// ErrPaletteIndexOutOfRange is returned when a pixel code has no
	// palette entry.
	ErrPaletteIndexOutOfRange = errors.New("codec: palette index out of range")

	// ErrPixelOverflow is returned when a control block describes more
	// pixels than the image holds.
	ErrPixelOverflow = errors.New("codec: block overflows pixel count")

	// ErrBitDepth is returned for a bit depth outside 1 to 16.
	ErrBitDepth = errors.New("codec: invalid bit depth")

	// ErrParameters is returned for field widths outside 0 to 7.
	ErrParameters = errors.New("codec: invalid compression parameters")

	// ErrCodeOutOfRange is returned when a pixel code does not fit in the
	// bit depth.
	ErrCodeOutOfRange = errors.New("codec: pixel code does not fit bit depth")
)

// Parameters are the field widths used for a compressed stream.
type Parameters struct {
	BitsRepeats uint8
	BitsOffset  uint8
}

// Valid reports whether both widths fit in three bits.
func (p Parameters) Valid() bool {
	return p.BitsRepeats <= MaxFieldBits && p.BitsOffset <= MaxFieldBits
}

func (p Parameters) String() string {
	return fmt.Sprintf("%d, %d", p.BitsRepeats, p.BitsOffset)
}

// Encoding describes how a payload was produced.
type Encoding struct {
	Compressed bool
	Parameters Parameters
}

func validBitDepth(depth int) bool {
	return depth >= 1 && depth <= MaxBitDepth
}

func validate(codes []uint16, depth int) error {
	if !validBitDepth(depth) {
		return ErrBitDepth
	}
	if depth == MaxBitDepth {
		return nil
	}
	limit := uint16(1) << uint(depth)
	for i, c := range codes {
		if c >= limit {
			return fmt.Errorf("%w: code %d at %d, depth %d", ErrCodeOutOfRange, c, i, depth)
		}
	}
	return nil
}

// segment is a literal span followed by the repeats of its last pixel. The
// final segment of a sequence may have no repeats.
type segment struct {
	literal []uint16
	repeats int
}

// segments splits codes into segments with a single forward scan. The first
// pixel of every run stays in the literal span; the rest of the run becomes
// repeats.
func segments(codes []uint16) []segment {
	var s []segment
	start := 0
	for i := 0; i < len(codes); {
		j := i + 1
		for j < len(codes) && codes[j] == codes[i] {
			j++
		}
		if j-i > 1 {
			s = append(s, segment{
				literal: codes[start : i+1],
				repeats: j - i - 1,
			})
			start = j
		}
		i = j
	}
	if start < len(codes) {
		s = append(s, segment{literal: codes[start:]})
	}
	return s
}
