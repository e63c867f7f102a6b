/*
Package bitstream implements the bit level reader and writer used by the PHC
payload.

Bits are packed most significant bit first within each byte. A finished stream
is padded with zero bits to a multiple of 16 bits, so the resulting byte slice
always has an even length.
*/
package bitstream

import "errors"

// ErrTruncated is returned when a read runs past the end of the buffer.
var ErrTruncated = errors.New("bitstream: read past end of stream")

// Writer accumulates bits into a growing byte slice.
type Writer struct {
	buf []byte
	n   int // bits written
}

// NewWriter returns a Writer with room for at least hint bits.
func NewWriter(hint int) *Writer {
	return &Writer{
		buf: make([]byte, 0, (hint+7)>>3),
	}
}

// WriteBit writes the lowest bit of b.
func (w *Writer) WriteBit(b uint32) {
	if w.n&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 != 0 {
		w.buf[w.n>>3] |= 0x80 >> uint(w.n&7)
	}
	w.n++
}

// WriteBits writes the lowest n bits of v, most significant first. Writing zero
// bits is a no-op.
func (w *Writer) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(v >> uint(i))
	}
}

// Len returns the number of bits written so far, excluding any padding.
func (w *Writer) Len() int {
	return w.n
}

// Bytes pads the stream with zero bits to the next 16 bit boundary and returns
// the underlying buffer.
func (w *Writer) Bytes() []byte {
	if r := len(w.buf) & 1; r != 0 {
		w.buf = append(w.buf, 0)
	}
	return w.buf
}

// PaddedLen returns the number of bytes Bytes would return for a stream of n
// bits.
func PaddedLen(n int) int {
	return (n + 15) >> 4 << 1
}

// Reader reads bits from a fixed byte slice. Its only state is the buffer and
// a cursor, so it never allocates.
type Reader struct {
	buf   []byte
	index int  // byte index
	bit   uint // bit within the current byte, 7 is the most significant
}

// NewReader returns a Reader positioned on the first bit of b.
func NewReader(b []byte) *Reader {
	return &Reader{
		buf: b,
		bit: 7,
	}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint32, error) {
	if r.index >= len(r.buf) {
		return 0, ErrTruncated
	}
	b := uint32(r.buf[r.index]>>r.bit) & 1
	if r.bit == 0 {
		r.bit = 7
		r.index++
	} else {
		r.bit--
	}
	return b, nil
}

// ReadBits reads n bits, most significant first. Reading zero bits returns
// zero and never fails.
func (r *Reader) ReadBits(n int) (uint32, error) {
	var v uint32
	for ; n > 0; n-- {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | b
	}
	return v, nil
}

// Offset returns the number of bits consumed.
func (r *Reader) Offset() int {
	return r.index<<3 + int(7-r.bit)
}
