package codec

import "github.com/bodgit/phc/bitstream"

// PackedLen returns the size in bytes of n codes of the given bit depth packed
// without compression, padded to an even number of bytes.
func PackedLen(n, depth int) int {
	return bitstream.PaddedLen(n * depth)
}

func writeRepeats(w *bitstream.Writer, repeats int, p Parameters) {
	limit := 1 << p.BitsRepeats
	for ; repeats >= limit; repeats -= limit {
		w.WriteBit(0)
		w.WriteBits(uint32(limit-1), int(p.BitsRepeats))
	}
	if repeats > 0 {
		w.WriteBit(0)
		w.WriteBits(uint32(repeats-1), int(p.BitsRepeats))
	}
}

func writeLiteral(w *bitstream.Writer, literal []uint16, depth int, p Parameters) {
	limit := 1 << p.BitsOffset
	for len(literal) > 0 {
		n := len(literal)
		if n > limit {
			n = limit
		}
		w.WriteBit(1)
		w.WriteBits(uint32(n-1), int(p.BitsOffset))
		for _, c := range literal[:n] {
			w.WriteBits(uint32(c), depth)
		}
		literal = literal[n:]
	}
}

func compress(codes []uint16, depth int, p Parameters) *bitstream.Writer {
	w := bitstream.NewWriter(len(codes) * depth)
	for _, seg := range segments(codes) {
		writeLiteral(w, seg.literal, depth, p)
		writeRepeats(w, seg.repeats, p)
	}
	return w
}

func pack(codes []uint16, depth int) []byte {
	w := bitstream.NewWriter(len(codes) * depth)
	for _, c := range codes {
		w.WriteBits(uint32(c), depth)
	}
	return w.Bytes()
}

// Compress returns codes compressed with p regardless of whether that is
// smaller than packing them, along with the length of the stream in bits
// before padding.
func Compress(codes []uint16, depth int, p Parameters) ([]byte, int, error) {
	if err := validate(codes, depth); err != nil {
		return nil, 0, err
	}
	if !p.Valid() {
		return nil, 0, ErrParameters
	}
	w := compress(codes, depth, p)
	return w.Bytes(), w.Len(), nil
}

// Pack returns codes packed back to back without compression.
func Pack(codes []uint16, depth int) ([]byte, error) {
	if err := validate(codes, depth); err != nil {
		return nil, err
	}
	return pack(codes, depth), nil
}

// Encode compresses codes with p, falling back to packing them if that would
// be smaller. A compressed stream of equal size is kept.
func Encode(codes []uint16, depth int, p Parameters) ([]byte, Encoding, error) {
	b, _, err := Compress(codes, depth, p)
	if err != nil {
		return nil, Encoding{}, err
	}
	if len(b) > PackedLen(len(codes), depth) {
		return pack(codes, depth), Encoding{}, nil
	}
	return b, Encoding{Compressed: true, Parameters: p}, nil
}

// EncodeOptimal chooses parameters with Optimize and then calls Encode.
func EncodeOptimal(codes []uint16, depth int) ([]byte, Encoding, error) {
	p, err := Optimize(codes, depth)
	if err != nil {
		return nil, Encoding{}, err
	}
	return Encode(codes, depth, p)
}
