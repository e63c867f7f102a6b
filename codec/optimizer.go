package codec

// Analysis holds the cost tables the optimizer uses, indexed by field width.
type Analysis struct {
	// BitsSaved is the number of bits repeat blocks of each width save
	// over emitting the repeated pixels verbatim.
	BitsSaved [numWidths]int

	// BitsAdded is the number of control bits literal blocks of each width
	// add on top of the literal pixel data.
	BitsAdded [numWidths]int

	// Parameters are the widths chosen from the tables above.
	Parameters Parameters
}

// moreBitsSaved is the repeat width selection rule: a candidate only replaces
// the current choice if it saves strictly more bits, so ties keep the smaller
// width.
func moreBitsSaved(candidate, best int) bool {
	return candidate > best
}

// fewerBitsAdded is the offset width selection rule: a candidate only replaces
// the current choice if it adds strictly fewer bits, so ties keep the first
// minimum found in ascending order.
func fewerBitsAdded(candidate, best int) bool {
	return candidate < best
}

func repeatCost(repeats, width int) (removed, blocks int) {
	blocks = repeats >> uint(width)
	removed = blocks << uint(width)
	// Any remainder, even a single repeat, is another repeat block. It
	// never costs more than re-emitting a literal and needs no lookup when
	// decoding.
	if r := repeats - removed; r > 0 {
		removed += r
		blocks++
	}
	return
}

func analyze(s []segment, depth int) *Analysis {
	a := new(Analysis)

	for b := 0; b < numWidths; b++ {
		var removed, blocks int
		for _, seg := range s {
			if seg.repeats == 0 {
				continue
			}
			r, n := repeatCost(seg.repeats, b)
			removed += r
			blocks += n
		}
		a.BitsSaved[b] = removed*depth - blocks*(b+1)

		var literals int
		for _, seg := range s {
			literals += (len(seg.literal) + 1<<uint(b) - 1) >> uint(b)
		}
		a.BitsAdded[b] = literals * (b + 1)
	}

	best := 0
	for b := 0; b < numWidths; b++ {
		if moreBitsSaved(a.BitsSaved[b], best) {
			a.Parameters.BitsRepeats = uint8(b)
			best = a.BitsSaved[b]
		}
	}

	best = a.BitsAdded[0]
	for b := 1; b < numWidths; b++ {
		if fewerBitsAdded(a.BitsAdded[b], best) {
			a.Parameters.BitsOffset = uint8(b)
			best = a.BitsAdded[b]
		}
	}

	return a
}

// Analyze computes the optimizer cost tables for codes of the given bit depth.
func Analyze(codes []uint16, depth int) (*Analysis, error) {
	if err := validate(codes, depth); err != nil {
		return nil, err
	}
	return analyze(segments(codes), depth), nil
}

// Optimize chooses the repeat and offset field widths that minimize the
// compressed size of codes.
func Optimize(codes []uint16, depth int) (Parameters, error) {
	a, err := Analyze(codes, depth)
	if err != nil {
		return Parameters{}, err
	}
	return a.Parameters, nil
}
