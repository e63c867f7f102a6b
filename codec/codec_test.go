package codec_test

import (
	"math/rand"
	"testing"

	"github.com/bodgit/phc/codec"
	"github.com/seehuhn/mt19937"
	"github.com/stretchr/testify/require"
)

func newRand(seed int64) *rand.Rand {
	twister := mt19937.New()
	twister.Seed(seed)
	return rand.New(twister)
}

// randomCodes returns n codes of the given depth with a mixture of runs and
// noise, which exercises both block types.
func randomCodes(r *rand.Rand, n, depth int) []uint16 {
	codes := make([]uint16, 0, n)
	limit := 1 << uint(depth)
	for len(codes) < n {
		c := uint16(r.Intn(limit))
		run := 1
		if r.Intn(3) == 0 {
			run += r.Intn(300)
		}
		for ; run > 0 && len(codes) < n; run-- {
			codes = append(codes, c)
		}
	}
	return codes
}

// identityPalette maps every code of the given depth to itself.
func identityPalette(depth int) []uint16 {
	if depth == codec.MaxBitDepth {
		return nil
	}
	p := make([]uint16, 1<<uint(depth))
	for i := range p {
		p[i] = uint16(i)
	}
	return p
}

// decodeAll decodes payload and returns a copy of every pushed colour.
func decodeAll(t *testing.T, payload []byte, n, depth int, e codec.Encoding) []uint16 {
	t.Helper()
	out := []uint16{}
	err := codec.Decode(payload, codec.Config{
		Pixels:   n,
		BitDepth: depth,
		Encoding: e,
		Palette:  identityPalette(depth),
	}, codec.FrameSinkFunc(func(colors []uint16) error {
		out = append(out, colors...)
		return nil
	}))
	require.NoError(t, err)
	return out
}

func TestParameters(t *testing.T) {
	require.True(t, codec.Parameters{BitsRepeats: 7, BitsOffset: 7}.Valid())
	require.False(t, codec.Parameters{BitsRepeats: 8}.Valid())
	require.False(t, codec.Parameters{BitsOffset: 8}.Valid())
	require.Equal(t, "2, 1", codec.Parameters{BitsRepeats: 2, BitsOffset: 1}.String())
}
