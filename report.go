package phc

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bodgit/phc/codec"
	phcimage "github.com/bodgit/phc/image"
	"github.com/klauspost/compress/zstd"
)

// Report describes a single conversion
type Report struct {
	Source string
	Output string
	Format string
	Cached bool

	SourceBytes int
	Width       int
	Height      int

	// Colors is the number of distinct RGB565 colours encoded
	Colors   int
	BitDepth int

	// RawBytes is the image at 16 bits per pixel
	RawBytes     int
	PaletteBytes int
	// PackedBytes is the pixel codes without compression
	PackedBytes  int
	PayloadBytes int
	Compressed   bool
	Parameters   codec.Parameters
	Analysis     *codec.Analysis

	// ZstdBytes is the packed pixel codes compressed with zstd, for
	// comparison
	ZstdBytes int
	FileBytes int
}

var zstdEncoder = mustNewZstdEncoder()

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func zstdLen(b []byte) int {
	return len(zstdEncoder.EncodeAll(b, nil))
}

func newReport(c *phcimage.Conversion, fileBytes int) (*Report, error) {
	packed, err := codec.Pack(c.Codes, c.BitDepth)
	if err != nil {
		return nil, err
	}

	pixels := len(c.Codes)

	return &Report{
		Width:        int(c.File.Width),
		Height:       int(c.File.Height),
		Colors:       countColors(c),
		BitDepth:     c.BitDepth,
		RawBytes:     pixels * 2,
		PaletteBytes: len(c.Palette) * 2,
		PackedBytes:  len(packed),
		PayloadBytes: len(c.File.Payload),
		Compressed:   c.File.Compressed,
		Parameters:   c.File.Parameters,
		Analysis:     c.Analysis,
		ZstdBytes:    zstdLen(packed),
		FileBytes:    fileBytes,
	}, nil
}

func countColors(c *phcimage.Conversion) int {
	if c.Palette != nil {
		return len(c.Palette)
	}
	seen := make(map[uint16]struct{})
	for _, v := range c.Colors {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Reduction returns the percentage by which the palette and payload are
// smaller than the raw RGB565 pixels
func (r *Report) Reduction() float64 {
	if r.RawBytes == 0 {
		return 0
	}
	return float64(r.RawBytes-r.PaletteBytes-r.PayloadBytes) / float64(r.RawBytes) * 100
}

// WriteTo writes a human readable version of the report to w
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	b := new(bytes.Buffer)
	tw := tabwriter.NewWriter(b, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	if r.Cached {
		fmt.Fprintf(tw, "Output:\t%s (%d bytes, from catalog)\n", r.Output, r.FileBytes)
		tw.Flush()
		return b.WriteTo(w)
	}

	fmt.Fprintf(tw, "Format:\t%s, %d bytes\n", r.Format, r.SourceBytes)
	fmt.Fprintf(tw, "Dimensions:\t%d x %d\n", r.Width, r.Height)
	if r.BitDepth == codec.MaxBitDepth {
		fmt.Fprintf(tw, "Colours:\t%d, unpaletted\n", r.Colors)
	} else {
		fmt.Fprintf(tw, "Colours:\t%d, %d bit palette indices\n", r.Colors, r.BitDepth)
	}
	fmt.Fprintf(tw, "Raw RGB565:\t%d bytes\n", r.RawBytes)
	fmt.Fprintf(tw, "Packed:\t%d bytes + %d bytes palette\n", r.PackedBytes, r.PaletteBytes)
	if r.Compressed {
		fmt.Fprintf(tw, "Compressed:\t%d bytes, parameters %s\n", r.PayloadBytes, r.Parameters)
	} else {
		fmt.Fprintf(tw, "Compressed:\tno\n")
	}
	fmt.Fprintf(tw, "zstd baseline:\t%d bytes\n", r.ZstdBytes)
	fmt.Fprintf(tw, "Output:\t%s (%d bytes)\n", r.Output, r.FileBytes)
	fmt.Fprintf(tw, "Reduction:\t%.1f%%\n", r.Reduction())

	if r.Analysis != nil {
		fmt.Fprintf(tw, "\nWidth\tBits saved\tBits added\n")
		for i := range r.Analysis.BitsSaved {
			fmt.Fprintf(tw, "%d\t%d\t%d\n", i, r.Analysis.BitsSaved[i], r.Analysis.BitsAdded[i])
		}
	}

	if err := tw.Flush(); err != nil {
		return 0, err
	}
	return b.WriteTo(w)
}
