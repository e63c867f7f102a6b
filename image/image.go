/*
Package image implements a PHC image decoder and encoder.

PHC stores RGB565 pixels for small TFT displays, either directly at 16 bits
per pixel or as indices into a palette of at most 256 colours, with an
optional run-length style compression of the pixel codes. See the format
package for the file layout and the codec package for the pixel payload.

Encoding blends any transparency over a background colour, picks a palette
when that is smaller, chooses the compression parameters that give the
smallest payload and falls back to plain packed codes when compression does
not help.
*/
package image

import (
	"errors"
	"image"

	"github.com/bodgit/phc/format"
)

const maxDimension = 0xffff

var (
	// ErrImageTooLarge is returned when either dimension exceeds 65535
	ErrImageTooLarge = errors.New("phc: image too large")

	errNotEnough = errors.New("phc: not enough image data")
)

func init() {
	image.RegisterFormat("phc", format.Magic, Decode, DecodeConfig)
}
