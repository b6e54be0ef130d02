// Package frame decodes raw row-major RGB frames.
//
// A frame is height rows of width pixels, each pixel three bytes R, G, B, with
// no header and no padding.
package frame

import (
	"errors"
	"io"
)

// BytesPerPixel is the size of one RGB triple.
const BytesPerPixel = 3

// Sink receives decoded pixels.
type Sink interface {
	Set(x, y int, r, g, b uint8) bool
}

// Result describes one decode.
type Result struct {
	// Pixels is the number of pixels forwarded to the sink.
	Pixels int
	// Truncated is set when the stream ran out before the last pixel.
	Truncated bool
	// Err is the read error that ended the stream early, if it was not io.EOF.
	Err error
}

// Size returns the expected byte length of a width x height frame.
func Size(width, height int) int {
	return width * height * BytesPerPixel
}

// Decode streams one frame from src into dst in row-major order, one write per
// complete triple. It stops at the first incomplete triple; pixels already
// written stay. Bytes past the last pixel are never read.
func Decode(src io.ByteReader, width, height int, dst Sink) Result {
	var res Result
	var px [BytesPerPixel]byte
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for i := range px {
				b, err := src.ReadByte()
				if err != nil {
					res.Truncated = true
					if !errors.Is(err, io.EOF) {
						res.Err = err
					}
					return res
				}
				px[i] = b
			}
			dst.Set(x, y, px[0], px[1], px[2])
			res.Pixels++
		}
	}
	return res
}
