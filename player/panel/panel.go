// Package panel turns (x, y, r, g, b) writes into RGB565 pixels in the
// panel's active buffer.
package panel

import (
	"errors"
	"fmt"
	"image/color"

	"matrixloop/hal"
)

var ErrUnsupportedFormat = errors.New("panel: unsupported pixel format")

// Sink writes straight into the buffer the panel driver scans out. There is
// no back buffer and no present step.
type Sink struct {
	p      hal.Panel
	buf    []byte
	w, h   int
	stride int
}

func New(p hal.Panel) (*Sink, error) {
	if p == nil {
		return nil, errors.New("panel: nil panel")
	}
	if p.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, p.Format())
	}
	if p.Width() < 0 || p.Height() < 0 {
		return nil, fmt.Errorf("panel: bad surface %dx%d", p.Width(), p.Height())
	}
	if p.StrideBytes() < 2*p.Width() {
		return nil, fmt.Errorf("panel: stride %d bytes, need %d for width %d", p.StrideBytes(), 2*p.Width(), p.Width())
	}
	buf := p.Buffer()
	if len(buf) < p.StrideBytes()*p.Height() {
		return nil, fmt.Errorf("panel: buffer %d bytes, need %d", len(buf), p.StrideBytes()*p.Height())
	}
	return &Sink{
		p:      p,
		buf:    buf,
		w:      p.Width(),
		h:      p.Height(),
		stride: p.StrideBytes(),
	}, nil
}

func (s *Sink) Width() int  { return s.w }
func (s *Sink) Height() int { return s.h }

// Set stores one pixel. Coordinates outside the surface are ignored and
// reported as false.
func (s *Sink) Set(x, y int, r, g, b uint8) bool {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return false
	}
	px := hal.RGB565(r, g, b)
	off := y*s.stride + x*2
	s.buf[off] = byte(px)
	s.buf[off+1] = byte(px >> 8)
	return true
}

// At returns the stored RGB565 value at (x, y).
func (s *Sink) At(x, y int) (uint16, bool) {
	return hal.PixelAt(s.p, x, y)
}

// Clear fills the surface with black.
func (s *Sink) Clear() {
	s.p.ClearRGB(0, 0, 0)
}

func (s *Sink) SetBrightness(level uint8) {
	s.p.SetBrightness(level)
}

// Size, SetPixel and Display make the sink a tinygo drivers.Displayer.

func (s *Sink) Size() (x, y int16) {
	return int16(s.w), int16(s.h)
}

func (s *Sink) SetPixel(x, y int16, c color.RGBA) {
	s.Set(int(x), int(y), c.R, c.G, c.B)
}

func (s *Sink) Display() error { return nil }
