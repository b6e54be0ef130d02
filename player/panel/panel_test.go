package panel

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"matrixloop/hal"
)

type memPanel struct {
	w, h       int
	stride     int
	format     hal.PixelFormat
	brightness uint8
	buf        []byte
}

func newMemPanel(w, h int) *memPanel {
	return &memPanel{w: w, h: h, stride: w * 2, format: hal.PixelFormatRGB565, buf: make([]byte, w*h*2)}
}

func (p *memPanel) Width() int                { return p.w }
func (p *memPanel) Height() int               { return p.h }
func (p *memPanel) Format() hal.PixelFormat   { return p.format }
func (p *memPanel) StrideBytes() int          { return p.stride }
func (p *memPanel) Buffer() []byte            { return p.buf }
func (p *memPanel) ChainLength() int          { return 1 }
func (p *memPanel) Brightness() uint8         { return p.brightness }
func (p *memPanel) SetBrightness(level uint8) { p.brightness = level }
func (p *memPanel) ClearRGB(r, g, b uint8) {
	px := hal.RGB565(r, g, b)
	for i := 0; i < len(p.buf); i += 2 {
		p.buf[i] = byte(px)
		p.buf[i+1] = byte(px >> 8)
	}
}

var _ drivers.Displayer = (*Sink)(nil)

func TestSetPacksRGB565LittleEndian(t *testing.T) {
	p := newMemPanel(4, 4)
	s, err := New(p)
	require.NoError(t, err)

	require.True(t, s.Set(1, 2, 0xFF, 0x00, 0x00))
	off := 2*p.StrideBytes() + 1*2
	assert.Equal(t, []byte{0x00, 0xF8}, p.buf[off:off+2])

	px, ok := s.At(1, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(0xF800), px)
}

func TestSetRejectsOutOfBounds(t *testing.T) {
	p := newMemPanel(4, 4)
	s, err := New(p)
	require.NoError(t, err)

	before := append([]byte(nil), p.buf...)
	for _, xy := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		assert.False(t, s.Set(xy[0], xy[1], 0xFF, 0xFF, 0xFF), "(%d,%d)", xy[0], xy[1])
	}
	assert.Equal(t, before, p.buf)
}

func TestClearAndBrightness(t *testing.T) {
	p := newMemPanel(2, 2)
	s, err := New(p)
	require.NoError(t, err)

	s.Set(0, 0, 0xFF, 0xFF, 0xFF)
	s.Clear()
	assert.Equal(t, make([]byte, 8), p.buf)

	s.SetBrightness(155)
	assert.Equal(t, uint8(155), p.brightness)
}

func TestDisplayerSetPixel(t *testing.T) {
	p := newMemPanel(8, 4)
	s, err := New(p)
	require.NoError(t, err)

	w, h := s.Size()
	assert.Equal(t, int16(8), w)
	assert.Equal(t, int16(4), h)

	s.SetPixel(7, 3, color.RGBA{R: 0, G: 0xFF, B: 0, A: 0xFF})
	px, ok := s.At(7, 3)
	require.True(t, ok)
	assert.Equal(t, uint16(0x07E0), px)
	s.SetPixel(8, 0, color.RGBA{R: 0xFF})
	assert.NoError(t, s.Display())
}

func TestNewRejectsOtherFormats(t *testing.T) {
	p := newMemPanel(2, 2)
	p.format = hal.PixelFormat(9)
	_, err := New(p)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewRejectsShortGeometry(t *testing.T) {
	p := newMemPanel(8, 4)
	p.stride = 8*2 - 2
	_, err := New(p)
	assert.Error(t, err, "stride narrower than a row")

	p = newMemPanel(8, 4)
	p.buf = p.buf[:len(p.buf)-1]
	_, err = New(p)
	assert.Error(t, err, "buffer shorter than stride*height")

	p = newMemPanel(8, 4)
	p.stride = 8*2 + 4
	p.buf = make([]byte, p.stride*4)
	s, err := New(p)
	require.NoError(t, err, "padded rows are fine")
	assert.True(t, s.Set(7, 3, 0xFF, 0xFF, 0xFF))
	assert.Equal(t, byte(0xFF), p.buf[3*p.stride+14])
}
