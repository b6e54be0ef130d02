package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGB565Packing(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0, 0, 0, 0x0000},
		{0xFF, 0xFF, 0xFF, 0xFFFF},
		{0xFF, 0, 0, 0xF800},
		{0, 0xFF, 0, 0x07E0},
		{0, 0, 0xFF, 0x001F},
		{0x12, 0x34, 0x56, 0x11AA},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, RGB565(tc.r, tc.g, tc.b), "RGB565(%#x,%#x,%#x)", tc.r, tc.g, tc.b)
	}
}

func TestRGB888Extremes(t *testing.T) {
	r, g, b := RGB888(0xFFFF)
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, [3]uint8{r, g, b}, "white")
	r, g, b = RGB888(0xF800)
	assert.Equal(t, [3]uint8{0xFF, 0, 0}, [3]uint8{r, g, b}, "red")
}

func TestPixelAtLittleEndian(t *testing.T) {
	fb := newHostFramebuffer(PanelConfig{Width: 4, Height: 2, Chain: 1})
	off := 1*fb.StrideBytes() + 2*2
	fb.buf[off] = 0x34
	fb.buf[off+1] = 0x12

	p, ok := PixelAt(fb, 2, 1)
	require.True(t, ok)
	assert.Equal(t, uint16(0x1234), p)

	for _, xy := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 2}} {
		_, ok := PixelAt(fb, xy[0], xy[1])
		assert.Falsef(t, ok, "PixelAt(%d,%d)", xy[0], xy[1])
	}
}
